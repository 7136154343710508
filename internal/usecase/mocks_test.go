package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"portfolio-backend/internal/domain"
)

// Mock Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Get(1).(int64), args.Error(2)
}

type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) SignUp(ctx context.Context, email, password string, metadata map[string]any, redirectTo string) (*domain.ProviderUser, *domain.Session, error) {
	args := m.Called(ctx, email, password, metadata, redirectTo)
	u, _ := args.Get(0).(*domain.ProviderUser)
	s, _ := args.Get(1).(*domain.Session)
	return u, s, args.Error(2)
}
func (m *MockAuthProvider) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}
func (m *MockAuthProvider) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	args := m.Called(ctx, refreshToken)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}
func (m *MockAuthProvider) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}
func (m *MockAuthProvider) RecoverPassword(ctx context.Context, email, redirectTo string) error {
	return m.Called(ctx, email, redirectTo).Error(0)
}
func (m *MockAuthProvider) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return m.Called(ctx, accessToken, newPassword).Error(0)
}
func (m *MockAuthProvider) SetUserRole(ctx context.Context, userID, role string) error {
	return m.Called(ctx, userID, role).Error(0)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyToken(ctx context.Context, token string) (*domain.ProviderUser, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*domain.ProviderUser)
	return u, args.Error(1)
}

type MockLoginGuard struct {
	mock.Mock
}

func (m *MockLoginGuard) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	args := m.Called(ctx, email, ip)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoginGuard) RecordFailure(ctx context.Context, email string, meta domain.ClientMeta) (bool, error) {
	args := m.Called(ctx, email, meta)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoginGuard) Reset(ctx context.Context, email, ip string) error {
	return m.Called(ctx, email, ip).Error(0)
}

type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockContactRepo) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*domain.ContactMessage)
	return msg, args.Error(1)
}
func (m *MockContactRepo) List(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, int64, error) {
	args := m.Called(ctx, filter)
	msgs, _ := args.Get(0).([]domain.ContactMessage)
	return msgs, args.Get(1).(int64), args.Error(2)
}
func (m *MockContactRepo) ListAll(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, error) {
	args := m.Called(ctx, filter)
	msgs, _ := args.Get(0).([]domain.ContactMessage)
	return msgs, args.Error(1)
}
func (m *MockContactRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockContactRepo) MarkEmailSent(ctx context.Context, id string, sent bool) error {
	return m.Called(ctx, id, sent).Error(0)
}
func (m *MockContactRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockContactRepo) CreateReply(ctx context.Context, reply *domain.ContactReply) error {
	return m.Called(ctx, reply).Error(0)
}
func (m *MockContactRepo) ListReplies(ctx context.Context, messageID string) ([]domain.ContactReply, error) {
	args := m.Called(ctx, messageID)
	replies, _ := args.Get(0).([]domain.ContactReply)
	return replies, args.Error(1)
}
func (m *MockContactRepo) Stats(ctx context.Context) (*domain.ContactStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*domain.ContactStats)
	return s, args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) IsConfigured() bool {
	return m.Called().Bool(0)
}
func (m *MockMailer) SendContactNotification(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockMailer) SendContactAcknowledgement(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockMailer) SendContactReply(ctx context.Context, msg *domain.ContactMessage, reply *domain.ContactReply) error {
	return m.Called(ctx, msg, reply).Error(0)
}

// MockSectionRepo serves any CV section.
type MockSectionRepo[T any] struct {
	mock.Mock
}

func (m *MockSectionRepo[T]) ListByUser(ctx context.Context, userID string) ([]T, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]T)
	return rows, args.Error(1)
}
func (m *MockSectionRepo[T]) GetByID(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(*T)
	return row, args.Error(1)
}
func (m *MockSectionRepo[T]) Create(ctx context.Context, entry *T) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *MockSectionRepo[T]) Update(ctx context.Context, entry *T) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *MockSectionRepo[T]) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockPersonalInfoRepo struct {
	mock.Mock
}

func (m *MockPersonalInfoRepo) GetByUser(ctx context.Context, userID string) (*domain.PersonalInfo, error) {
	args := m.Called(ctx, userID)
	info, _ := args.Get(0).(*domain.PersonalInfo)
	return info, args.Error(1)
}
func (m *MockPersonalInfoRepo) Upsert(ctx context.Context, info *domain.PersonalInfo) error {
	return m.Called(ctx, info).Error(0)
}
func (m *MockPersonalInfoRepo) DeleteByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Project)
	return p, args.Error(1)
}
func (m *MockProjectRepo) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(*domain.Project)
	return p, args.Error(1)
}
func (m *MockProjectRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockProjectRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockProjectRepo) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, int64, error) {
	args := m.Called(ctx, filter)
	ps, _ := args.Get(0).([]domain.Project)
	return ps, args.Get(1).(int64), args.Error(2)
}
func (m *MockProjectRepo) Like(ctx context.Context, projectID, userID string) error {
	return m.Called(ctx, projectID, userID).Error(0)
}
func (m *MockProjectRepo) Unlike(ctx context.Context, projectID, userID string) error {
	return m.Called(ctx, projectID, userID).Error(0)
}
func (m *MockProjectRepo) HasLiked(ctx context.Context, projectID, userID string) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockProjectRepo) ListLikedBy(ctx context.Context, userID string, page domain.PageRequest) ([]domain.Project, int64, error) {
	args := m.Called(ctx, userID, page)
	ps, _ := args.Get(0).([]domain.Project)
	return ps, args.Get(1).(int64), args.Error(2)
}

type MockTechnologyRepo struct {
	mock.Mock
}

func (m *MockTechnologyRepo) Create(ctx context.Context, t *domain.Technology) error {
	return m.Called(ctx, t).Error(0)
}
func (m *MockTechnologyRepo) GetByID(ctx context.Context, id string) (*domain.Technology, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*domain.Technology)
	return t, args.Error(1)
}
func (m *MockTechnologyRepo) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockTechnologyRepo) Update(ctx context.Context, t *domain.Technology) error {
	return m.Called(ctx, t).Error(0)
}
func (m *MockTechnologyRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockTechnologyRepo) List(ctx context.Context, filter domain.TechnologyFilter) ([]domain.Technology, int64, error) {
	args := m.Called(ctx, filter)
	ts, _ := args.Get(0).([]domain.Technology)
	return ts, args.Get(1).(int64), args.Error(2)
}
func (m *MockTechnologyRepo) CountByIDs(ctx context.Context, ids []string) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}
func (m *MockStorage) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
func (m *MockStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type MockQuota struct {
	mock.Mock
}

func (m *MockQuota) AllowUpload(ctx context.Context, userID string) (bool, int, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) Scan(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}
