package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/validation"
)

func newContactUsecase(repo *MockContactRepo, mailer *MockMailer, autoReply bool) domain.ContactUsecase {
	return usecase.NewContactUsecase(repo, mailer, validation.New(), validation.NewSanitizer(), nil, logger.Discard(), autoReply)
}

var validContact = &domain.ContactRequest{
	Name:    "Jane Doe",
	Email:   "Jane@Example.com",
	Subject: "Project inquiry",
	Message: "<b>Hello</b>, I would like to talk about a project.",
}

func TestContactSubmit(t *testing.T) {
	ctx := context.Background()
	meta := domain.ClientMeta{IP: "203.0.113.7", UserAgent: "Mozilla/5.0"}

	t.Run("validation failure", func(t *testing.T) {
		repo, mailer := new(MockContactRepo), new(MockMailer)
		uc := newContactUsecase(repo, mailer, false)

		_, err := uc.Submit(ctx, &domain.ContactRequest{Name: "J", Email: "nope", Subject: "Hi", Message: "short"}, meta)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("stores sanitized unread message and mails it", func(t *testing.T) {
		repo, mailer := new(MockContactRepo), new(MockMailer)
		uc := newContactUsecase(repo, mailer, true)

		repo.On("Create", ctx, mock.MatchedBy(func(m *domain.ContactMessage) bool {
			return m.Status == domain.ContactStatusUnread &&
				m.Email == "jane@example.com" &&
				m.Message == "Hello, I would like to talk about a project." &&
				*m.IPAddress == "203.0.113.7"
		})).Return(nil)
		mailer.On("IsConfigured").Return(true)
		mailer.On("SendContactNotification", ctx, mock.Anything).Return(nil)
		repo.On("MarkEmailSent", ctx, mock.Anything, true).Return(nil)
		mailer.On("SendContactAcknowledgement", ctx, mock.Anything).Return(nil)

		msg, err := uc.Submit(ctx, validContact, meta)
		require.NoError(t, err)
		assert.True(t, msg.EmailSent)
		repo.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("mail failure still succeeds with email_sent false", func(t *testing.T) {
		repo, mailer := new(MockContactRepo), new(MockMailer)
		uc := newContactUsecase(repo, mailer, true)

		repo.On("Create", ctx, mock.Anything).Return(nil)
		mailer.On("IsConfigured").Return(true)
		mailer.On("SendContactNotification", ctx, mock.Anything).Return(errors.New("smtp down"))

		msg, err := uc.Submit(ctx, validContact, meta)
		require.NoError(t, err)
		assert.False(t, msg.EmailSent)
		repo.AssertNotCalled(t, "MarkEmailSent", mock.Anything, mock.Anything, mock.Anything)
		mailer.AssertNotCalled(t, "SendContactAcknowledgement", mock.Anything, mock.Anything)
	})

	t.Run("unconfigured mailer skips delivery", func(t *testing.T) {
		repo, mailer := new(MockContactRepo), new(MockMailer)
		uc := newContactUsecase(repo, mailer, true)

		repo.On("Create", ctx, mock.Anything).Return(nil)
		mailer.On("IsConfigured").Return(false)

		msg, err := uc.Submit(ctx, validContact, meta)
		require.NoError(t, err)
		assert.False(t, msg.EmailSent)
	})
}

func TestContactSubmitTruncatesMetaOnRuneBoundary(t *testing.T) {
	ctx := context.Background()
	repo, mailer := new(MockContactRepo), new(MockMailer)
	uc := newContactUsecase(repo, mailer, false)

	// 511 ASCII bytes then a 3-byte rune straddling the 512 byte cap
	ua := strings.Repeat("a", 511) + "日本"
	var stored *domain.ContactMessage
	repo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.ContactMessage)
	}).Return(nil)
	mailer.On("IsConfigured").Return(false)

	_, err := uc.Submit(ctx, validContact, domain.ClientMeta{IP: "203.0.113.7", UserAgent: ua})
	require.NoError(t, err)
	require.NotNil(t, stored.UserAgent)
	assert.True(t, utf8.ValidString(*stored.UserAgent))
	assert.Equal(t, strings.Repeat("a", 511), *stored.UserAgent)
}

func TestContactGetMarksRead(t *testing.T) {
	ctx := context.Background()
	repo, mailer := new(MockContactRepo), new(MockMailer)
	uc := newContactUsecase(repo, mailer, false)

	repo.On("GetByID", ctx, "m1").Return(&domain.ContactMessage{ID: "m1", Status: domain.ContactStatusUnread}, nil)
	repo.On("ListReplies", ctx, "m1").Return([]domain.ContactReply{{ID: "r1"}}, nil)
	repo.On("UpdateStatus", ctx, "m1", domain.ContactStatusRead).Return(nil)

	msg, err := uc.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusRead, msg.Status)
	assert.Len(t, msg.Replies, 1)
	repo.AssertExpectations(t)
}

func TestContactReply(t *testing.T) {
	ctx := context.Background()
	admin := &domain.Principal{ID: "admin1", Role: domain.RoleAdmin}
	original := &domain.ContactMessage{ID: "m1", Email: "jane@example.com", Subject: "Project inquiry"}

	t.Run("unconfigured mail transport", func(t *testing.T) {
		repo, mailer := new(MockContactRepo), new(MockMailer)
		uc := newContactUsecase(repo, mailer, false)
		repo.On("GetByID", ctx, "m1").Return(original, nil)
		mailer.On("IsConfigured").Return(false)

		_, err := uc.Reply(ctx, admin, "m1", &domain.ContactReplyRequest{Body: "Thanks!"})
		assert.Equal(t, http.StatusServiceUnavailable, apperror.Code(err))
	})

	t.Run("missing message", func(t *testing.T) {
		repo, mailer := new(MockContactRepo), new(MockMailer)
		uc := newContactUsecase(repo, mailer, false)
		repo.On("GetByID", ctx, "nope").Return(nil, apperror.NotFound("message not found"))

		_, err := uc.Reply(ctx, admin, "nope", &domain.ContactReplyRequest{Body: "Thanks!"})
		assert.Equal(t, http.StatusNotFound, apperror.Code(err))
	})

	t.Run("sends then persists with default subject", func(t *testing.T) {
		repo, mailer := new(MockContactRepo), new(MockMailer)
		uc := newContactUsecase(repo, mailer, false)
		repo.On("GetByID", ctx, "m1").Return(original, nil)
		mailer.On("IsConfigured").Return(true)
		mailer.On("SendContactReply", ctx, original, mock.Anything).Return(nil)
		repo.On("CreateReply", ctx, mock.MatchedBy(func(r *domain.ContactReply) bool {
			return r.Subject == "Re: Project inquiry" && r.AdminID == "admin1" && r.MessageID == "m1"
		})).Return(nil)

		reply, err := uc.Reply(ctx, admin, "m1", &domain.ContactReplyRequest{Body: "Thanks!"})
		require.NoError(t, err)
		assert.Equal(t, "Thanks!", reply.Body)
		repo.AssertExpectations(t)
	})

	t.Run("send failure stores nothing", func(t *testing.T) {
		repo, mailer := new(MockContactRepo), new(MockMailer)
		uc := newContactUsecase(repo, mailer, false)
		repo.On("GetByID", ctx, "m1").Return(original, nil)
		mailer.On("IsConfigured").Return(true)
		mailer.On("SendContactReply", ctx, original, mock.Anything).Return(errors.New("smtp down"))

		_, err := uc.Reply(ctx, admin, "m1", &domain.ContactReplyRequest{Body: "Thanks!"})
		assert.Equal(t, http.StatusServiceUnavailable, apperror.Code(err))
		repo.AssertNotCalled(t, "CreateReply", mock.Anything, mock.Anything)
	})
}

func TestContactListRejectsUnknownStatus(t *testing.T) {
	uc := newContactUsecase(new(MockContactRepo), new(MockMailer), false)
	_, err := uc.List(context.Background(), domain.ContactFilter{Status: "spam"})
	assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
}

func TestContactExport(t *testing.T) {
	ctx := context.Background()
	ip := "203.0.113.7"
	rows := []domain.ContactMessage{{
		ID: "m1", Name: "Jane, Doe", Email: "jane@example.com", Subject: "Hi",
		Message: "Line one\nline two", Status: domain.ContactStatusRead, IPAddress: &ip,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}}

	t.Run("unknown format", func(t *testing.T) {
		uc := newContactUsecase(new(MockContactRepo), new(MockMailer), false)
		_, err := uc.Export(ctx, domain.ContactFilter{}, "pdf")
		assert.Equal(t, http.StatusBadRequest, apperror.Code(err))
	})

	t.Run("csv quotes fields", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("ListAll", ctx, domain.ContactFilter{}).Return(rows, nil)
		uc := newContactUsecase(repo, new(MockMailer), false)

		file, err := uc.Export(ctx, domain.ContactFilter{}, "csv")
		require.NoError(t, err)
		assert.Contains(t, file.Filename, ".csv")

		records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Jane, Doe", records[1][1])
		assert.Equal(t, "Line one\nline two", records[1][4])
		assert.Equal(t, "2024-05-01T12:00:00Z", records[1][8])
	})

	t.Run("csv neutralizes formulas", func(t *testing.T) {
		hostile := []domain.ContactMessage{{
			ID: "m2", Name: `=HYPERLINK("http://evil.example","click")`, Email: "x@example.com",
			Subject: "+1+1", Message: "@SUM(A1:A2)", Status: domain.ContactStatusUnread,
			CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}}
		repo := new(MockContactRepo)
		repo.On("ListAll", ctx, domain.ContactFilter{}).Return(hostile, nil)
		uc := newContactUsecase(repo, new(MockMailer), false)

		file, err := uc.Export(ctx, domain.ContactFilter{}, "csv")
		require.NoError(t, err)

		records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, `'=HYPERLINK("http://evil.example","click")`, records[1][1])
		assert.Equal(t, "'+1+1", records[1][3])
		assert.Equal(t, "'@SUM(A1:A2)", records[1][4])
		assert.Equal(t, "x@example.com", records[1][2])
	})

	t.Run("xlsx defaults", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("ListAll", ctx, domain.ContactFilter{}).Return(rows, nil)
		uc := newContactUsecase(repo, new(MockMailer), false)

		file, err := uc.Export(ctx, domain.ContactFilter{}, "")
		require.NoError(t, err)
		assert.Contains(t, file.Filename, ".xlsx")

		wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
		require.NoError(t, err)
		defer wb.Close()
		name, err := wb.GetCellValue("Messages", "B2")
		require.NoError(t, err)
		assert.Equal(t, "Jane, Doe", name)
		header, err := wb.GetCellValue("Messages", "A1")
		require.NoError(t, err)
		assert.Equal(t, "ID", header)
	})
}
