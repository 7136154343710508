package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-backend/pkg/validation"
)

// CV section identifiers used in routes and table names.
const (
	SectionSkills         = "skills"
	SectionExperiences    = "experiences"
	SectionEducations     = "educations"
	SectionCertifications = "certifications"
	SectionAwards         = "awards"
	SectionInterests      = "interests"
	SectionReferences     = "references"
)

var (
	ErrEndBeforeStart     = errors.New("end_date must not be before start_date")
	ErrEndDateWhenCurrent = errors.New("end_date must be empty when is_current is true")
	ErrExpiryBeforeIssue  = errors.New("expiry_date must not be before issue_date")
)

// CVEntry is implemented by every owned, multi-row CV section.
type CVEntry interface {
	EntryID() string
	OwnerID() string
	SetOwner(userID string)
	Touch(now time.Time)
	// Check validates rules spanning several fields.
	Check() error
	Sanitize(clean func(string) string)
}

// CVBase holds the columns shared by all section rows.
type CVBase struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *CVBase) EntryID() string { return b.ID }
func (b *CVBase) OwnerID() string { return b.UserID }
func (b *CVBase) SetOwner(userID string) { b.UserID = userID }

func (b *CVBase) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func (b *CVBase) Check() error { return nil }
func (b *CVBase) Sanitize(func(string) string) {}

// CVCreateRequest converts a validated create DTO into a new row.
type CVCreateRequest[T any] interface {
	ToEntry() *T
}

// CVUpdateRequest merges a validated partial DTO into an existing row.
type CVUpdateRequest[T any] interface {
	ApplyTo(entry *T)
}

type CVSectionRepository[T any] interface {
	ListByUser(ctx context.Context, userID string) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, entry *T) error
	Update(ctx context.Context, entry *T) error
	Delete(ctx context.Context, id string) error
}

// CVSectionUsecase is the owner-scoped CRUD surface of one section.
type CVSectionUsecase[T any, C any, U any] interface {
	List(ctx context.Context, p *Principal) ([]T, error)
	Get(ctx context.Context, p *Principal, id string) (*T, error)
	Create(ctx context.Context, p *Principal, req C) (*T, error)
	Update(ctx context.Context, p *Principal, id string, req U) (*T, error)
	Delete(ctx context.Context, p *Principal, id string) error
}

// ---- Personal info ----

type PersonalInfo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FullName    string    `json:"full_name"`
	Headline    *string   `json:"headline"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Location    *string   `json:"location"`
	Website     *string   `json:"website"`
	LinkedinURL *string   `json:"linkedin_url"`
	GithubURL   *string   `json:"github_url"`
	Summary     *string   `json:"summary"`
	AvatarURL   *string   `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PersonalInfoRequest struct {
	FullName    string  `json:"full_name" validate:"required,notblank,min=2,max=100,valid_name"`
	Headline    *string `json:"headline" validate:"omitempty,max=150"`
	Email       *string `json:"email" validate:"omitempty,email,max=254"`
	Phone       *string `json:"phone" validate:"omitempty,valid_phone"`
	Location    *string `json:"location" validate:"omitempty,max=100"`
	Website     *string `json:"website" validate:"omitempty,url,max=500"`
	LinkedinURL *string `json:"linkedin_url" validate:"omitempty,url,max=500"`
	GithubURL   *string `json:"github_url" validate:"omitempty,url,max=500"`
	Summary     *string `json:"summary" validate:"omitempty,max=2000"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url,max=500"`
}

// ApplyTo overwrites every field of info; PUT semantics.
func (r *PersonalInfoRequest) ApplyTo(info *PersonalInfo) {
	info.FullName = strings.TrimSpace(r.FullName)
	info.Headline = blankToNil(r.Headline)
	info.Email = blankToNil(r.Email)
	info.Phone = blankToNil(r.Phone)
	info.Location = blankToNil(r.Location)
	info.Website = blankToNil(r.Website)
	info.LinkedinURL = blankToNil(r.LinkedinURL)
	info.GithubURL = blankToNil(r.GithubURL)
	info.Summary = blankToNil(r.Summary)
	info.AvatarURL = blankToNil(r.AvatarURL)
}

type PersonalInfoRepository interface {
	GetByUser(ctx context.Context, userID string) (*PersonalInfo, error)
	Upsert(ctx context.Context, info *PersonalInfo) error
	DeleteByUser(ctx context.Context, userID string) error
}

// ---- Skills ----

type Skill struct {
	CVBase
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	Level             *string `json:"level"`
	YearsOfExperience *int    `json:"years_of_experience"`
}

type CreateSkillRequest struct {
	Name              string  `json:"name" validate:"required,notblank,max=100"`
	Category          string  `json:"category" validate:"omitempty,oneof=technical soft language tool other"`
	Level             *string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	YearsOfExperience *int    `json:"years_of_experience" validate:"omitempty,min=0,max=60"`
	SortOrder         int     `json:"sort_order" validate:"min=0"`
}

func (r *CreateSkillRequest) ToEntry() *Skill {
	category := r.Category
	if category == "" {
		category = "technical"
	}
	return &Skill{
		CVBase:            CVBase{SortOrder: r.SortOrder},
		Name:              strings.TrimSpace(r.Name),
		Category:          category,
		Level:             blankToNil(r.Level),
		YearsOfExperience: r.YearsOfExperience,
	}
}

type UpdateSkillRequest struct {
	Name              *string `json:"name" validate:"omitempty,notblank,max=100"`
	Category          *string `json:"category" validate:"omitempty,oneof=technical soft language tool other"`
	Level             *string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	YearsOfExperience *int    `json:"years_of_experience" validate:"omitempty,min=0,max=60"`
	SortOrder         *int    `json:"sort_order" validate:"omitempty,min=0"`
}

func (r *UpdateSkillRequest) ApplyTo(s *Skill) {
	setTrimmed(&s.Name, r.Name)
	set(&s.Category, r.Category)
	setOptional(&s.Level, r.Level)
	if r.YearsOfExperience != nil {
		s.YearsOfExperience = r.YearsOfExperience
	}
	set(&s.SortOrder, r.SortOrder)
}

// ---- Experiences ----

type Experience struct {
	CVBase
	Company        string  `json:"company"`
	Position       string  `json:"position"`
	Location       *string `json:"location"`
	EmploymentType *string `json:"employment_type"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date"`
	IsCurrent      bool    `json:"is_current"`
	Description    *string `json:"description"`
}

func (e *Experience) Check() error {
	if e.IsCurrent && e.EndDate != nil {
		return ErrEndDateWhenCurrent
	}
	if e.EndDate != nil && !validation.DateNotBefore(e.StartDate, *e.EndDate) {
		return ErrEndBeforeStart
	}
	return nil
}

func (e *Experience) Sanitize(clean func(string) string) {
	sanitizeOptional(e.Description, clean)
}

type CreateExperienceRequest struct {
	Company        string  `json:"company" validate:"required,notblank,max=150"`
	Position       string  `json:"position" validate:"required,notblank,max=150"`
	Location       *string `json:"location" validate:"omitempty,max=100"`
	EmploymentType *string `json:"employment_type" validate:"omitempty,oneof=full_time part_time contract freelance internship"`
	StartDate      string  `json:"start_date" validate:"required,date_only"`
	EndDate        *string `json:"end_date" validate:"omitempty,date_only"`
	IsCurrent      bool    `json:"is_current"`
	Description    *string `json:"description" validate:"omitempty,max=5000"`
	SortOrder      int     `json:"sort_order" validate:"min=0"`
}

func (r *CreateExperienceRequest) ToEntry() *Experience {
	return &Experience{
		CVBase:         CVBase{SortOrder: r.SortOrder},
		Company:        strings.TrimSpace(r.Company),
		Position:       strings.TrimSpace(r.Position),
		Location:       blankToNil(r.Location),
		EmploymentType: blankToNil(r.EmploymentType),
		StartDate:      r.StartDate,
		EndDate:        blankToNil(r.EndDate),
		IsCurrent:      r.IsCurrent,
		Description:    blankToNil(r.Description),
	}
}

type UpdateExperienceRequest struct {
	Company        *string `json:"company" validate:"omitempty,notblank,max=150"`
	Position       *string `json:"position" validate:"omitempty,notblank,max=150"`
	Location       *string `json:"location" validate:"omitempty,max=100"`
	EmploymentType *string `json:"employment_type" validate:"omitempty,oneof=full_time part_time contract freelance internship"`
	StartDate      *string `json:"start_date" validate:"omitempty,date_only"`
	EndDate        *string `json:"end_date" validate:"omitempty,date_only"`
	IsCurrent      *bool   `json:"is_current"`
	Description    *string `json:"description" validate:"omitempty,max=5000"`
	SortOrder      *int    `json:"sort_order" validate:"omitempty,min=0"`
}

func (r *UpdateExperienceRequest) ApplyTo(e *Experience) {
	setTrimmed(&e.Company, r.Company)
	setTrimmed(&e.Position, r.Position)
	setOptional(&e.Location, r.Location)
	setOptional(&e.EmploymentType, r.EmploymentType)
	set(&e.StartDate, r.StartDate)
	setOptional(&e.EndDate, r.EndDate)
	set(&e.IsCurrent, r.IsCurrent)
	// Switching to a current role drops a stale end date unless one was sent.
	if r.IsCurrent != nil && *r.IsCurrent && r.EndDate == nil {
		e.EndDate = nil
	}
	setOptional(&e.Description, r.Description)
	set(&e.SortOrder, r.SortOrder)
}

// ---- Educations ----

type Education struct {
	CVBase
	Institution  string  `json:"institution"`
	Degree       string  `json:"degree"`
	FieldOfStudy *string `json:"field_of_study"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Grade        *string `json:"grade"`
	Description  *string `json:"description"`
}

func (e *Education) Check() error {
	if e.EndDate != nil && !validation.DateNotBefore(e.StartDate, *e.EndDate) {
		return ErrEndBeforeStart
	}
	return nil
}

func (e *Education) Sanitize(clean func(string) string) {
	sanitizeOptional(e.Description, clean)
}

type CreateEducationRequest struct {
	Institution  string  `json:"institution" validate:"required,notblank,max=150"`
	Degree       string  `json:"degree" validate:"required,notblank,max=150"`
	FieldOfStudy *string `json:"field_of_study" validate:"omitempty,max=150"`
	StartDate    string  `json:"start_date" validate:"required,date_only"`
	EndDate      *string `json:"end_date" validate:"omitempty,date_only"`
	Grade        *string `json:"grade" validate:"omitempty,max=50"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	SortOrder    int     `json:"sort_order" validate:"min=0"`
}

func (r *CreateEducationRequest) ToEntry() *Education {
	return &Education{
		CVBase:       CVBase{SortOrder: r.SortOrder},
		Institution:  strings.TrimSpace(r.Institution),
		Degree:       strings.TrimSpace(r.Degree),
		FieldOfStudy: blankToNil(r.FieldOfStudy),
		StartDate:    r.StartDate,
		EndDate:      blankToNil(r.EndDate),
		Grade:        blankToNil(r.Grade),
		Description:  blankToNil(r.Description),
	}
}

type UpdateEducationRequest struct {
	Institution  *string `json:"institution" validate:"omitempty,notblank,max=150"`
	Degree       *string `json:"degree" validate:"omitempty,notblank,max=150"`
	FieldOfStudy *string `json:"field_of_study" validate:"omitempty,max=150"`
	StartDate    *string `json:"start_date" validate:"omitempty,date_only"`
	EndDate      *string `json:"end_date" validate:"omitempty,date_only"`
	Grade        *string `json:"grade" validate:"omitempty,max=50"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	SortOrder    *int    `json:"sort_order" validate:"omitempty,min=0"`
}

func (r *UpdateEducationRequest) ApplyTo(e *Education) {
	setTrimmed(&e.Institution, r.Institution)
	setTrimmed(&e.Degree, r.Degree)
	setOptional(&e.FieldOfStudy, r.FieldOfStudy)
	set(&e.StartDate, r.StartDate)
	setOptional(&e.EndDate, r.EndDate)
	setOptional(&e.Grade, r.Grade)
	setOptional(&e.Description, r.Description)
	set(&e.SortOrder, r.SortOrder)
}

// ---- Certifications ----

type Certification struct {
	CVBase
	Name          string  `json:"name"`
	Issuer        string  `json:"issuer"`
	IssueDate     string  `json:"issue_date"`
	ExpiryDate    *string `json:"expiry_date"`
	CredentialID  *string `json:"credential_id"`
	CredentialURL *string `json:"credential_url"`
}

func (c *Certification) Check() error {
	if c.ExpiryDate != nil && !validation.DateNotBefore(c.IssueDate, *c.ExpiryDate) {
		return ErrExpiryBeforeIssue
	}
	return nil
}

type CreateCertificationRequest struct {
	Name          string  `json:"name" validate:"required,notblank,max=150"`
	Issuer        string  `json:"issuer" validate:"required,notblank,max=150"`
	IssueDate     string  `json:"issue_date" validate:"required,date_only"`
	ExpiryDate    *string `json:"expiry_date" validate:"omitempty,date_only"`
	CredentialID  *string `json:"credential_id" validate:"omitempty,max=100"`
	CredentialURL *string `json:"credential_url" validate:"omitempty,url,max=500"`
	SortOrder     int     `json:"sort_order" validate:"min=0"`
}

func (r *CreateCertificationRequest) ToEntry() *Certification {
	return &Certification{
		CVBase:        CVBase{SortOrder: r.SortOrder},
		Name:          strings.TrimSpace(r.Name),
		Issuer:        strings.TrimSpace(r.Issuer),
		IssueDate:     r.IssueDate,
		ExpiryDate:    blankToNil(r.ExpiryDate),
		CredentialID:  blankToNil(r.CredentialID),
		CredentialURL: blankToNil(r.CredentialURL),
	}
}

type UpdateCertificationRequest struct {
	Name          *string `json:"name" validate:"omitempty,notblank,max=150"`
	Issuer        *string `json:"issuer" validate:"omitempty,notblank,max=150"`
	IssueDate     *string `json:"issue_date" validate:"omitempty,date_only"`
	ExpiryDate    *string `json:"expiry_date" validate:"omitempty,date_only"`
	CredentialID  *string `json:"credential_id" validate:"omitempty,max=100"`
	CredentialURL *string `json:"credential_url" validate:"omitempty,url,max=500"`
	SortOrder     *int    `json:"sort_order" validate:"omitempty,min=0"`
}

func (r *UpdateCertificationRequest) ApplyTo(c *Certification) {
	setTrimmed(&c.Name, r.Name)
	setTrimmed(&c.Issuer, r.Issuer)
	set(&c.IssueDate, r.IssueDate)
	setOptional(&c.ExpiryDate, r.ExpiryDate)
	setOptional(&c.CredentialID, r.CredentialID)
	setOptional(&c.CredentialURL, r.CredentialURL)
	set(&c.SortOrder, r.SortOrder)
}

// ---- Awards ----

type Award struct {
	CVBase
	Title       string  `json:"title"`
	Issuer      *string `json:"issuer"`
	AwardDate   *string `json:"award_date"`
	Description *string `json:"description"`
}

func (a *Award) Sanitize(clean func(string) string) {
	sanitizeOptional(a.Description, clean)
}

type CreateAwardRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=150"`
	Issuer      *string `json:"issuer" validate:"omitempty,max=150"`
	AwardDate   *string `json:"award_date" validate:"omitempty,date_only"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	SortOrder   int     `json:"sort_order" validate:"min=0"`
}

func (r *CreateAwardRequest) ToEntry() *Award {
	return &Award{
		CVBase:      CVBase{SortOrder: r.SortOrder},
		Title:       strings.TrimSpace(r.Title),
		Issuer:      blankToNil(r.Issuer),
		AwardDate:   blankToNil(r.AwardDate),
		Description: blankToNil(r.Description),
	}
}

type UpdateAwardRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=150"`
	Issuer      *string `json:"issuer" validate:"omitempty,max=150"`
	AwardDate   *string `json:"award_date" validate:"omitempty,date_only"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,min=0"`
}

func (r *UpdateAwardRequest) ApplyTo(a *Award) {
	setTrimmed(&a.Title, r.Title)
	setOptional(&a.Issuer, r.Issuer)
	setOptional(&a.AwardDate, r.AwardDate)
	setOptional(&a.Description, r.Description)
	set(&a.SortOrder, r.SortOrder)
}

// ---- Interests ----

type Interest struct {
	CVBase
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (i *Interest) Sanitize(clean func(string) string) {
	sanitizeOptional(i.Description, clean)
}

type CreateInterestRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	SortOrder   int     `json:"sort_order" validate:"min=0"`
}

func (r *CreateInterestRequest) ToEntry() *Interest {
	return &Interest{
		CVBase:      CVBase{SortOrder: r.SortOrder},
		Name:        strings.TrimSpace(r.Name),
		Description: blankToNil(r.Description),
	}
}

type UpdateInterestRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,min=0"`
}

func (r *UpdateInterestRequest) ApplyTo(i *Interest) {
	setTrimmed(&i.Name, r.Name)
	setOptional(&i.Description, r.Description)
	set(&i.SortOrder, r.SortOrder)
}

// ---- References ----

type Reference struct {
	CVBase
	Name         string  `json:"name"`
	Position     *string `json:"position"`
	Company      *string `json:"company"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Relationship *string `json:"relationship"`
}

type CreateReferenceRequest struct {
	Name         string  `json:"name" validate:"required,notblank,min=2,max=100,valid_name"`
	Position     *string `json:"position" validate:"omitempty,max=150"`
	Company      *string `json:"company" validate:"omitempty,max=150"`
	Email        *string `json:"email" validate:"omitempty,email,max=254"`
	Phone        *string `json:"phone" validate:"omitempty,valid_phone"`
	Relationship *string `json:"relationship" validate:"omitempty,max=100"`
	SortOrder    int     `json:"sort_order" validate:"min=0"`
}

func (r *CreateReferenceRequest) ToEntry() *Reference {
	return &Reference{
		CVBase:       CVBase{SortOrder: r.SortOrder},
		Name:         strings.TrimSpace(r.Name),
		Position:     blankToNil(r.Position),
		Company:      blankToNil(r.Company),
		Email:        blankToNil(r.Email),
		Phone:        blankToNil(r.Phone),
		Relationship: blankToNil(r.Relationship),
	}
}

type UpdateReferenceRequest struct {
	Name         *string `json:"name" validate:"omitempty,notblank,min=2,max=100,valid_name"`
	Position     *string `json:"position" validate:"omitempty,max=150"`
	Company      *string `json:"company" validate:"omitempty,max=150"`
	Email        *string `json:"email" validate:"omitempty,email,max=254"`
	Phone        *string `json:"phone" validate:"omitempty,valid_phone"`
	Relationship *string `json:"relationship" validate:"omitempty,max=100"`
	SortOrder    *int    `json:"sort_order" validate:"omitempty,min=0"`
}

func (r *UpdateReferenceRequest) ApplyTo(ref *Reference) {
	setTrimmed(&ref.Name, r.Name)
	setOptional(&ref.Position, r.Position)
	setOptional(&ref.Company, r.Company)
	setOptional(&ref.Email, r.Email)
	setOptional(&ref.Phone, r.Phone)
	setOptional(&ref.Relationship, r.Relationship)
	set(&ref.SortOrder, r.SortOrder)
}

// CV is the aggregate returned by the full and public CV endpoints.
type CV struct {
	UserID         string          `json:"user_id"`
	PersonalInfo   *PersonalInfo   `json:"personal_info"`
	Skills         []Skill         `json:"skills"`
	Experiences    []Experience    `json:"experiences"`
	Educations     []Education     `json:"educations"`
	Certifications []Certification `json:"certifications"`
	Awards         []Award         `json:"awards"`
	Interests      []Interest      `json:"interests"`
	References     []Reference     `json:"references"`
}

type (
	SkillUsecase         = CVSectionUsecase[Skill, *CreateSkillRequest, *UpdateSkillRequest]
	ExperienceUsecase    = CVSectionUsecase[Experience, *CreateExperienceRequest, *UpdateExperienceRequest]
	EducationUsecase     = CVSectionUsecase[Education, *CreateEducationRequest, *UpdateEducationRequest]
	CertificationUsecase = CVSectionUsecase[Certification, *CreateCertificationRequest, *UpdateCertificationRequest]
	AwardUsecase         = CVSectionUsecase[Award, *CreateAwardRequest, *UpdateAwardRequest]
	InterestUsecase      = CVSectionUsecase[Interest, *CreateInterestRequest, *UpdateInterestRequest]
	ReferenceUsecase     = CVSectionUsecase[Reference, *CreateReferenceRequest, *UpdateReferenceRequest]
)

// CVRepositories groups the section repositories the aggregate reads from.
type CVRepositories struct {
	PersonalInfo   PersonalInfoRepository
	Skills         CVSectionRepository[Skill]
	Experiences    CVSectionRepository[Experience]
	Educations     CVSectionRepository[Education]
	Certifications CVSectionRepository[Certification]
	Awards         CVSectionRepository[Award]
	Interests      CVSectionRepository[Interest]
	References     CVSectionRepository[Reference]
}

type CVUsecase interface {
	GetFullCV(ctx context.Context, userID string) (*CV, error)
	GetPersonalInfo(ctx context.Context, p *Principal) (*PersonalInfo, error)
	UpsertPersonalInfo(ctx context.Context, p *Principal, req *PersonalInfoRequest) (*PersonalInfo, error)
	DeletePersonalInfo(ctx context.Context, p *Principal) error
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// setOptional treats an explicit empty string as "clear the column".
func setOptional(dst **string, src *string) {
	if src == nil {
		return
	}
	*dst = blankToNil(src)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func sanitizeOptional(s *string, clean func(string) string) {
	if s != nil {
		*s = clean(*s)
	}
}
