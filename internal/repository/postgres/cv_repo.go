package postgres

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-backend/internal/domain"
)

// cvTable maps one CV section onto its table. fields returns pointers to the
// section-specific struct fields in the same order as columns.
type cvTable[T any] struct {
	name    string
	entity  string
	columns []string
	dates   map[string]bool
	base    func(*T) *domain.CVBase
	fields  func(*T) []any
}

func (t cvTable[T]) selectList() string {
	cols := []string{"id", "user_id", "sort_order", "created_at", "updated_at"}
	for _, c := range t.columns {
		if t.dates[c] {
			c = c + "::text"
		}
		cols = append(cols, c)
	}
	return strings.Join(cols, ", ")
}

func (t cvTable[T]) scan(row pgx.Row) (*T, error) {
	entry := new(T)
	b := t.base(entry)
	dest := append([]any{&b.ID, &b.UserID, &b.SortOrder, &b.CreatedAt, &b.UpdatedAt}, t.fields(entry)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return entry, nil
}

// values dereferences the field pointers so pgx sees plain values and nil
// *string as NULL.
func (t cvTable[T]) values(entry *T) []any {
	ptrs := t.fields(entry)
	out := make([]any, len(ptrs))
	for i, p := range ptrs {
		out[i] = reflect.ValueOf(p).Elem().Interface()
	}
	return out
}

type cvSectionRepo[T any] struct {
	db    *pgxpool.Pool
	table cvTable[T]
}

func newCVSectionRepo[T any](db *pgxpool.Pool, table cvTable[T]) domain.CVSectionRepository[T] {
	return &cvSectionRepo[T]{db: db, table: table}
}

func (r *cvSectionRepo[T]) ListByUser(ctx context.Context, userID string) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY sort_order ASC, created_at ASC`,
		r.table.selectList(), r.table.name)
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err, r.table.entity)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		entry, err := r.table.scan(rows)
		if err != nil {
			return nil, mapError(err, r.table.entity)
		}
		out = append(out, *entry)
	}
	return out, mapError(rows.Err(), r.table.entity)
}

func (r *cvSectionRepo[T]) GetByID(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.table.selectList(), r.table.name)
	entry, err := r.table.scan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, r.table.entity)
	}
	return entry, nil
}

func (r *cvSectionRepo[T]) Create(ctx context.Context, entry *T) error {
	b := r.table.base(entry)
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	cols := append([]string{"id", "user_id", "sort_order", "created_at", "updated_at"}, r.table.columns...)
	args := append([]any{b.ID, b.UserID, b.SortOrder, b.CreatedAt, b.UpdatedAt}, r.table.values(entry)...)

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		r.table.name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	_, err := r.db.Exec(ctx, query, args...)
	return mapError(err, r.table.entity)
}

func (r *cvSectionRepo[T]) Update(ctx context.Context, entry *T) error {
	b := r.table.base(entry)
	sets := []string{"sort_order = $2", "updated_at = $3"}
	args := []any{b.ID, b.SortOrder, b.UpdatedAt}
	for i, col := range r.table.columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+4))
	}
	args = append(args, r.table.values(entry)...)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1`, r.table.name, strings.Join(sets, ", "))
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, r.table.entity)
	}
	return expectAffected(tag, r.table.entity)
}

func (r *cvSectionRepo[T]) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table.name), id)
	if err != nil {
		return mapError(err, r.table.entity)
	}
	return expectAffected(tag, r.table.entity)
}

var (
	skillsTable = cvTable[domain.Skill]{
		name:    "cv_skills",
		entity:  "skill",
		columns: []string{"name", "category", "level", "years_of_experience"},
		base:    func(s *domain.Skill) *domain.CVBase { return &s.CVBase },
		fields: func(s *domain.Skill) []any {
			return []any{&s.Name, &s.Category, &s.Level, &s.YearsOfExperience}
		},
	}

	experiencesTable = cvTable[domain.Experience]{
		name:   "cv_experiences",
		entity: "experience",
		columns: []string{
			"company", "position", "location", "employment_type",
			"start_date", "end_date", "is_current", "description",
		},
		dates: map[string]bool{"start_date": true, "end_date": true},
		base:  func(e *domain.Experience) *domain.CVBase { return &e.CVBase },
		fields: func(e *domain.Experience) []any {
			return []any{
				&e.Company, &e.Position, &e.Location, &e.EmploymentType,
				&e.StartDate, &e.EndDate, &e.IsCurrent, &e.Description,
			}
		},
	}

	educationsTable = cvTable[domain.Education]{
		name:   "cv_educations",
		entity: "education",
		columns: []string{
			"institution", "degree", "field_of_study", "start_date", "end_date", "grade", "description",
		},
		dates: map[string]bool{"start_date": true, "end_date": true},
		base:  func(e *domain.Education) *domain.CVBase { return &e.CVBase },
		fields: func(e *domain.Education) []any {
			return []any{&e.Institution, &e.Degree, &e.FieldOfStudy, &e.StartDate, &e.EndDate, &e.Grade, &e.Description}
		},
	}

	certificationsTable = cvTable[domain.Certification]{
		name:    "cv_certifications",
		entity:  "certification",
		columns: []string{"name", "issuer", "issue_date", "expiry_date", "credential_id", "credential_url"},
		dates:   map[string]bool{"issue_date": true, "expiry_date": true},
		base:    func(c *domain.Certification) *domain.CVBase { return &c.CVBase },
		fields: func(c *domain.Certification) []any {
			return []any{&c.Name, &c.Issuer, &c.IssueDate, &c.ExpiryDate, &c.CredentialID, &c.CredentialURL}
		},
	}

	awardsTable = cvTable[domain.Award]{
		name:    "cv_awards",
		entity:  "award",
		columns: []string{"title", "issuer", "award_date", "description"},
		dates:   map[string]bool{"award_date": true},
		base:    func(a *domain.Award) *domain.CVBase { return &a.CVBase },
		fields: func(a *domain.Award) []any {
			return []any{&a.Title, &a.Issuer, &a.AwardDate, &a.Description}
		},
	}

	interestsTable = cvTable[domain.Interest]{
		name:    "cv_interests",
		entity:  "interest",
		columns: []string{"name", "description"},
		base:    func(i *domain.Interest) *domain.CVBase { return &i.CVBase },
		fields: func(i *domain.Interest) []any {
			return []any{&i.Name, &i.Description}
		},
	}

	referencesTable = cvTable[domain.Reference]{
		name:    "cv_references",
		entity:  "reference",
		columns: []string{"name", "position", "company", "email", "phone", "relationship"},
		base:    func(r *domain.Reference) *domain.CVBase { return &r.CVBase },
		fields: func(r *domain.Reference) []any {
			return []any{&r.Name, &r.Position, &r.Company, &r.Email, &r.Phone, &r.Relationship}
		},
	}
)

// NewCVRepositories builds every CV section repository on one pool.
func NewCVRepositories(db *pgxpool.Pool) domain.CVRepositories {
	return domain.CVRepositories{
		PersonalInfo:   NewPersonalInfoRepository(db),
		Skills:         newCVSectionRepo(db, skillsTable),
		Experiences:    newCVSectionRepo(db, experiencesTable),
		Educations:     newCVSectionRepo(db, educationsTable),
		Certifications: newCVSectionRepo(db, certificationsTable),
		Awards:         newCVSectionRepo(db, awardsTable),
		Interests:      newCVSectionRepo(db, interestsTable),
		References:     newCVSectionRepo(db, referencesTable),
	}
}

const personalInfoColumns = `id, user_id, full_name, headline, email, phone, location, website,
    linkedin_url, github_url, summary, avatar_url, created_at, updated_at`

type personalInfoRepo struct {
	db *pgxpool.Pool
}

func NewPersonalInfoRepository(db *pgxpool.Pool) domain.PersonalInfoRepository {
	return &personalInfoRepo{db: db}
}

func (r *personalInfoRepo) GetByUser(ctx context.Context, userID string) (*domain.PersonalInfo, error) {
	var p domain.PersonalInfo
	err := r.db.QueryRow(ctx, `SELECT `+personalInfoColumns+` FROM cv_personal_info WHERE user_id = $1`, userID).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Headline, &p.Email, &p.Phone, &p.Location, &p.Website,
		&p.LinkedinURL, &p.GithubURL, &p.Summary, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "personal info")
	}
	return &p, nil
}

// Upsert keeps one row per user; id and created_at survive updates.
func (r *personalInfoRepo) Upsert(ctx context.Context, p *domain.PersonalInfo) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	query := `INSERT INTO cv_personal_info (` + personalInfoColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        ON CONFLICT (user_id) DO UPDATE SET
            full_name = EXCLUDED.full_name,
            headline = EXCLUDED.headline,
            email = EXCLUDED.email,
            phone = EXCLUDED.phone,
            location = EXCLUDED.location,
            website = EXCLUDED.website,
            linkedin_url = EXCLUDED.linkedin_url,
            github_url = EXCLUDED.github_url,
            summary = EXCLUDED.summary,
            avatar_url = EXCLUDED.avatar_url,
            updated_at = EXCLUDED.updated_at
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.UserID, p.FullName, p.Headline, p.Email, p.Phone, p.Location, p.Website,
		p.LinkedinURL, p.GithubURL, p.Summary, p.AvatarURL, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	return mapError(err, "personal info")
}

func (r *personalInfoRepo) DeleteByUser(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cv_personal_info WHERE user_id = $1`, userID)
	if err != nil {
		return mapError(err, "personal info")
	}
	return expectAffected(tag, "personal info")
}
