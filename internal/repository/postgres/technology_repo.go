package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"portfolio-backend/internal/domain"
)

const technologyColumns = `id, owner_id, name, slug, category, proficiency, icon_url, website_url, description,
    years_of_experience, featured, sort_order, created_at, updated_at`

var technologySorts = map[string]string{
	"name":       "name",
	"category":   "category",
	"sort_order": "sort_order",
	"created_at": "created_at",
}

type technologyRepo struct {
	db *pgxpool.Pool
}

func NewTechnologyRepository(db *pgxpool.Pool) domain.TechnologyRepository {
	return &technologyRepo{db: db}
}

func scanTechnology(row pgx.Row) (*domain.Technology, error) {
	var t domain.Technology
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Name, &t.Slug, &t.Category, &t.Proficiency, &t.IconURL, &t.WebsiteURL,
		&t.Description, &t.YearsOfExperience, &t.Featured, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *technologyRepo) Create(ctx context.Context, t *domain.Technology) error {
	query := `INSERT INTO technologies (` + technologyColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.OwnerID, t.Name, t.Slug, t.Category, t.Proficiency, t.IconURL, t.WebsiteURL,
		t.Description, t.YearsOfExperience, t.Featured, t.SortOrder, t.CreatedAt, t.UpdatedAt,
	)
	return mapError(err, "technology")
}

func (r *technologyRepo) GetByID(ctx context.Context, id string) (*domain.Technology, error) {
	t, err := scanTechnology(r.db.QueryRow(ctx, `SELECT `+technologyColumns+` FROM technologies WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "technology")
	}
	return t, nil
}

func (r *technologyRepo) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM technologies WHERE lower(name) = lower($1) AND ($2 = '' OR id::text <> $2))`,
		name, excludeID,
	).Scan(&exists)
	return exists, mapError(err, "technology")
}

func (r *technologyRepo) Update(ctx context.Context, t *domain.Technology) error {
	query := `UPDATE technologies SET name = $2, slug = $3, category = $4, proficiency = $5, icon_url = $6,
            website_url = $7, description = $8, years_of_experience = $9, featured = $10,
            sort_order = $11, updated_at = $12
        WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		t.ID, t.Name, t.Slug, t.Category, t.Proficiency, t.IconURL,
		t.WebsiteURL, t.Description, t.YearsOfExperience, t.Featured,
		t.SortOrder, t.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "technology")
	}
	return expectAffected(tag, "technology")
}

func (r *technologyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM technologies WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "technology")
	}
	return expectAffected(tag, "technology")
}

func (r *technologyRepo) List(ctx context.Context, filter domain.TechnologyFilter) ([]domain.Technology, int64, error) {
	w := &where{}
	if filter.Search != "" {
		w.ilike("name", filter.Search)
	}
	if filter.Category != "" {
		w.eq("category", filter.Category)
	}
	if filter.Featured != nil {
		w.eq("featured", *filter.Featured)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM technologies`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "technology")
	}

	order := filter.Order
	if order == "" && filter.Sort == "" {
		order = string(domain.SortAsc)
	}
	query := `SELECT ` + technologyColumns + ` FROM technologies` + w.clause() +
		orderBy(filter.Sort, order, technologySorts, "sort_order") + w.page(filter.PageRequest)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, mapError(err, "technology")
	}
	defer rows.Close()

	var techs []domain.Technology
	for rows.Next() {
		t, err := scanTechnology(rows)
		if err != nil {
			return nil, 0, mapError(err, "technology")
		}
		techs = append(techs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "technology")
	}
	return techs, total, nil
}

// CountByIDs reports how many of ids exist; callers compare against len(ids).
func (r *technologyRepo) CountByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM technologies WHERE id = ANY($1::uuid[])`, pq.Array(ids)).Scan(&n)
	return n, mapError(err, "technology")
}
