package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
)

const projectColumns = `p.id, p.owner_id, p.title, p.slug, p.summary, p.description, p.status, p.featured,
    p.repo_url, p.live_url, p.cover_image_url, p.tags, p.technology_ids,
    p.started_on::text, p.completed_on::text, p.likes_count, p.created_at, p.updated_at`

var projectSorts = map[string]string{
	"created_at":  "p.created_at",
	"title":       "p.title",
	"likes_count": "p.likes_count",
}

type projectRepo struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) domain.ProjectRepository {
	return &projectRepo{db: db}
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Slug, &p.Summary, &p.Description, &p.Status, &p.Featured,
		&p.RepoURL, &p.LiveURL, &p.CoverImageURL, pq.Array(&p.Tags), pq.Array(&p.TechnologyIDs),
		&p.StartedOn, &p.CompletedOn, &p.LikesCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.TechnologyIDs == nil {
		p.TechnologyIDs = []string{}
	}
	return &p, nil
}

func (r *projectRepo) collect(rows pgx.Rows) ([]domain.Project, error) {
	defer rows.Close()
	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, mapError(err, "project")
		}
		out = append(out, *p)
	}
	return out, mapError(rows.Err(), "project")
}

func (r *projectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (id, owner_id, title, slug, summary, description, status, featured,
            repo_url, live_url, cover_image_url, tags, technology_ids, started_on, completed_on,
            likes_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 0, $16, $17)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.OwnerID, p.Title, p.Slug, p.Summary, p.Description, p.Status, p.Featured,
		p.RepoURL, p.LiveURL, p.CoverImageURL, pq.Array(p.Tags), pq.Array(p.TechnologyIDs),
		p.StartedOn, p.CompletedOn, p.CreatedAt, p.UpdatedAt,
	)
	return mapError(err, "project")
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapError(err, "project")
	}
	return p, nil
}

func (r *projectRepo) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.slug = $1`, slug))
	if err != nil {
		return nil, mapError(err, "project")
	}
	return p, nil
}

func (r *projectRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM projects WHERE slug = $1 AND ($2 = '' OR id::text <> $2))`,
		slug, excludeID,
	).Scan(&exists)
	return exists, mapError(err, "project")
}

// Update never touches likes_count; the like endpoints own that column.
func (r *projectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET title = $2, slug = $3, summary = $4, description = $5, status = $6,
            featured = $7, repo_url = $8, live_url = $9, cover_image_url = $10, tags = $11,
            technology_ids = $12, started_on = $13, completed_on = $14, updated_at = $15
        WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		p.ID, p.Title, p.Slug, p.Summary, p.Description, p.Status,
		p.Featured, p.RepoURL, p.LiveURL, p.CoverImageURL, pq.Array(p.Tags),
		pq.Array(p.TechnologyIDs), p.StartedOn, p.CompletedOn, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "project")
	}
	return expectAffected(tag, "project")
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "project")
	}
	return expectAffected(tag, "project")
}

func projectWhere(filter domain.ProjectFilter) *where {
	w := &where{}
	if filter.Search != "" {
		w.anyILike([]string{"p.title", "p.summary"}, filter.Search)
	}
	if filter.Tag != "" {
		w.contains("p.tags", domain.NormalizeTags([]string{filter.Tag})...)
	}
	if filter.Technology != "" {
		w.contains("p.technology_ids", filter.Technology)
	}
	if filter.Status != "" {
		w.eq("p.status", filter.Status)
	}
	if filter.Featured != nil {
		w.eq("p.featured", *filter.Featured)
	}
	return w
}

func (r *projectRepo) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, int64, error) {
	w := projectWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects p`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "project")
	}

	query := `SELECT ` + projectColumns + ` FROM projects p` + w.clause() +
		orderBy(filter.Sort, filter.Order, projectSorts, "p.created_at") + w.page(filter.PageRequest)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, mapError(err, "project")
	}
	projects, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepo) Like(ctx context.Context, projectID, userID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO project_likes (project_id, user_id, created_at) VALUES ($1, $2, $3)
         ON CONFLICT (project_id, user_id) DO NOTHING`,
		projectID, userID, time.Now().UTC(),
	)
	if err != nil {
		return mapError(err, "like")
	}
	if tag.RowsAffected() == 0 {
		return apperror.Conflict("project already liked")
	}

	tag, err = tx.Exec(ctx, `UPDATE projects SET likes_count = likes_count + 1 WHERE id = $1`, projectID)
	if err != nil {
		return mapError(err, "project")
	}
	if err := expectAffected(tag, "project"); err != nil {
		return err
	}

	return mapError(tx.Commit(ctx), "like")
}

func (r *projectRepo) Unlike(ctx context.Context, projectID, userID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM project_likes WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return mapError(err, "like")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("project not liked")
	}

	_, err = tx.Exec(ctx,
		`UPDATE projects SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1`, projectID)
	if err != nil {
		return mapError(err, "project")
	}

	return mapError(tx.Commit(ctx), "like")
}

func (r *projectRepo) HasLiked(ctx context.Context, projectID, userID string) (bool, error) {
	var liked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM project_likes WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID,
	).Scan(&liked)
	return liked, mapError(err, "like")
}

// ListLikedBy returns published projects the user liked, most recent like first.
func (r *projectRepo) ListLikedBy(ctx context.Context, userID string, page domain.PageRequest) ([]domain.Project, int64, error) {
	w := &where{}
	w.eq("l.user_id", userID)
	w.eq("p.status", domain.ProjectStatusPublished)
	from := ` FROM project_likes l JOIN projects p ON p.id = l.project_id`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+from+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "project")
	}

	query := `SELECT ` + projectColumns + from + w.clause() +
		` ORDER BY l.created_at DESC, p.id DESC` + w.page(page)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, mapError(err, "project")
	}
	projects, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}
