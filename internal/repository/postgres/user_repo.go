package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-backend/internal/domain"
)

const userColumns = `id, email, full_name, avatar_url, role, created_at, updated_at`

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO profiles (id, email, full_name, avatar_url, role, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.FullName, user.AvatarURL, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	return mapError(err, "user")
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "user")
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles WHERE lower(email) = lower($1)`
	u, err := scanUser(r.db.QueryRow(ctx, query, strings.TrimSpace(email)))
	if err != nil {
		return nil, mapError(err, "user")
	}
	return u, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE profiles SET email = $2, full_name = $3, avatar_url = $4, role = $5, updated_at = $6
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, user.ID, user.Email, user.FullName, user.AvatarURL, user.Role, user.UpdatedAt)
	if err != nil {
		return mapError(err, "user")
	}
	return expectAffected(tag, "user")
}

func (r *userRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	var w where
	if filter.Search != "" {
		w.anyILike([]string{"email", "full_name"}, filter.Search)
	}
	if filter.Role != "" {
		w.eq("role", filter.Role)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "user")
	}

	query := `SELECT ` + userColumns + ` FROM profiles` + w.clause() +
		` ORDER BY created_at DESC, id DESC` + w.page(filter.PageRequest)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, mapError(err, "user")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, mapError(err, "user")
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "user")
	}
	return users, total, nil
}
