package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-backend/internal/domain"
)

const contactColumns = `id, name, email, subject, message, status, ip_address, user_agent, email_sent, created_at, updated_at`

var contactSorts = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"email":      "email",
	"subject":    "subject",
	"status":     "status",
}

type contactRepo struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) domain.ContactRepository {
	return &contactRepo{db: db}
}

func scanContact(row pgx.Row) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status,
		&m.IPAddress, &m.UserAgent, &m.EmailSent, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *contactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `INSERT INTO contact_messages (` + contactColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message, msg.Status,
		msg.IPAddress, msg.UserAgent, msg.EmailSent, msg.CreatedAt, msg.UpdatedAt,
	)
	return mapError(err, "message")
}

func (r *contactRepo) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	m, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contact_messages WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "message")
	}
	return m, nil
}

func contactWhere(filter domain.ContactFilter) *where {
	w := &where{}
	if filter.Status != "" {
		w.eq("status", filter.Status)
	}
	if filter.Search != "" {
		w.anyILike([]string{"name", "email", "subject", "message"}, filter.Search)
	}
	return w
}

func (r *contactRepo) List(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, int64, error) {
	w := contactWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "message")
	}

	query := `SELECT ` + contactColumns + ` FROM contact_messages` + w.clause() +
		orderBy(filter.Sort, filter.Order, contactSorts, "created_at") + w.page(filter.PageRequest)
	msgs, err := r.query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// ListAll ignores pagination; used by exports.
func (r *contactRepo) ListAll(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, error) {
	w := contactWhere(filter)
	query := `SELECT ` + contactColumns + ` FROM contact_messages` + w.clause() +
		orderBy(filter.Sort, filter.Order, contactSorts, "created_at")
	return r.query(ctx, query, w.args...)
}

func (r *contactRepo) query(ctx context.Context, query string, args ...any) ([]domain.ContactMessage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "message")
	}
	defer rows.Close()

	var msgs []domain.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, mapError(err, "message")
		}
		msgs = append(msgs, *m)
	}
	return msgs, mapError(rows.Err(), "message")
}

func (r *contactRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE contact_messages SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		return mapError(err, "message")
	}
	return expectAffected(tag, "message")
}

func (r *contactRepo) MarkEmailSent(ctx context.Context, id string, sent bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE contact_messages SET email_sent = $2, updated_at = $3 WHERE id = $1`,
		id, sent, time.Now().UTC(),
	)
	if err != nil {
		return mapError(err, "message")
	}
	return expectAffected(tag, "message")
}

// Delete removes the message; replies go with it via ON DELETE CASCADE.
func (r *contactRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "message")
	}
	return expectAffected(tag, "message")
}

// CreateReply stores the reply and flips the message to replied in one transaction.
func (r *contactRepo) CreateReply(ctx context.Context, reply *domain.ContactReply) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return mapError(err, "reply")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO contact_replies (id, message_id, admin_id, subject, body, sent_at, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		reply.ID, reply.MessageID, reply.AdminID, reply.Subject, reply.Body, reply.SentAt, reply.CreatedAt,
	)
	if err != nil {
		return mapError(err, "reply")
	}

	tag, err := tx.Exec(ctx,
		`UPDATE contact_messages SET status = $2, updated_at = $3 WHERE id = $1`,
		reply.MessageID, domain.ContactStatusReplied, reply.CreatedAt,
	)
	if err != nil {
		return mapError(err, "message")
	}
	if err := expectAffected(tag, "message"); err != nil {
		return err
	}

	return mapError(tx.Commit(ctx), "reply")
}

func (r *contactRepo) ListReplies(ctx context.Context, messageID string) ([]domain.ContactReply, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, message_id, admin_id, subject, body, sent_at, created_at
         FROM contact_replies WHERE message_id = $1 ORDER BY created_at ASC`,
		messageID,
	)
	if err != nil {
		return nil, mapError(err, "reply")
	}
	defer rows.Close()

	var replies []domain.ContactReply
	for rows.Next() {
		var rep domain.ContactReply
		if err := rows.Scan(&rep.ID, &rep.MessageID, &rep.AdminID, &rep.Subject, &rep.Body, &rep.SentAt, &rep.CreatedAt); err != nil {
			return nil, mapError(err, "reply")
		}
		replies = append(replies, rep)
	}
	return replies, mapError(rows.Err(), "reply")
}

func (r *contactRepo) Stats(ctx context.Context) (*domain.ContactStats, error) {
	query := `SELECT
        COUNT(*),
        COUNT(*) FILTER (WHERE status = 'unread'),
        COUNT(*) FILTER (WHERE status = 'read'),
        COUNT(*) FILTER (WHERE status = 'replied'),
        COUNT(*) FILTER (WHERE status = 'archived')
    FROM contact_messages`

	var s domain.ContactStats
	if err := r.db.QueryRow(ctx, query).Scan(&s.Total, &s.Unread, &s.Read, &s.Replied, &s.Archived); err != nil {
		return nil, mapError(err, "message")
	}
	return &s, nil
}
