package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"portfolio-backend/internal/domain"
)

func TestWhereBuilder(t *testing.T) {
	var w where
	w.eq("status", "published")
	w.anyILike([]string{"title", "summary"}, "go_lang 100%")
	w.contains("tags", "go")
	w.raw("deleted_at IS NULL")

	assert.Equal(t,
		" WHERE status = $1 AND (title ILIKE $2 OR summary ILIKE $2) AND tags @> $3 AND deleted_at IS NULL",
		w.clause())
	assert.Len(t, w.args, 3)
	assert.Equal(t, `%go\_lang 100\%%`, w.args[1])

	assert.Equal(t, " LIMIT $4 OFFSET $5", w.page(domain.PageRequest{Page: 3, Limit: 20}))
	assert.Equal(t, 20, w.args[3])
	assert.Equal(t, 40, w.args[4])
}

func TestEmptyWhere(t *testing.T) {
	var w where
	assert.Equal(t, "", w.clause())
}

func TestOrderBy(t *testing.T) {
	allowed := map[string]string{"title": "title", "likes": "likes_count"}

	assert.Equal(t, " ORDER BY likes_count ASC, id ASC", orderBy("likes", "asc", allowed, "created_at"))
	assert.Equal(t, " ORDER BY created_at DESC, id DESC", orderBy("title; DROP TABLE x", "", allowed, "created_at"))
}
