package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"portfolio-backend/internal/domain"
)

// where accumulates AND-ed conditions and their positional arguments.
type where struct {
	conds []string
	args  []any
}

// placeholder appends v and returns its $n marker.
func (w *where) placeholder(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) eq(col string, v any) {
	w.conds = append(w.conds, fmt.Sprintf("%s = %s", col, w.placeholder(v)))
}

// ilike matches term anywhere in col, case-insensitively.
func (w *where) ilike(col, term string) {
	w.anyILike([]string{col}, term)
}

// anyILike ORs a substring match over cols, sharing one argument.
func (w *where) anyILike(cols []string, term string) {
	ph := w.placeholder(likePattern(term))
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s ILIKE %s", col, ph)
	}
	if len(parts) == 1 {
		w.conds = append(w.conds, parts[0])
		return
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

// contains requires the array column to hold every value.
func (w *where) contains(col string, values ...string) {
	w.conds = append(w.conds, fmt.Sprintf("%s @> %s", col, w.placeholder(pq.Array(values))))
}

func (w *where) raw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET for a normalized request.
func (w *where) page(req domain.PageRequest) string {
	req = req.Normalize()
	return fmt.Sprintf(" LIMIT %s OFFSET %s", w.placeholder(req.Limit), w.placeholder(req.Offset()))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
}

// orderBy maps a client sort key onto a whitelisted column. Unknown keys use
// fallback. A stable id tiebreaker keeps pages deterministic.
func orderBy(sort, order string, allowed map[string]string, fallback string) string {
	col, ok := allowed[sort]
	if !ok {
		col = fallback
	}
	dir := "DESC"
	if domain.ParseSortOrder(order) == domain.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir)
}
