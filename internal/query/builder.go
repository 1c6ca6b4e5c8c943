// Package query builds paginated, filtered SELECT statements for the
// list services. A Spec is a plain value describing the predicate,
// ordering and page window; it produces a row query and a count query
// that share the same predicate, so the reported total always reflects
// the filters rather than the returned slice. The builder never touches
// the network; repositories execute both statements in one pgx batch.
package query

import (
	"fmt"
	"strings"

	"github.com/buildory/phodo-admin/internal/models"
)

type condKind int

const (
	condEq condKind = iota
	condMatch
)

type cond struct {
	kind  condKind
	field string
	value string
}

// Spec describes one list query against a named collection.
// Field names are supplied by repository code, never by callers of the
// HTTP API; only values are bound as statement parameters.
type Spec struct {
	table        string
	join         string
	conds        []cond
	searchTerm   string
	searchFields []string
	orderBy      string
	orderDesc    bool
	page         int
	limit        int
	unpaged      bool
}

// New starts a spec over a table. The table string may carry an alias
// ("projects p").
func New(table string) *Spec {
	return &Spec{
		table:     table,
		orderBy:   "created_at",
		orderDesc: true,
		page:      models.DefaultPage,
		limit:     models.DefaultLimit,
	}
}

// Table returns the collection name, for error context.
func (s *Spec) Table() string {
	return s.table
}

// Join appends a join clause ("LEFT JOIN profiles pr ON pr.id = p.user_id").
func (s *Spec) Join(clause string) *Spec {
	s.join = clause
	return s
}

// Eq adds an exact-match condition. Empty values are ignored so unset
// filters cost nothing.
func (s *Spec) Eq(field, value string) *Spec {
	if value != "" {
		s.conds = append(s.conds, cond{condEq, field, value})
	}
	return s
}

// Match adds a case-insensitive substring condition.
func (s *Spec) Match(field, value string) *Spec {
	if value != "" {
		s.conds = append(s.conds, cond{condMatch, field, value})
	}
	return s
}

// Search sets an OR-combined case-insensitive substring match across a
// fixed set of text fields. It is ANDed with the other conditions.
func (s *Spec) Search(term string, fields ...string) *Spec {
	if term != "" && len(fields) > 0 {
		s.searchTerm = term
		s.searchFields = fields
	}
	return s
}

// OrderBy overrides the default descending created_at ordering.
func (s *Spec) OrderBy(field string, desc bool) *Spec {
	s.orderBy = field
	s.orderDesc = desc
	return s
}

// Page sets the page window. Non-positive page or limit fall back to
// the listing defaults rather than producing a broken OFFSET.
func (s *Spec) Page(page, limit int) *Spec {
	s.page = models.NormalizePage(page)
	s.limit = models.NormalizeLimit(limit)
	return s
}

// Unpaged drops the page window entirely, for small collections listed
// in full.
func (s *Spec) Unpaged() *Spec {
	s.unpaged = true
	return s
}

// Offset returns the first row index of the requested window.
func (s *Spec) Offset() int {
	return (s.page - 1) * s.limit
}

// Limit returns the normalized page size.
func (s *Spec) Limit() int {
	return s.limit
}

// where renders the predicate, appending bound values to args.
func (s *Spec) where(args []any) (string, []any) {
	var clauses []string
	for _, c := range s.conds {
		switch c.kind {
		case condEq:
			args = append(args, c.value)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", c.field, len(args)))
		case condMatch:
			args = append(args, "%"+c.value+"%")
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", c.field, len(args)))
		}
	}
	if s.searchTerm != "" {
		args = append(args, "%"+s.searchTerm+"%")
		n := len(args)
		parts := make([]string, len(s.searchFields))
		for i, f := range s.searchFields {
			parts[i] = fmt.Sprintf("%s ILIKE $%d", f, n)
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// SelectSQL renders the row query for the requested page window.
func (s *Spec) SelectSQL(columns string) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(columns)
	b.WriteString(" FROM ")
	b.WriteString(s.table)
	if s.join != "" {
		b.WriteString(" ")
		b.WriteString(s.join)
	}

	where, args := s.where(nil)
	b.WriteString(where)

	b.WriteString(" ORDER BY ")
	b.WriteString(s.orderBy)
	if s.orderDesc {
		b.WriteString(" DESC")
	}

	if !s.unpaged {
		args = append(args, s.limit)
		b.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
		args = append(args, s.Offset())
		b.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return b.String(), args
}

// CountSQL renders the count query over the same predicate, without the
// page window.
func (s *Spec) CountSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(s.table)
	if s.join != "" {
		b.WriteString(" ")
		b.WriteString(s.join)
	}

	where, args := s.where(nil)
	b.WriteString(where)

	return b.String(), args
}
