// Package query composes optional list filters into a single gorm query.
//
// Equality predicates and the free-text group are ANDed together; the
// columns inside the free-text group are ORed. An empty value never
// constrains the query.
package query

import (
	"strings"

	"gorm.io/gorm"
)

type equality struct {
	column string
	value  any
}

// List is a list query under construction
type List struct {
	equals  []equality
	search  string
	columns []string
	order   []string
}

// New starts a list query with the entity's canonical order, e.g.
// New("name ASC") or New("position ASC", "created_at DESC").
func New(order ...string) *List {
	return &List{order: order}
}

// Eq adds an exact-match predicate. Empty values are ignored.
func (l *List) Eq(column, value string) *List {
	if value == "" {
		return l
	}
	l.equals = append(l.equals, equality{column: column, value: value})
	return l
}

// Search matches rows where any of columns contains term, case-insensitively.
// An empty term is ignored.
func (l *List) Search(term string, columns ...string) *List {
	l.search = term
	l.columns = columns
	return l
}

// HasFilters reports whether any predicate will be applied
func (l *List) HasFilters() bool {
	return len(l.equals) > 0 || (l.search != "" && len(l.columns) > 0)
}

// Apply adds the predicates and ordering to db
func (l *List) Apply(db *gorm.DB) *gorm.DB {
	for _, eq := range l.equals {
		db = db.Where(eq.column+" = ?", eq.value)
	}

	if l.search != "" && len(l.columns) > 0 {
		// database.Open installs a Unicode lower(), matching strings.ToLower
		pattern := "%" + EscapeLike(strings.ToLower(l.search)) + "%"
		clauses := make([]string, 0, len(l.columns))
		args := make([]any, 0, len(l.columns))
		for _, col := range l.columns {
			clauses = append(clauses, "LOWER("+col+") LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	for _, o := range l.order {
		db = db.Order(o)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so term matches literally
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}
