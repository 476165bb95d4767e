// Package builder provides a fluent API for assembling query configurations.
package builder

import (
	"github.com/satishbabariya/queryforge/query/sqlgen"
)

// Builder accumulates query parts and produces a sqlgen.QueryConfig.
// Methods return the receiver so calls chain.
type Builder struct {
	cfg sqlgen.QueryConfig
}

// New starts a builder for the given table(s). The row identity column
// defaults to "id".
func New(tables ...string) *Builder {
	return &Builder{cfg: sqlgen.QueryConfig{
		Table:   tables,
		IDField: "id",
	}}
}

// IDField overrides the row identity column used by count queries and the
// default ordering.
func (b *Builder) IDField(column string) *Builder {
	b.cfg.IDField = column
	return b
}

// Select adds a plain column under an output alias.
func (b *Builder) Select(alias, column string) *Builder {
	b.cfg.Fields = append(b.cfg.Fields, sqlgen.Col(alias, column))
	return b
}

// SelectRaw adds a raw SQL expression under an output alias. The expression
// is screened for dangerous patterns at compile time.
func (b *Builder) SelectRaw(alias, expr string) *Builder {
	b.cfg.Fields = append(b.cfg.Fields, sqlgen.RawExpr(alias, expr))
	return b
}

// SelectSubquery adds a correlated subquery under an output alias.
func (b *Builder) SelectSubquery(alias string, sub *Builder) *Builder {
	b.cfg.Fields = append(b.cfg.Fields, sqlgen.Subquery(alias, sub.Config()))
	return b
}

// Join adds a join of the given type.
func (b *Builder) Join(joinType, table, on string) *Builder {
	b.cfg.Joins = append(b.cfg.Joins, sqlgen.Join{Type: joinType, Table: table, On: on})
	return b
}

// InnerJoin adds an INNER JOIN.
func (b *Builder) InnerJoin(table, on string) *Builder {
	return b.Join(sqlgen.JoinInner, table, on)
}

// LeftJoin adds a LEFT JOIN.
func (b *Builder) LeftJoin(table, on string) *Builder {
	return b.Join(sqlgen.JoinLeft, table, on)
}

// RightJoin adds a RIGHT JOIN.
func (b *Builder) RightJoin(table, on string) *Builder {
	return b.Join(sqlgen.JoinRight, table, on)
}

// Where adds a raw condition fragment. Placeholders in the fragment bind to
// caller-supplied values at execution time.
func (b *Builder) Where(fragment string) *Builder {
	b.cfg.Where = append(b.cfg.Where, fragment)
	return b
}

// WhereIn adds a column IN (...) condition over the given values.
func (b *Builder) WhereIn(column string, values ...interface{}) *Builder {
	b.cfg.WhereIn = append(b.cfg.WhereIn, sqlgen.InClause{Column: column, Values: values})
	return b
}

// WhereNotIn adds a column NOT IN (...) condition over the given values.
func (b *Builder) WhereNotIn(column string, values ...interface{}) *Builder {
	b.cfg.WhereNotIn = append(b.cfg.WhereNotIn, sqlgen.InClause{Column: column, Values: values})
	return b
}

// GroupBy adds grouping columns.
func (b *Builder) GroupBy(columns ...string) *Builder {
	b.cfg.GroupBy = append(b.cfg.GroupBy, columns...)
	return b
}

// Having adds a post-aggregation condition. It only takes effect when the
// query also groups.
func (b *Builder) Having(fragment string) *Builder {
	b.cfg.Having = append(b.cfg.Having, fragment)
	return b
}

// OrderBy adds an ordering entry, optionally carrying an inline direction
// ("name DESC").
func (b *Builder) OrderBy(entries ...string) *Builder {
	b.cfg.OrderBy = append(b.cfg.OrderBy, entries...)
	return b
}

// OrderByColumn adds a structured ordering entry.
func (b *Builder) OrderByColumn(column, direction string) *Builder {
	b.cfg.OrderColumns = append(b.cfg.OrderColumns, sqlgen.OrderColumn{Column: column, Direction: direction})
	return b
}

// OrderDirection sets a shared direction applied to every ordering entry,
// superseding inline directions.
func (b *Builder) OrderDirection(direction string) *Builder {
	b.cfg.OrderDirection = direction
	return b
}

// Limit caps the number of returned rows.
func (b *Builder) Limit(n int) *Builder {
	b.cfg.Limit = &n
	return b
}

// Offset skips the first n rows.
func (b *Builder) Offset(n int) *Builder {
	b.cfg.Offset = &n
	return b
}

// Distinct enables duplicate elimination; count queries switch to
// COUNT(DISTINCT ...).
func (b *Builder) Distinct() *Builder {
	b.cfg.Distinct = true
	return b
}

// Union appends another query combined with UNION.
func (b *Builder) Union(other *Builder) *Builder {
	b.cfg.Union = append(b.cfg.Union, other.Config())
	return b
}

// Config returns the accumulated configuration.
func (b *Builder) Config() *sqlgen.QueryConfig {
	return &b.cfg
}

// Build compiles the accumulated configuration in the given mode.
func (b *Builder) Build(mode sqlgen.Mode) (*sqlgen.Query, error) {
	return sqlgen.Compile(b.Config(), mode)
}
