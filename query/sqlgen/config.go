// Package sqlgen compiles declarative query descriptions into parameterized
// MySQL-dialect SQL. The compiler is a pure function of its input: it performs
// no I/O, holds no state between calls, and never mutates the configuration
// it is given.
package sqlgen

// Query represents a compiled SQL statement with its bind arguments.
//
// Args holds only the values the compiler generated itself (from IN-lists and
// embedded subqueries). Placeholders the caller wrote into raw fragments are
// the caller's responsibility: caller-supplied values are always passed to the
// execution layer first, followed by Args. For filter-generated values that
// caller-first order is also textual order. It is not when a subquery field
// carries generated values: those placeholders sit in the SELECT list, ahead
// of any caller placeholders in WHERE, so such a config must not combine
// subquery-generated values with caller placeholders.
type Query struct {
	SQL  string
	Args []interface{}
}

// Mode selects which of the two SQL shapes Compile produces.
type Mode int

const (
	// ModeRows produces the full SELECT with field list, ordering and paging.
	ModeRows Mode = iota
	// ModeCount produces SELECT COUNT(idField) AS count with the same filters,
	// no ORDER BY, no OFFSET, and a forced LIMIT 1.
	ModeCount
)

// Field is one entry of a SELECT list. Exactly one of Column, Raw or Sub is
// set; the zero variant tag is a plain column. Raw expressions pass through
// the injection validator before emission, subqueries are compiled recursively
// as parenthesized correlated scalar subqueries.
type Field struct {
	Alias  string
	Column string
	Raw    string
	Sub    *QueryConfig
}

// Col declares a plain column field. Column may be a bare name, a qualified
// name like "t.col", or an already-composed expression such as "COUNT(x)";
// composed expressions are emitted verbatim.
func Col(alias, column string) Field {
	return Field{Alias: alias, Column: column}
}

// RawExpr declares a raw SQL expression field. The expression is validated
// against the dangerous-pattern denylist at compile time.
func RawExpr(alias, expr string) Field {
	return Field{Alias: alias, Raw: expr}
}

// Subquery declares a correlated scalar subquery field. The nested config is
// compiled independently; its WHERE fragments may reference the outer query's
// tables by raw text.
func Subquery(alias string, cfg *QueryConfig) Field {
	return Field{Alias: alias, Sub: cfg}
}

// Join types accepted by Compile.
const (
	JoinInner = "INNER"
	JoinLeft  = "LEFT"
	JoinRight = "RIGHT"
	JoinFull  = "FULL"
)

// Join describes one JOIN clause. On is a raw boolean expression; it is
// validated against the denylist but otherwise trusted.
type Join struct {
	Type  string
	Table string
	On    string
}

// InClause is one entry of WhereIn or WhereNotIn. A slice (not a map) so that
// clause order, and therefore the generated SQL and bind order, is
// deterministic. An entry with no values contributes nothing.
type InClause struct {
	Column string
	Values []interface{}
}

// OrderColumn is the struct-shaped ORDER BY form: per-entry direction,
// defaulting to ASC when Direction is empty. The shared OrderDirection of the
// config does not apply to this form.
type OrderColumn struct {
	Column    string
	Direction string
}

// QueryConfig describes one SELECT (or its COUNT variant).
//
// Field order is significant everywhere: Fields determines the SELECT list
// order, Where/WhereIn/WhereNotIn determine WHERE clause order and the order
// of generated bind values, Union entries are appended in order.
type QueryConfig struct {
	// Table is one or more FROM tables, comma-joined in order.
	Table []string

	// IDField is the column used for default ordering and as the COUNT
	// target. It must reference a real column.
	IDField string

	// Fields is the ordered SELECT list. Empty means SELECT *.
	Fields []Field

	Joins []Join

	// Where holds raw boolean fragments of the form "<field> <op> ...".
	// The leading field token is alias-resolved; fragments are ANDed.
	Where []string

	// WhereIn and WhereNotIn each become one "col IN/NOT IN (?,...)" clause
	// per non-empty entry, with the values appended to the compiled Args.
	WhereIn    []InClause
	WhereNotIn []InClause

	// Having fragments are ANDed and emitted only when GroupBy is non-empty.
	Having []string

	GroupBy []string

	// OrderBy is the string-shaped ordering form: each entry is a column or
	// alias, optionally carrying an inline "ASC"/"DESC" suffix. When
	// OrderColumns is set it takes precedence and OrderBy is ignored.
	OrderBy []string

	// OrderColumns is the struct-shaped ordering form with per-entry
	// directions.
	OrderColumns []OrderColumn

	// OrderDirection, when set, is applied to every OrderBy entry and
	// supersedes inline per-entry suffixes. Deliberately so: this mirrors
	// long-standing behavior and is pinned by a regression test. It never
	// applies to OrderColumns. Values other than ASC/DESC are coerced to ASC.
	OrderDirection string

	// Limit and Offset are interpolated as sanitized integer literals, not
	// bound, because placeholder binding for LIMIT/OFFSET is not uniformly
	// supported. Negative values are coerced to their absolute value.
	Limit  *int
	Offset *int

	// Distinct applies to the row-mode field list and to the count-mode
	// aggregate target.
	Distinct bool

	// Union entries are compiled in row mode and appended in order; their
	// generated bind values follow the parent's.
	Union []*QueryConfig
}

// Limit and Offset pointer helper.
func IntPtr(n int) *int { return &n }
