package sqlgen

import (
	"fmt"
	"strings"
	"time"
)

// QuoteIdentifier wraps a column or table name in backticks, quoting each
// dot-separated part and doubling any embedded backtick.
func QuoteIdentifier(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

// isExpression reports whether s is an already-composed SQL expression rather
// than a bare identifier. Composed expressions are emitted verbatim; quoting
// them would break function calls and quoted literals.
func isExpression(s string) bool {
	return strings.ContainsAny(s, "(`'\")")
}

// quoteExpr quotes s as an identifier unless it is already a composed
// expression.
func quoteExpr(s string) string {
	if isExpression(s) {
		return s
	}
	return QuoteIdentifier(s)
}

// QuoteLiteral renders a Go value as a SQL literal for contexts where binding
// is impossible (DDL defaults and table options). Strings get single quotes
// with embedded quotes and backslashes doubled.
func QuoteLiteral(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if t {
			return "1"
		}
		return "0"
	case string:
		r := strings.NewReplacer(`\`, `\\`, `'`, `''`)
		return "'" + r.Replace(t) + "'"
	case time.Time:
		return "'" + t.UTC().Format("2006-01-02 15:04:05") + "'"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	case float32, float64:
		return fmt.Sprintf("%v", t)
	default:
		r := strings.NewReplacer(`\`, `\\`, `'`, `''`)
		return "'" + r.Replace(fmt.Sprintf("%v", t)) + "'"
	}
}
