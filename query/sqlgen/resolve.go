package sqlgen

import (
	"regexp"
	"strings"
)

// leadingFieldRe matches the leading "<field> <operator>" prefix of a WHERE
// fragment. Symbolic operators are ordered longest-first so that "<=>" is not
// consumed as "<=". Only the field token is substituted during alias
// resolution; the remainder of the fragment, including any `?` placeholders,
// is left untouched.
var leadingFieldRe = regexp.MustCompile(
	`(?i)^\s*([A-Za-z_][A-Za-z0-9_.]*)\s*(<=>|<>|!=|>=|<=|=|<|>|NOT\s+LIKE\b|LIKE\b|NOT\s+IN\b|IN\b|IS\s+NOT\s+NULL\b|IS\s+NULL\b|BETWEEN\b)`)

// trailingDirectionRe matches an inline ASC/DESC suffix on an ORDER BY entry.
var trailingDirectionRe = regexp.MustCompile(`(?i)\s+(ASC|DESC)\s*$`)

// Resolve maps a query-facing alias back to its underlying column. Only
// aliases bound to a plain column string resolve; raw expressions and
// subqueries keep their alias out of filter clauses. Anything that is not a
// known alias is returned unchanged on the assumption that it is already a
// column or qualified reference.
func Resolve(cfg *QueryConfig, nameOrAlias string) string {
	for _, f := range cfg.Fields {
		if f.Alias == nameOrAlias && f.Column != "" && f.Raw == "" && f.Sub == nil {
			return f.Column
		}
	}
	return nameOrAlias
}

// resolveWhereFragment substitutes the leading field token of a WHERE fragment
// with its resolved column. Fragments with no recognized operator pass through
// unresolved: they are assumed to already be fully qualified boolean
// expressions.
func resolveWhereFragment(cfg *QueryConfig, fragment string) string {
	m := leadingFieldRe.FindStringSubmatchIndex(fragment)
	if m == nil {
		return fragment
	}
	// m[2]:m[3] bounds the field token.
	return fragment[:m[2]] + Resolve(cfg, fragment[m[2]:m[3]]) + fragment[m[3]:]
}

// splitOrderEntry separates an ORDER BY entry from its optional inline
// direction suffix, returning the bare column/alias and the uppercased
// direction token ("" when absent).
func splitOrderEntry(entry string) (column, direction string) {
	m := trailingDirectionRe.FindStringSubmatchIndex(entry)
	if m == nil {
		return entry, ""
	}
	return entry[:m[0]], strings.ToUpper(entry[m[2]:m[3]])
}
