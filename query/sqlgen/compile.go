package sqlgen

import (
	"fmt"
	"strings"
)

// Compile turns a QueryConfig into SQL text plus the compiler-generated bind
// values, in the mode's clause order:
//
//	SELECT [DISTINCT] <fields-or-count> FROM <tables> [joins] [WHERE ...]
//	[GROUP BY ...] [HAVING ...] [ORDER BY ...] [LIMIT ...] [OFFSET ...]
//	[UNION ...]
//
// Compilation is a single top-to-bottom pass. Any validation failure aborts
// the whole call with no partial SQL. Identical input always yields identical
// SQL and identical Args ordering.
func Compile(cfg *QueryConfig, mode Mode) (*Query, error) {
	if cfg == nil {
		return nil, fmt.Errorf("query config is nil")
	}
	if len(cfg.Table) == 0 {
		return nil, fmt.Errorf("query config has no table")
	}
	if cfg.IDField == "" {
		return nil, fmt.Errorf("query config has no idField")
	}

	var (
		parts []string
		args  []interface{}
	)

	selectClause, selectArgs, err := compileSelect(cfg, mode)
	if err != nil {
		return nil, err
	}
	parts = append(parts, selectClause)
	args = append(args, selectArgs...)

	tables := make([]string, len(cfg.Table))
	for i, t := range cfg.Table {
		tables[i] = quoteExpr(t)
	}
	parts = append(parts, "FROM "+strings.Join(tables, ", "))

	joinClause, err := compileJoins(cfg.Joins)
	if err != nil {
		return nil, err
	}
	if joinClause != "" {
		parts = append(parts, joinClause)
	}

	whereClause, whereArgs, err := compileWhere(cfg)
	if err != nil {
		return nil, err
	}
	if whereClause != "" {
		parts = append(parts, whereClause)
		args = append(args, whereArgs...)
	}

	if len(cfg.GroupBy) > 0 {
		groups := make([]string, len(cfg.GroupBy))
		for i, g := range cfg.GroupBy {
			groups[i] = quoteExpr(Resolve(cfg, g))
		}
		parts = append(parts, "GROUP BY "+strings.Join(groups, ", "))

		havingClause, err := compileHaving(cfg.Having)
		if err != nil {
			return nil, err
		}
		if havingClause != "" {
			parts = append(parts, havingClause)
		}
	}

	if mode == ModeRows {
		parts = append(parts, compileOrderBy(cfg))
	}

	switch mode {
	case ModeCount:
		parts = append(parts, "LIMIT 1")
	case ModeRows:
		if cfg.Limit != nil {
			parts = append(parts, fmt.Sprintf("LIMIT %d", sanitizeBound(*cfg.Limit)))
		}
		if cfg.Offset != nil {
			parts = append(parts, fmt.Sprintf("OFFSET %d", sanitizeBound(*cfg.Offset)))
		}
	}

	sql := strings.Join(parts, " ")

	// Unions only make sense against the row shape; the count variant counts
	// the parent query alone.
	if mode == ModeRows {
		for _, u := range cfg.Union {
			uq, err := Compile(u, ModeRows)
			if err != nil {
				return nil, err
			}
			sql += " UNION " + uq.SQL
			args = append(args, uq.Args...)
		}
	}

	return &Query{SQL: sql, Args: args}, nil
}

// compileSelect emits the SELECT clause for the requested mode. In row mode,
// subquery fields contribute their own generated bind values; those come
// first in Args because they appear first in the SQL text.
func compileSelect(cfg *QueryConfig, mode Mode) (string, []interface{}, error) {
	if mode == ModeCount {
		target := quoteExpr(cfg.IDField)
		if cfg.Distinct {
			target = "DISTINCT " + target
		}
		return fmt.Sprintf("SELECT COUNT(%s) AS `count`", target), nil, nil
	}

	sel := "SELECT "
	if cfg.Distinct {
		sel = "SELECT DISTINCT "
	}
	if len(cfg.Fields) == 0 {
		return sel + "*", nil, nil
	}

	var (
		cols []string
		args []interface{}
	)
	for _, f := range cfg.Fields {
		switch {
		case f.Sub != nil:
			sub, err := Compile(f.Sub, ModeRows)
			if err != nil {
				return "", nil, err
			}
			cols = append(cols, fmt.Sprintf("(%s) AS %s", sub.SQL, QuoteIdentifier(f.Alias)))
			args = append(args, sub.Args...)
		case f.Raw != "":
			if err := CheckFragment(ClauseRawField, f.Raw); err != nil {
				return "", nil, err
			}
			cols = append(cols, fmt.Sprintf("%s AS %s", f.Raw, QuoteIdentifier(f.Alias)))
		case isExpression(f.Column):
			// Already-composed expression, e.g. COUNT(x). Emitted verbatim;
			// composing safe expressions is the caller's responsibility.
			cols = append(cols, fmt.Sprintf("%s AS %s", f.Column, QuoteIdentifier(f.Alias)))
		default:
			cols = append(cols, fmt.Sprintf("%s AS %s", QuoteIdentifier(f.Column), QuoteIdentifier(f.Alias)))
		}
	}
	return sel + strings.Join(cols, ", "), args, nil
}

func compileJoins(joins []Join) (string, error) {
	if len(joins) == 0 {
		return "", nil
	}
	var parts []string
	for _, j := range joins {
		if err := CheckFragment(ClauseJoinOn, j.On); err != nil {
			return "", err
		}
		jt := strings.ToUpper(strings.TrimSpace(j.Type))
		switch jt {
		case JoinInner, JoinLeft, JoinRight, JoinFull:
		case "":
			jt = JoinInner
		default:
			return "", fmt.Errorf("unsupported join type: %s", j.Type)
		}
		parts = append(parts, fmt.Sprintf("%s JOIN %s ON %s", jt, quoteExpr(j.Table), j.On))
	}
	return strings.Join(parts, " "), nil
}

// compileWhere merges the three filter sources into one AND-joined clause in
// fixed order: raw fragments, then IN clauses, then NOT IN clauses. IN-list
// values are appended to the returned args in the same order.
func compileWhere(cfg *QueryConfig) (string, []interface{}, error) {
	var (
		conds []string
		args  []interface{}
	)

	for _, frag := range cfg.Where {
		resolved := resolveWhereFragment(cfg, frag)
		if err := CheckFragment(ClauseWhere, resolved); err != nil {
			return "", nil, err
		}
		conds = append(conds, resolved)
	}

	in, inArgs, err := compileInClauses(cfg, cfg.WhereIn, "IN")
	if err != nil {
		return "", nil, err
	}
	conds = append(conds, in...)
	args = append(args, inArgs...)

	notIn, notInArgs, err := compileInClauses(cfg, cfg.WhereNotIn, "NOT IN")
	if err != nil {
		return "", nil, err
	}
	conds = append(conds, notIn...)
	args = append(args, notInArgs...)

	if len(conds) == 0 {
		return "", nil, nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args, nil
}

func compileInClauses(cfg *QueryConfig, clauses []InClause, op string) ([]string, []interface{}, error) {
	var (
		conds []string
		args  []interface{}
	)
	for _, c := range clauses {
		if len(c.Values) == 0 {
			continue
		}
		col := Resolve(cfg, c.Column)
		if err := CheckFragment(ClauseWhere, col); err != nil {
			return nil, nil, err
		}
		placeholders := make([]string, len(c.Values))
		for i := range c.Values {
			placeholders[i] = "?"
		}
		conds = append(conds, fmt.Sprintf("%s %s (%s)", col, op, strings.Join(placeholders, ", ")))
		args = append(args, c.Values...)
	}
	return conds, args, nil
}

func compileHaving(having []string) (string, error) {
	if len(having) == 0 {
		return "", nil
	}
	for _, frag := range having {
		if err := CheckFragment(ClauseHaving, frag); err != nil {
			return "", err
		}
	}
	return "HAVING " + strings.Join(having, " AND "), nil
}

// compileOrderBy assembles the ORDER BY clause from whichever form the config
// carries. Struct-shaped entries keep their own direction (default ASC);
// string-shaped entries have inline suffixes stripped, the column resolved and
// escaped, and the direction reattached. A shared OrderDirection supersedes
// the reattached inline directions.
func compileOrderBy(cfg *QueryConfig) string {
	if len(cfg.OrderColumns) > 0 {
		entries := make([]string, len(cfg.OrderColumns))
		for i, oc := range cfg.OrderColumns {
			dir := strings.ToUpper(oc.Direction)
			if dir != "DESC" {
				dir = "ASC"
			}
			entries[i] = quoteExpr(Resolve(cfg, oc.Column)) + " " + dir
		}
		return "ORDER BY " + strings.Join(entries, ", ")
	}

	if len(cfg.OrderBy) > 0 {
		// Coerce the shared direction the same way the struct form coerces
		// per-entry directions: anything that is not DESC becomes ASC. The
		// field is interpolated, so it never carries free text into the SQL.
		shared := strings.ToUpper(strings.TrimSpace(cfg.OrderDirection))
		if shared != "" && shared != "DESC" {
			shared = "ASC"
		}
		entries := make([]string, len(cfg.OrderBy))
		for i, entry := range cfg.OrderBy {
			column, dir := splitOrderEntry(entry)
			if shared != "" {
				dir = shared
			}
			resolved := quoteExpr(Resolve(cfg, strings.TrimSpace(column)))
			if dir != "" {
				resolved += " " + dir
			}
			entries[i] = resolved
		}
		return "ORDER BY " + strings.Join(entries, ", ")
	}

	return "ORDER BY " + quoteExpr(cfg.IDField) + " ASC"
}

// sanitizeBound coerces LIMIT/OFFSET values to non-negative integers. They
// are interpolated as literals, never bound, so negative input is flipped
// rather than rejected.
func sanitizeBound(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
