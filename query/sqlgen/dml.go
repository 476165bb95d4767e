package sqlgen

import (
	"fmt"
	"sort"
	"strings"
)

// insertColumns returns a row's column names in a fixed order so that
// generated SQL is deterministic regardless of map iteration order.
func insertColumns(row map[string]interface{}) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// BuildInsert compiles a single-row INSERT. Column names are identifier-
// escaped; values are always bound.
func BuildInsert(table string, row map[string]interface{}) (*Query, error) {
	if len(row) == 0 {
		return nil, fmt.Errorf("insert row has no columns")
	}
	cols := insertColumns(row)

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		quoted[i] = QuoteIdentifier(c)
		placeholders[i] = "?"
		args[i] = row[c]
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	return &Query{SQL: sql, Args: args}, nil
}

// BuildBatchInsert compiles one multi-row INSERT for rows sharing the key set
// of the first row, with bind values flattened in row-major order. Empty
// input compiles to nil: no statement should be issued.
func BuildBatchInsert(table string, rows []map[string]interface{}) (*Query, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := insertColumns(rows[0])
	if len(cols) == 0 {
		return nil, fmt.Errorf("batch insert rows have no columns")
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = QuoteIdentifier(c)
	}

	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	tuples := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*len(cols))
	for i, row := range rows {
		tuples[i] = tuple
		for _, c := range cols {
			args = append(args, row[c])
		}
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(tuples, ", "))
	return &Query{SQL: sql, Args: args}, nil
}

// BuildUpdate compiles an UPDATE with bound SET values and raw WHERE
// fragments. The fragments are validated; their `?` placeholders are the
// caller's, so caller values must follow the returned Args at execution time.
func BuildUpdate(table string, set map[string]interface{}, where []string) (*Query, error) {
	if len(set) == 0 {
		return nil, fmt.Errorf("update has no SET columns")
	}
	cols := insertColumns(set)

	assignments := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		assignments[i] = QuoteIdentifier(c) + " = ?"
		args[i] = set[c]
	}

	sql := fmt.Sprintf("UPDATE %s SET %s", QuoteIdentifier(table), strings.Join(assignments, ", "))
	whereClause, err := rawWhere(where)
	if err != nil {
		return nil, err
	}
	return &Query{SQL: sql + whereClause, Args: args}, nil
}

// BuildDelete compiles a DELETE with raw WHERE fragments. A DELETE without a
// WHERE clause is refused; an unconditional delete must be written as an
// explicit raw statement.
func BuildDelete(table string, where []string) (*Query, error) {
	if len(where) == 0 {
		return nil, fmt.Errorf("delete requires a WHERE clause")
	}
	whereClause, err := rawWhere(where)
	if err != nil {
		return nil, err
	}
	return &Query{SQL: "DELETE FROM " + QuoteIdentifier(table) + whereClause}, nil
}

func rawWhere(where []string) (string, error) {
	if len(where) == 0 {
		return "", nil
	}
	for _, frag := range where {
		if err := CheckFragment(ClauseWhere, frag); err != nil {
			return "", err
		}
	}
	return " WHERE " + strings.Join(where, " AND "), nil
}
