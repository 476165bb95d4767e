package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *QueryConfig {
	return &QueryConfig{
		Table:   []string{"users"},
		IDField: "id",
		Fields: []Field{
			Col("id", "id"),
			Col("name", "full_name"),
		},
	}
}

func TestCompileBasic(t *testing.T) {
	cfg := baseConfig()
	cfg.Where = []string{"status = ?"}
	cfg.Limit = IntPtr(25)

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT `id` AS `id`, `full_name` AS `name` FROM `users` WHERE status = ? ORDER BY `id` ASC LIMIT 25",
		q.SQL)
	assert.Empty(t, q.Args)
}

func TestCompileDeterministic(t *testing.T) {
	cfg := baseConfig()
	cfg.Where = []string{"status = ?"}
	cfg.WhereIn = []InClause{{Column: "role", Values: []interface{}{"admin", "staff"}}}
	cfg.OrderBy = []string{"name"}

	first, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	second, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, first.Args, second.Args)
}

func TestCompileAliasResolvedInWhere(t *testing.T) {
	cfg := baseConfig()
	cfg.Where = []string{"name = ?"}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "WHERE full_name = ?")
	assert.NotContains(t, q.SQL, "WHERE name = ?")
}

func TestCompileAliasOfRawFieldNotResolved(t *testing.T) {
	cfg := baseConfig()
	cfg.Fields = append(cfg.Fields, RawExpr("total", "price * quantity"))
	cfg.Where = []string{"total > ?"}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "WHERE total > ?")
}

func TestCompileCountMode(t *testing.T) {
	cfg := baseConfig()
	cfg.Where = []string{"status = ?"}
	cfg.OrderBy = []string{"name DESC"}
	cfg.Limit = IntPtr(25)
	cfg.Offset = IntPtr(50)

	q, err := Compile(cfg, ModeCount)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT COUNT(`id`) AS `count` FROM `users` WHERE status = ? LIMIT 1",
		q.SQL)
	assert.NotContains(t, q.SQL, "ORDER BY")
	assert.NotContains(t, q.SQL, "OFFSET")
}

func TestCompileCountDistinct(t *testing.T) {
	cfg := baseConfig()
	cfg.Distinct = true

	q, err := Compile(cfg, ModeCount)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "SELECT COUNT(DISTINCT `id`) AS `count`")
}

func TestCompileDistinctRows(t *testing.T) {
	cfg := baseConfig()
	cfg.Distinct = true

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "SELECT DISTINCT `id` AS `id`")
}

func TestCompileNoFieldsSelectsStar(t *testing.T) {
	cfg := &QueryConfig{Table: []string{"users"}, IDField: "id"}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` ORDER BY `id` ASC", q.SQL)
}

func TestCompileWhereInOrdering(t *testing.T) {
	cfg := baseConfig()
	cfg.Where = []string{"created_at > ?"}
	cfg.WhereIn = []InClause{{Column: "status", Values: []interface{}{"a", "b", "x"}}}
	cfg.WhereNotIn = []InClause{{Column: "role", Values: []interface{}{"bot"}}}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL,
		"WHERE created_at > ? AND status IN (?, ?, ?) AND role NOT IN (?)")
	assert.Equal(t, []interface{}{"a", "b", "x", "bot"}, q.Args)
}

func TestCompileEmptyInClauseIsNoOp(t *testing.T) {
	cfg := baseConfig()
	cfg.WhereIn = []InClause{{Column: "status", Values: nil}}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.NotContains(t, q.SQL, "WHERE")
	assert.Empty(t, q.Args)
}

func TestCompileWhereInResolvesAlias(t *testing.T) {
	cfg := baseConfig()
	cfg.WhereIn = []InClause{{Column: "name", Values: []interface{}{"ada", "linus"}}}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "full_name IN (?, ?)")
}

func TestCompileDefaultOrderBy(t *testing.T) {
	cfg := baseConfig()

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "ORDER BY `id` ASC")
}

func TestCompileOrderByInlineDirections(t *testing.T) {
	cfg := baseConfig()
	cfg.OrderBy = []string{"name DESC", "created_at"}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "ORDER BY `full_name` DESC, `created_at`")
}

// A shared direction supersedes inline per-entry suffixes. Long-standing
// behavior; changing it would silently reorder existing result sets.
func TestCompileSharedOrderDirectionWins(t *testing.T) {
	cfg := baseConfig()
	cfg.OrderBy = []string{"name DESC", "created_at ASC"}
	cfg.OrderDirection = "asc"

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "ORDER BY `full_name` ASC, `created_at` ASC")
}

// The shared direction is interpolated, so it must never carry anything but
// ASC or DESC into the SQL text.
func TestCompileSharedOrderDirectionCoerced(t *testing.T) {
	cfg := baseConfig()
	cfg.OrderBy = []string{"name"}
	cfg.OrderDirection = "ASC; DROP TABLE users"

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "ORDER BY `full_name` ASC")
	assert.NotContains(t, q.SQL, ";")
	assert.NotContains(t, q.SQL, "DROP")

	cfg.OrderDirection = "descending"
	q, err = Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "ORDER BY `full_name` ASC")

	cfg.OrderDirection = "desc"
	q, err = Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "ORDER BY `full_name` DESC")
}

func TestCompileOrderColumns(t *testing.T) {
	cfg := baseConfig()
	cfg.OrderColumns = []OrderColumn{
		{Column: "created_at", Direction: "desc"},
		{Column: "id"},
	}
	// OrderColumns takes precedence and ignores the shared direction.
	cfg.OrderBy = []string{"name"}
	cfg.OrderDirection = "desc"

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "ORDER BY `created_at` DESC, `id` ASC")
}

func TestCompileJoins(t *testing.T) {
	cfg := baseConfig()
	cfg.Joins = []Join{
		{Type: "left", Table: "orders", On: "orders.user_id = users.id"},
		{Table: "teams", On: "teams.id = users.team_id"},
	}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "LEFT JOIN `orders` ON orders.user_id = users.id")
	assert.Contains(t, q.SQL, "INNER JOIN `teams` ON teams.id = users.team_id")
}

func TestCompileUnsupportedJoinType(t *testing.T) {
	cfg := baseConfig()
	cfg.Joins = []Join{{Type: "CROSS", Table: "orders", On: "1 = 1"}}

	_, err := Compile(cfg, ModeRows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported join type")
}

func TestCompileGroupByHaving(t *testing.T) {
	cfg := baseConfig()
	cfg.GroupBy = []string{"role"}
	cfg.Having = []string{"COUNT(id) > ?"}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "GROUP BY `role` HAVING COUNT(id) > ?")
}

func TestCompileHavingWithoutGroupByIgnored(t *testing.T) {
	cfg := baseConfig()
	cfg.Having = []string{"COUNT(id) > ?"}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.NotContains(t, q.SQL, "HAVING")
}

func TestCompileNegativeBoundsSanitized(t *testing.T) {
	cfg := baseConfig()
	cfg.Limit = IntPtr(-10)
	cfg.Offset = IntPtr(-5)

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "LIMIT 10 OFFSET 5")
}

func TestCompileUnion(t *testing.T) {
	archived := &QueryConfig{
		Table:   []string{"archived_users"},
		IDField: "id",
		WhereIn: []InClause{{Column: "status", Values: []interface{}{"active"}}},
	}
	cfg := baseConfig()
	cfg.WhereIn = []InClause{{Column: "status", Values: []interface{}{"pending"}}}
	cfg.Union = []*QueryConfig{archived}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, " UNION SELECT * FROM `archived_users`")
	// Parent-generated values precede union-generated ones.
	assert.Equal(t, []interface{}{"pending", "active"}, q.Args)

	count, err := Compile(cfg, ModeCount)
	require.NoError(t, err)
	assert.NotContains(t, count.SQL, "UNION SELECT")
}

func TestCompileSubqueryField(t *testing.T) {
	sub := &QueryConfig{
		Table:   []string{"orders"},
		IDField: "id",
		Fields:  []Field{Col("n", "COUNT(id)")},
		Where:   []string{"orders.user_id = users.id"},
		WhereIn: []InClause{{Column: "state", Values: []interface{}{"paid"}}},
	}
	cfg := baseConfig()
	cfg.Fields = append(cfg.Fields, Subquery("order_count", sub))

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "(SELECT COUNT(id) AS `n` FROM `orders`")
	assert.Contains(t, q.SQL, ") AS `order_count`")
	assert.Equal(t, []interface{}{"paid"}, q.Args)
}

func TestCompileRawFieldValidated(t *testing.T) {
	cfg := baseConfig()
	cfg.Fields = append(cfg.Fields, RawExpr("nap", "SLEEP(1)"))

	_, err := Compile(cfg, ModeRows)
	require.Error(t, err)
	assert.Equal(t, "Invalid raw field clause: potentially dangerous pattern detected", err.Error())
}

func TestCompileConfigValidation(t *testing.T) {
	_, err := Compile(nil, ModeRows)
	require.Error(t, err)

	_, err = Compile(&QueryConfig{IDField: "id"}, ModeRows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no table")

	_, err = Compile(&QueryConfig{Table: []string{"users"}}, ModeRows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no idField")
}

func TestCompileDoesNotMutateConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.Where = []string{"name = ?"}

	_, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Equal(t, []string{"name = ?"}, cfg.Where)
}

func TestCompileMultipleTables(t *testing.T) {
	cfg := &QueryConfig{Table: []string{"users", "profiles"}, IDField: "users.id"}

	q, err := Compile(cfg, ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "FROM `users`, `profiles`")
	assert.Contains(t, q.SQL, "ORDER BY `users`.`id` ASC")
}
