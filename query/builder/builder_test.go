package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/queryforge/query/sqlgen"
)

func TestBuilderChain(t *testing.T) {
	q, err := New("users").
		Select("id", "id").
		Select("name", "full_name").
		Where("status = ?").
		WhereIn("role", "admin", "staff").
		OrderBy("name").
		Limit(10).
		Build(sqlgen.ModeRows)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT `id` AS `id`, `full_name` AS `name` FROM `users` "+
			"WHERE status = ? AND role IN (?, ?) ORDER BY `full_name` LIMIT 10",
		q.SQL)
	assert.Equal(t, []interface{}{"admin", "staff"}, q.Args)
}

func TestBuilderMatchesHandWrittenConfig(t *testing.T) {
	built := New("users").
		IDField("user_id").
		Select("name", "full_name").
		LeftJoin("orders", "orders.user_id = users.user_id").
		Where("status = ?").
		GroupBy("role").
		Having("COUNT(user_id) > ?").
		Distinct().
		Offset(5).
		Config()

	manual := &sqlgen.QueryConfig{
		Table:    []string{"users"},
		IDField:  "user_id",
		Fields:   []sqlgen.Field{sqlgen.Col("name", "full_name")},
		Joins:    []sqlgen.Join{{Type: sqlgen.JoinLeft, Table: "orders", On: "orders.user_id = users.user_id"}},
		Where:    []string{"status = ?"},
		GroupBy:  []string{"role"},
		Having:   []string{"COUNT(user_id) > ?"},
		Distinct: true,
		Offset:   sqlgen.IntPtr(5),
	}

	got, err := sqlgen.Compile(built, sqlgen.ModeRows)
	require.NoError(t, err)
	want, err := sqlgen.Compile(manual, sqlgen.ModeRows)
	require.NoError(t, err)
	assert.Equal(t, want.SQL, got.SQL)
}

func TestBuilderUnionAndSubquery(t *testing.T) {
	sub := New("orders").
		Select("n", "COUNT(id)").
		Where("orders.user_id = users.id")

	q, err := New("users").
		SelectSubquery("order_count", sub).
		Union(New("archived_users")).
		Build(sqlgen.ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, ") AS `order_count`")
	assert.Contains(t, q.SQL, " UNION SELECT * FROM `archived_users`")
}

func TestBuilderCountMode(t *testing.T) {
	q, err := New("users").Where("status = ?").Build(sqlgen.ModeCount)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(`id`) AS `count` FROM `users` WHERE status = ? LIMIT 1", q.SQL)
}

func TestBuilderOrderDirection(t *testing.T) {
	q, err := New("users").
		OrderBy("name DESC", "created_at").
		OrderDirection("asc").
		Build(sqlgen.ModeRows)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "ORDER BY `name` ASC, `created_at` ASC")
}
