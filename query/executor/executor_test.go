package executor_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/queryforge/logging"
	"github.com/satishbabariya/queryforge/query/executor"
	"github.com/satishbabariya/queryforge/query/plancache"
	"github.com/satishbabariya/queryforge/query/sqlgen"
	"github.com/satishbabariya/queryforge/runtime/client"
)

// newTestClient opens an in-memory SQLite database. SQLite accepts the
// engine's SQL shape (backtick identifiers, ? placeholders, LastInsertId),
// which makes it a convenient stand-in for MySQL in tests. The shared-cache
// DSN keeps the database alive across pooled connections.
func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	c, err := client.Open("sqlite", dsn, client.Options{
		MaxOpenConns: 2,
		MaxIdleConns: 2,
		Development:  true,
		Sink:         logging.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Disconnect() })

	require.NoError(t, c.Connect(context.Background()))
	_, err = c.DB().Exec(
		"CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, full_name TEXT, status TEXT)")
	require.NoError(t, err)
	return c
}

func seedUsers(t *testing.T, exec *executor.Executor) {
	t.Helper()
	ctx := context.Background()
	for _, u := range []map[string]interface{}{
		{"full_name": "ada", "status": "active"},
		{"full_name": "linus", "status": "inactive"},
		{"full_name": "grace", "status": "active"},
	} {
		_, err := exec.Insert(ctx, "users", u)
		require.NoError(t, err)
	}
}

func usersConfig() *sqlgen.QueryConfig {
	return &sqlgen.QueryConfig{
		Table:   []string{"users"},
		IDField: "id",
		Fields: []sqlgen.Field{
			sqlgen.Col("id", "id"),
			sqlgen.Col("name", "full_name"),
		},
	}
}

func TestExecutorInsertAndGetData(t *testing.T) {
	c := newTestClient(t)
	exec := c.Executor()
	ctx := context.Background()

	first, err := exec.Insert(ctx, "users", map[string]interface{}{
		"full_name": "ada", "status": "active",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.InsertID)
	assert.Equal(t, int64(1), first.AffectedRows)

	_, err = exec.Insert(ctx, "users", map[string]interface{}{
		"full_name": "linus", "status": "inactive",
	})
	require.NoError(t, err)

	cfg := usersConfig()
	cfg.Where = []string{"status = ?"}
	res, err := exec.GetData(ctx, cfg, []interface{}{"active"}, nil)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "ada", res.Rows[0]["name"])
	assert.Equal(t, int64(1), res.Count)
}

func TestExecutorGetDataSkipCount(t *testing.T) {
	c := newTestClient(t)
	exec := c.Executor()
	seedUsers(t, exec)

	res, err := exec.GetData(context.Background(), usersConfig(), nil,
		&executor.Options{SkipCount: true})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 3)
	assert.Equal(t, int64(-1), res.Count)
}

func TestExecutorGetDataWhereIn(t *testing.T) {
	c := newTestClient(t)
	exec := c.Executor()
	seedUsers(t, exec)

	cfg := usersConfig()
	cfg.WhereIn = []sqlgen.InClause{
		{Column: "name", Values: []interface{}{"ada", "grace"}},
	}
	res, err := exec.GetData(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, int64(2), res.Count)
}

func TestExecutorGetFirst(t *testing.T) {
	c := newTestClient(t)
	exec := c.Executor()
	seedUsers(t, exec)

	cfg := usersConfig()
	row, err := exec.GetFirst(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "ada", row["name"])
	// The caller's config must come back untouched.
	assert.Nil(t, cfg.Limit)

	cfg.Where = []string{"status = ?"}
	row, err = exec.GetFirst(context.Background(), cfg, []interface{}{"missing"})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestExecutorUpdateAndDelete(t *testing.T) {
	c := newTestClient(t)
	exec := c.Executor()
	seedUsers(t, exec)
	ctx := context.Background()

	affected, err := exec.Update(ctx, "users",
		map[string]interface{}{"status": "archived"},
		[]string{"full_name = ?"}, []interface{}{"ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = exec.Delete(ctx, "users",
		[]string{"status = ?"}, []interface{}{"archived"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	res, err := exec.GetData(ctx, usersConfig(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Count)
}

func TestExecutorBatchInsert(t *testing.T) {
	c := newTestClient(t)
	exec := c.Executor()
	ctx := context.Background()

	res, err := exec.BatchInsert(ctx, "users", []map[string]interface{}{
		{"full_name": "ada", "status": "active"},
		{"full_name": "linus", "status": "inactive"},
		{"full_name": "grace", "status": "active"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.AffectedRows)

	empty, err := exec.BatchInsert(ctx, "users", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.AffectedRows)
}

func TestExecutorRaw(t *testing.T) {
	c := newTestClient(t)
	exec := c.Executor()
	seedUsers(t, exec)

	rows, err := exec.Raw(context.Background(),
		"SELECT COUNT(*) AS total FROM users WHERE status = ?", []interface{}{"active"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0]["total"])
}

func TestExecutorErrorModes(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	missing := &sqlgen.QueryConfig{Table: []string{"missing"}, IDField: "id"}

	dev := executor.New(c.DB(), logging.Nop(), true)
	_, err := dev.GetData(ctx, missing, nil, &executor.Options{SkipCount: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to fetch data")
	assert.Contains(t, err.Error(), "no such table")

	prod := executor.New(c.DB(), logging.Nop(), false)
	_, err = prod.GetData(ctx, missing, nil, &executor.Options{SkipCount: true})
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch data: database error occurred", err.Error())
}

func TestExecutorPlanCache(t *testing.T) {
	c := newTestClient(t)
	exec := c.Executor()
	seedUsers(t, exec)

	plans := plancache.New(16, time.Minute)
	exec = exec.WithPlanCache(plans)

	ctx := context.Background()
	_, err := exec.GetData(ctx, usersConfig(), nil, nil)
	require.NoError(t, err)
	stats := plans.GetStats()
	assert.Equal(t, int64(2), stats.Misses)

	_, err = exec.GetData(ctx, usersConfig(), nil, nil)
	require.NoError(t, err)
	stats = plans.GetStats()
	assert.Equal(t, int64(2), stats.Hits)
}

func TestWithTransactionCommit(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	err := c.WithTransaction(ctx, func(ctx context.Context, tx *executor.Executor) error {
		_, err := tx.Insert(ctx, "users", map[string]interface{}{
			"full_name": "ada", "status": "active",
		})
		return err
	})
	require.NoError(t, err)

	res, err := c.Executor().GetData(ctx, usersConfig(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Count)
}

func TestWithTransactionRollback(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := c.WithTransaction(ctx, func(ctx context.Context, tx *executor.Executor) error {
		if _, err := tx.Insert(ctx, "users", map[string]interface{}{
			"full_name": "ada", "status": "active",
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	res, err := c.Executor().GetData(ctx, usersConfig(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Count)
	assert.Empty(t, res.Rows)
}
