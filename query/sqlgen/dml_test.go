package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInsert(t *testing.T) {
	q, err := BuildInsert("users", map[string]interface{}{
		"full_name": "ada",
		"age":       36,
	})
	require.NoError(t, err)
	// Columns are emitted in sorted order regardless of map iteration.
	assert.Equal(t, "INSERT INTO `users` (`age`, `full_name`) VALUES (?, ?)", q.SQL)
	assert.Equal(t, []interface{}{36, "ada"}, q.Args)
}

func TestBuildInsertEmptyRow(t *testing.T) {
	_, err := BuildInsert("users", nil)
	require.Error(t, err)
}

func TestBuildBatchInsert(t *testing.T) {
	q, err := BuildBatchInsert("logs", []map[string]interface{}{
		{"id": 1, "msg": "x"},
		{"id": 2, "msg": "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `logs` (`id`, `msg`) VALUES (?, ?), (?, ?)", q.SQL)
	assert.Equal(t, []interface{}{1, "x", 2, "y"}, q.Args)
}

func TestBuildBatchInsertEmptyIsNoOp(t *testing.T) {
	q, err := BuildBatchInsert("logs", nil)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestBuildBatchInsertColumnsFromFirstRow(t *testing.T) {
	q, err := BuildBatchInsert("logs", []map[string]interface{}{
		{"id": 1, "msg": "x"},
		{"id": 2}, // missing msg binds nil
	})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, "x", 2, nil}, q.Args)
}

func TestBuildUpdate(t *testing.T) {
	q, err := BuildUpdate("users",
		map[string]interface{}{"full_name": "ada", "age": 37},
		[]string{"id = ?"})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `users` SET `age` = ?, `full_name` = ? WHERE id = ?", q.SQL)
	// Args carries only the SET values; the caller's id value follows them.
	assert.Equal(t, []interface{}{37, "ada"}, q.Args)
}

func TestBuildUpdateValidatesWhere(t *testing.T) {
	_, err := BuildUpdate("users",
		map[string]interface{}{"status": "x"},
		[]string{"id = 1; DROP TABLE users"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid WHERE clause")
}

func TestBuildDelete(t *testing.T) {
	q, err := BuildDelete("users", []string{"id = ?", "status = ?"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `users` WHERE id = ? AND status = ?", q.SQL)
	assert.Empty(t, q.Args)
}

func TestBuildDeleteRequiresWhere(t *testing.T) {
	_, err := BuildDelete("users", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a WHERE clause")
}
