// Package executor orchestrates compiled queries against database/sql: it
// merges caller values with compiler-generated ones, issues statements,
// forwards every outcome to the logging sink, and wraps execution failures
// with stable, phase-identifying prefixes.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/satishbabariya/queryforge/logging"
	"github.com/satishbabariya/queryforge/query/plancache"
	"github.com/satishbabariya/queryforge/query/sqlgen"
)

// Querier is the slice of database/sql that the executor needs. Both *sql.DB
// and *sql.Tx satisfy it; transaction-scoped executors simply hold the *sql.Tx
// so that every statement routes through the transaction's connection.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Stable error prefixes, one per operation, so callers can tell the failure
// phase apart without parsing driver messages.
const (
	prefixFetch       = "Failed to fetch data"
	prefixInsert      = "Failed to insert data"
	prefixUpdate      = "Failed to update data"
	prefixDelete      = "Failed to delete data"
	prefixBatchInsert = "Failed to batch insert data"
	prefixCreateTable = "Failed to create table"
	prefixRaw         = "Failed to execute raw query"
)

// Executor issues compiled statements. It is stateless apart from its
// injected collaborators and safe for concurrent use.
type Executor struct {
	db          Querier
	sink        logging.Sink
	development bool
	plans       *plancache.Cache
}

// New creates an Executor. A nil sink falls back to the process-wide default.
// In development mode execution errors keep the driver message; otherwise it
// is suppressed so schema details do not leak through surfaced errors.
func New(db Querier, sink logging.Sink, development bool) *Executor {
	if sink == nil {
		sink = logging.Default()
	}
	return &Executor{db: db, sink: sink, development: development}
}

// WithPlanCache enables statement caching: compilations for configurations the
// executor has already seen are served from the cache. Compilation is pure, so
// cached plans are always equivalent to a fresh compile.
func (e *Executor) WithPlanCache(c *plancache.Cache) *Executor {
	e.plans = c
	return e
}

// compile consults the plan cache before falling back to sqlgen.Compile.
func (e *Executor) compile(cfg *sqlgen.QueryConfig, mode sqlgen.Mode) (*sqlgen.Query, error) {
	if e.plans == nil {
		return sqlgen.Compile(cfg, mode)
	}
	key := plancache.Key(cfg, mode)
	if plan, ok := e.plans.Get(key); ok {
		return &plan, nil
	}
	q, err := sqlgen.Compile(cfg, mode)
	if err != nil {
		return nil, err
	}
	e.plans.Put(key, *q)
	return q, nil
}

// Result is the outcome of GetData: the fetched page plus the total count.
// Count is -1 when the count query was skipped.
type Result struct {
	Rows  []map[string]interface{}
	Count int64
}

// Options tunes GetData.
type Options struct {
	// SkipCount bypasses the count query and reports Count == -1. Used when
	// the caller does not need pagination totals and wants to save the
	// second round-trip.
	SkipCount bool
}

// InsertResult carries the driver-reported outcome of an INSERT.
type InsertResult struct {
	InsertID     int64
	AffectedRows int64
}

// BatchInsertResult carries the outcome of a multi-row INSERT. IDs for rows
// after the first are best-effort FirstInsertID+n derivations: they assume
// contiguous auto-increment allocation, which concurrent writers can break on
// some engines.
type BatchInsertResult struct {
	FirstInsertID int64
	AffectedRows  int64
}

// GetData compiles both modes from one config and issues them concurrently:
// the row query and the count query are independent reads with no ordering
// dependency. Caller-supplied values bind the placeholders embedded in raw
// fragments and always precede the compiler-generated IN-list values.
func (e *Executor) GetData(ctx context.Context, cfg *sqlgen.QueryConfig, values []interface{}, opts *Options) (*Result, error) {
	rowQuery, err := e.compile(cfg, sqlgen.ModeRows)
	if err != nil {
		return nil, err
	}

	skipCount := opts != nil && opts.SkipCount
	var countQuery *sqlgen.Query
	if !skipCount {
		if countQuery, err = e.compile(cfg, sqlgen.ModeCount); err != nil {
			return nil, err
		}
	}

	result := &Result{Count: -1}
	var (
		wg       sync.WaitGroup
		rowErr   error
		countErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		result.Rows, rowErr = e.queryRows(ctx, rowQuery.SQL, mergeValues(values, rowQuery.Args))
	}()

	if !skipCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.Count, countErr = e.queryCount(ctx, countQuery.SQL, mergeValues(values, countQuery.Args))
		}()
	}

	wg.Wait()
	if rowErr != nil {
		return nil, rowErr
	}
	if countErr != nil {
		return nil, countErr
	}
	return result, nil
}

// GetFirst fetches the first matching row, or nil when nothing matched. It
// works on a copy of the config with Limit forced to 1; the caller's config
// is never touched.
func (e *Executor) GetFirst(ctx context.Context, cfg *sqlgen.QueryConfig, values []interface{}) (map[string]interface{}, error) {
	first := *cfg
	one := 1
	first.Limit = &one

	q, err := e.compile(&first, sqlgen.ModeRows)
	if err != nil {
		return nil, err
	}
	rows, err := e.queryRows(ctx, q.SQL, mergeValues(values, q.Args))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Insert executes a single-row INSERT.
func (e *Executor) Insert(ctx context.Context, table string, row map[string]interface{}) (*InsertResult, error) {
	q, err := sqlgen.BuildInsert(table, row)
	if err != nil {
		return nil, err
	}
	res, err := e.exec(ctx, prefixInsert, q.SQL, q.Args)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	affected, _ := res.RowsAffected()
	return &InsertResult{InsertID: id, AffectedRows: affected}, nil
}

// Update executes an UPDATE. values bind the placeholders in the where
// fragments and follow the SET values on the wire.
func (e *Executor) Update(ctx context.Context, table string, set map[string]interface{}, where []string, values []interface{}) (int64, error) {
	q, err := sqlgen.BuildUpdate(table, set, where)
	if err != nil {
		return 0, err
	}
	res, err := e.exec(ctx, prefixUpdate, q.SQL, mergeValues(q.Args, values))
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// Delete executes a DELETE. values bind the placeholders in the where
// fragments.
func (e *Executor) Delete(ctx context.Context, table string, where []string, values []interface{}) (int64, error) {
	q, err := sqlgen.BuildDelete(table, where)
	if err != nil {
		return 0, err
	}
	res, err := e.exec(ctx, prefixDelete, q.SQL, mergeValues(q.Args, values))
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// BatchInsert executes one multi-row INSERT. Empty input is a no-op: no
// statement is issued and a zero result is returned.
func (e *Executor) BatchInsert(ctx context.Context, table string, rows []map[string]interface{}) (*BatchInsertResult, error) {
	q, err := sqlgen.BuildBatchInsert(table, rows)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return &BatchInsertResult{}, nil
	}
	res, err := e.exec(ctx, prefixBatchInsert, q.SQL, q.Args)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	affected, _ := res.RowsAffected()
	return &BatchInsertResult{FirstInsertID: id, AffectedRows: affected}, nil
}

// Raw executes a caller-composed statement as-is and returns the rows.
func (e *Executor) Raw(ctx context.Context, query string, values []interface{}) ([]map[string]interface{}, error) {
	return e.query(ctx, prefixRaw, query, values)
}

// CreateTable compiles and issues the DDL statement sequence in order.
func (e *Executor) CreateTable(ctx context.Context, cfg *sqlgen.CreateTableConfig) error {
	stmts, err := sqlgen.BuildCreateTable(cfg)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := e.exec(ctx, prefixCreateTable, stmt, nil); err != nil {
			return err
		}
	}
	return nil
}

// queryRows runs a SELECT and scans every row into a column-keyed map.
func (e *Executor) queryRows(ctx context.Context, query string, args []interface{}) ([]map[string]interface{}, error) {
	return e.query(ctx, prefixFetch, query, args)
}

func (e *Executor) query(ctx context.Context, prefix, query string, args []interface{}) ([]map[string]interface{}, error) {
	start := time.Now()
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		e.sink.LogError(query, err, args)
		return nil, e.wrapErr(prefix, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		e.sink.LogError(query, err, args)
		return nil, e.wrapErr(prefix, err)
	}
	e.sink.LogQuery(query, args, time.Since(start))
	return out, nil
}

// queryCount runs the count-mode statement and reads the single count column.
func (e *Executor) queryCount(ctx context.Context, query string, args []interface{}) (int64, error) {
	start := time.Now()
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		e.sink.LogError(query, err, args)
		return 0, e.wrapErr(prefixFetch, err)
	}
	defer rows.Close()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			e.sink.LogError(query, err, args)
			return 0, e.wrapErr(prefixFetch, err)
		}
	}
	if err := rows.Err(); err != nil {
		e.sink.LogError(query, err, args)
		return 0, e.wrapErr(prefixFetch, err)
	}
	e.sink.LogQuery(query, args, time.Since(start))
	return count, nil
}

func (e *Executor) exec(ctx context.Context, prefix, query string, args []interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := e.db.ExecContext(ctx, query, args...)
	if err != nil {
		e.sink.LogError(query, err, args)
		return nil, e.wrapErr(prefix, err)
	}
	e.sink.LogQuery(query, args, time.Since(start))
	return res, nil
}

// wrapErr attaches the stable operation prefix. Outside development mode the
// driver message is replaced with a generic one; the sink has already seen
// the real error.
func (e *Executor) wrapErr(prefix string, err error) error {
	if e.development {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	return fmt.Errorf("%s: database error occurred", prefix)
}

// mergeValues concatenates caller-supplied values with compiler-generated
// ones, caller first, per the Query.Args binding contract.
func mergeValues(callerValues, generated []interface{}) []interface{} {
	if len(generated) == 0 {
		return callerValues
	}
	merged := make([]interface{}, 0, len(callerValues)+len(generated))
	merged = append(merged, callerValues...)
	merged = append(merged, generated...)
	return merged
}

// scanRows reads every row into a column-keyed map, normalizing []byte values
// to strings so that results are comparable across drivers.
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
