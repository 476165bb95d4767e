package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/satishbabariya/queryforge/cli/internal/config"
	"github.com/satishbabariya/queryforge/query/sqlgen"
)

// queryFile is the on-disk JSON shape of a query description. Arrays are used
// wherever order matters so that files compile deterministically.
type queryFile struct {
	Table          []string     `json:"table"`
	IDField        string       `json:"idField"`
	Fields         []fieldFile  `json:"fields"`
	Joins          []joinFile   `json:"joins"`
	Where          []string     `json:"where"`
	WhereIn        []inFile     `json:"whereIn"`
	WhereNotIn     []inFile     `json:"whereNotIn"`
	Having         []string     `json:"having"`
	GroupBy        []string     `json:"groupBy"`
	OrderBy        []string     `json:"orderBy"`
	OrderColumns   []orderFile  `json:"orderColumns"`
	OrderDirection string       `json:"orderDirection"`
	Limit          *int         `json:"limit"`
	Offset         *int         `json:"offset"`
	Distinct       bool         `json:"distinct"`
	Union          []*queryFile `json:"union"`
}

type fieldFile struct {
	Alias    string     `json:"alias"`
	Column   string     `json:"column,omitempty"`
	Raw      string     `json:"raw,omitempty"`
	Subquery *queryFile `json:"subquery,omitempty"`
}

type joinFile struct {
	Type  string `json:"type"`
	Table string `json:"table"`
	On    string `json:"on"`
}

type inFile struct {
	Column string        `json:"column"`
	Values []interface{} `json:"values"`
}

type orderFile struct {
	Column    string `json:"column"`
	Direction string `json:"direction,omitempty"`
}

// tableFile is the on-disk JSON shape of a table description.
type tableFile struct {
	Table        string            `json:"table"`
	DropIfExists bool              `json:"dropIfExists"`
	Columns      []columnFile      `json:"columns"`
	PrimaryKey   []string          `json:"primaryKey"`
	Indexes      []indexFile       `json:"indexes"`
	ForeignKeys  []foreignKeyFile  `json:"foreignKeys"`
	Options      tableOptionsFile  `json:"options"`
}

type columnFile struct {
	Name                     string      `json:"name"`
	Type                     string      `json:"type"`
	Length                   int         `json:"length,omitempty"`
	Values                   []string    `json:"values,omitempty"`
	Unsigned                 bool        `json:"unsigned,omitempty"`
	Zerofill                 bool        `json:"zerofill,omitempty"`
	Charset                  string      `json:"charset,omitempty"`
	Collation                string      `json:"collation,omitempty"`
	Nullable                 *bool       `json:"nullable,omitempty"`
	Default                  interface{} `json:"default,omitempty"`
	AutoIncrement            bool        `json:"autoIncrement,omitempty"`
	OnUpdateCurrentTimestamp bool        `json:"onUpdateCurrentTimestamp,omitempty"`
	Comment                  string      `json:"comment,omitempty"`
}

type indexFile struct {
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
	Kind    string   `json:"kind,omitempty"`
}

type foreignKeyFile struct {
	Column    string `json:"column"`
	Reference string `json:"reference"`
	OnDelete  string `json:"onDelete,omitempty"`
	OnUpdate  string `json:"onUpdate,omitempty"`
}

type tableOptionsFile struct {
	Engine        string `json:"engine,omitempty"`
	Charset       string `json:"charset,omitempty"`
	Collation     string `json:"collation,omitempty"`
	AutoIncrement int    `json:"autoIncrement,omitempty"`
	RowFormat     string `json:"rowFormat,omitempty"`
	Comment       string `json:"comment,omitempty"`
}

// loadQueryFile reads and converts a query description file.
func loadQueryFile(path string) (*sqlgen.QueryConfig, error) {
	data, err := afero.ReadFile(config.AppFs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	var qf queryFile
	if err := json.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("failed to parse query file: %w", err)
	}
	return qf.toConfig(), nil
}

// loadTableFile reads and converts a table description file.
func loadTableFile(path string) (*sqlgen.CreateTableConfig, error) {
	data, err := afero.ReadFile(config.AppFs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table file: %w", err)
	}
	var tf tableFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse table file: %w", err)
	}
	return tf.toConfig(), nil
}

func (qf *queryFile) toConfig() *sqlgen.QueryConfig {
	if qf == nil {
		return nil
	}
	cfg := &sqlgen.QueryConfig{
		Table:          qf.Table,
		IDField:        qf.IDField,
		Where:          qf.Where,
		Having:         qf.Having,
		GroupBy:        qf.GroupBy,
		OrderBy:        qf.OrderBy,
		OrderDirection: qf.OrderDirection,
		Limit:          qf.Limit,
		Offset:         qf.Offset,
		Distinct:       qf.Distinct,
	}
	for _, f := range qf.Fields {
		switch {
		case f.Subquery != nil:
			cfg.Fields = append(cfg.Fields, sqlgen.Subquery(f.Alias, f.Subquery.toConfig()))
		case f.Raw != "":
			cfg.Fields = append(cfg.Fields, sqlgen.RawExpr(f.Alias, f.Raw))
		default:
			cfg.Fields = append(cfg.Fields, sqlgen.Col(f.Alias, f.Column))
		}
	}
	for _, j := range qf.Joins {
		cfg.Joins = append(cfg.Joins, sqlgen.Join{Type: j.Type, Table: j.Table, On: j.On})
	}
	for _, in := range qf.WhereIn {
		cfg.WhereIn = append(cfg.WhereIn, sqlgen.InClause{Column: in.Column, Values: in.Values})
	}
	for _, in := range qf.WhereNotIn {
		cfg.WhereNotIn = append(cfg.WhereNotIn, sqlgen.InClause{Column: in.Column, Values: in.Values})
	}
	for _, oc := range qf.OrderColumns {
		cfg.OrderColumns = append(cfg.OrderColumns, sqlgen.OrderColumn{Column: oc.Column, Direction: oc.Direction})
	}
	for _, u := range qf.Union {
		cfg.Union = append(cfg.Union, u.toConfig())
	}
	return cfg
}

func (tf *tableFile) toConfig() *sqlgen.CreateTableConfig {
	cfg := &sqlgen.CreateTableConfig{
		Table:        tf.Table,
		DropIfExists: tf.DropIfExists,
		PrimaryKey:   tf.PrimaryKey,
		Options: sqlgen.TableOptions{
			Engine:        tf.Options.Engine,
			Charset:       tf.Options.Charset,
			Collation:     tf.Options.Collation,
			AutoIncrement: tf.Options.AutoIncrement,
			RowFormat:     tf.Options.RowFormat,
			Comment:       tf.Options.Comment,
		},
	}
	for _, c := range tf.Columns {
		cfg.Columns = append(cfg.Columns, sqlgen.ColumnConfig{
			Name:                     c.Name,
			Type:                     c.Type,
			Length:                   c.Length,
			Values:                   c.Values,
			Unsigned:                 c.Unsigned,
			Zerofill:                 c.Zerofill,
			Charset:                  c.Charset,
			Collation:                c.Collation,
			Nullable:                 c.Nullable,
			Default:                  c.Default,
			AutoIncrement:            c.AutoIncrement,
			OnUpdateCurrentTimestamp: c.OnUpdateCurrentTimestamp,
			Comment:                  c.Comment,
		})
	}
	for _, idx := range tf.Indexes {
		cfg.Indexes = append(cfg.Indexes, sqlgen.IndexConfig{Name: idx.Name, Columns: idx.Columns, Kind: idx.Kind})
	}
	for _, fk := range tf.ForeignKeys {
		cfg.ForeignKeys = append(cfg.ForeignKeys, sqlgen.ForeignKeyConfig{
			Column:    fk.Column,
			Reference: fk.Reference,
			OnDelete:  fk.OnDelete,
			OnUpdate:  fk.OnUpdate,
		})
	}
	return cfg
}

// formatArgs renders bind values for table output.
func formatArgs(args []interface{}) [][]string {
	rows := make([][]string, len(args))
	for i, a := range args {
		rows[i] = []string{fmt.Sprintf("%d", i+1), fmt.Sprintf("%v", a), fmt.Sprintf("%T", a)}
	}
	return rows
}
