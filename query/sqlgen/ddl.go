package sqlgen

import (
	"fmt"
	"regexp"
	"strings"
)

// CreateTableConfig describes one table for one-shot CREATE TABLE emission.
type CreateTableConfig struct {
	Table        string
	DropIfExists bool
	Columns      []ColumnConfig
	// PrimaryKey is one column name or several for a composite key.
	PrimaryKey  []string
	Indexes     []IndexConfig
	ForeignKeys []ForeignKeyConfig
	Options     TableOptions
}

// ColumnConfig describes one column. Columns are nullable unless Nullable is
// explicitly false.
type ColumnConfig struct {
	Name   string
	Type   string
	Length int
	// Values is the value list for ENUM/SET columns.
	Values   []string
	Unsigned bool
	Zerofill bool
	// Charset and Collation are honored only for text-family types.
	Charset   string
	Collation string
	Nullable  *bool
	// Default is rendered as an escaped literal, except the string
	// "CURRENT_TIMESTAMP" which is emitted as the keyword.
	Default                  interface{}
	AutoIncrement            bool
	OnUpdateCurrentTimestamp bool
	Comment                  string
}

// IndexConfig describes a secondary index. Kind is "", "UNIQUE", "FULLTEXT"
// or "SPATIAL".
type IndexConfig struct {
	Name    string
	Columns []string
	Kind    string
}

// ForeignKeyConfig describes one foreign key. Reference must have the strict
// shape "table(column)"; anything else fails validation before any SQL is
// produced.
type ForeignKeyConfig struct {
	Column    string
	Reference string
	OnDelete  string
	OnUpdate  string
}

// TableOptions carries table-level options. Engine and charset strings are
// interpolated into DDL (they cannot be bound), so they are validated to
// contain no statement-breaking characters.
type TableOptions struct {
	Engine        string
	Charset       string
	Collation     string
	AutoIncrement int
	RowFormat     string
	Comment       string
}

var (
	fkReferenceRe = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*\(\s*([A-Za-z_][A-Za-z0-9_]*)\s*\)\s*$`)
	ddlOptionRe   = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// textFamilyTypes are the column types that accept CHARACTER SET / COLLATE.
var textFamilyTypes = map[string]bool{
	"CHAR": true, "VARCHAR": true, "TINYTEXT": true, "TEXT": true,
	"MEDIUMTEXT": true, "LONGTEXT": true, "ENUM": true, "SET": true,
}

// fkActions are the accepted ON DELETE / ON UPDATE actions.
var fkActions = map[string]bool{
	"CASCADE": true, "SET NULL": true, "RESTRICT": true, "NO ACTION": true,
	"SET DEFAULT": true,
}

// BuildCreateTable compiles a CreateTableConfig into the ordered list of DDL
// statements to issue: an optional DROP TABLE IF EXISTS followed by the
// CREATE TABLE itself.
func BuildCreateTable(cfg *CreateTableConfig) ([]string, error) {
	if cfg == nil || cfg.Table == "" {
		return nil, fmt.Errorf("create table config has no table name")
	}
	if len(cfg.Columns) == 0 {
		return nil, fmt.Errorf("create table config has no columns")
	}

	var defs []string
	for _, col := range cfg.Columns {
		def, err := buildColumnDef(&col)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	if len(cfg.PrimaryKey) > 0 {
		keys := make([]string, len(cfg.PrimaryKey))
		for i, k := range cfg.PrimaryKey {
			keys[i] = QuoteIdentifier(k)
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(keys, ", ")+")")
	}

	for _, idx := range cfg.Indexes {
		def, err := buildIndexDef(&idx)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	for _, fk := range cfg.ForeignKeys {
		def, err := buildForeignKeyDef(&fk)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	options, err := buildTableOptions(&cfg.Options)
	if err != nil {
		return nil, err
	}

	var stmts []string
	if cfg.DropIfExists {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+QuoteIdentifier(cfg.Table))
	}
	stmts = append(stmts, fmt.Sprintf("CREATE TABLE %s (%s)%s",
		QuoteIdentifier(cfg.Table), strings.Join(defs, ", "), options))
	return stmts, nil
}

func buildColumnDef(col *ColumnConfig) (string, error) {
	if col.Name == "" {
		return "", fmt.Errorf("column has no name")
	}
	colType := strings.ToUpper(strings.TrimSpace(col.Type))
	if !ddlOptionRe.MatchString(colType) {
		return "", fmt.Errorf("invalid column type for %s: %q", col.Name, col.Type)
	}

	var b strings.Builder
	b.WriteString(QuoteIdentifier(col.Name))
	b.WriteString(" ")
	b.WriteString(colType)

	switch {
	case colType == "ENUM" || colType == "SET":
		if len(col.Values) == 0 {
			return "", fmt.Errorf("%s column %s has no value list", colType, col.Name)
		}
		vals := make([]string, len(col.Values))
		for i, v := range col.Values {
			vals[i] = QuoteLiteral(v)
		}
		b.WriteString("(" + strings.Join(vals, ", ") + ")")
	case col.Length > 0:
		fmt.Fprintf(&b, "(%d)", col.Length)
	}

	if col.Unsigned {
		b.WriteString(" UNSIGNED")
	}
	if col.Zerofill {
		b.WriteString(" ZEROFILL")
	}

	if textFamilyTypes[colType] {
		if col.Charset != "" {
			if !ddlOptionRe.MatchString(col.Charset) {
				return "", fmt.Errorf("invalid charset for column %s: %q", col.Name, col.Charset)
			}
			b.WriteString(" CHARACTER SET " + col.Charset)
		}
		if col.Collation != "" {
			if !ddlOptionRe.MatchString(col.Collation) {
				return "", fmt.Errorf("invalid collation for column %s: %q", col.Name, col.Collation)
			}
			b.WriteString(" COLLATE " + col.Collation)
		}
	}

	if col.Nullable != nil && !*col.Nullable {
		b.WriteString(" NOT NULL")
	} else {
		b.WriteString(" NULL")
	}

	if col.Default != nil {
		if s, ok := col.Default.(string); ok && strings.EqualFold(s, "CURRENT_TIMESTAMP") {
			b.WriteString(" DEFAULT CURRENT_TIMESTAMP")
		} else {
			b.WriteString(" DEFAULT " + QuoteLiteral(col.Default))
		}
	}

	if col.AutoIncrement {
		b.WriteString(" AUTO_INCREMENT")
	}
	if col.OnUpdateCurrentTimestamp {
		b.WriteString(" ON UPDATE CURRENT_TIMESTAMP")
	}
	if col.Comment != "" {
		b.WriteString(" COMMENT " + QuoteLiteral(col.Comment))
	}
	return b.String(), nil
}

func buildIndexDef(idx *IndexConfig) (string, error) {
	if len(idx.Columns) == 0 {
		return "", fmt.Errorf("index %s has no columns", idx.Name)
	}
	cols := make([]string, len(idx.Columns))
	for i, c := range idx.Columns {
		cols[i] = QuoteIdentifier(c)
	}

	name := idx.Name
	if name == "" {
		name = "idx_" + strings.Join(idx.Columns, "_")
	}

	kind := strings.ToUpper(strings.TrimSpace(idx.Kind))
	switch kind {
	case "":
		return fmt.Sprintf("INDEX %s (%s)", QuoteIdentifier(name), strings.Join(cols, ", ")), nil
	case "UNIQUE":
		return fmt.Sprintf("UNIQUE INDEX %s (%s)", QuoteIdentifier(name), strings.Join(cols, ", ")), nil
	case "FULLTEXT", "SPATIAL":
		return fmt.Sprintf("%s INDEX %s (%s)", kind, QuoteIdentifier(name), strings.Join(cols, ", ")), nil
	default:
		return "", fmt.Errorf("unsupported index kind: %s", idx.Kind)
	}
}

func buildForeignKeyDef(fk *ForeignKeyConfig) (string, error) {
	m := fkReferenceRe.FindStringSubmatch(fk.Reference)
	if m == nil {
		return "", fmt.Errorf("Invalid foreign key reference format: %q", fk.Reference)
	}
	refTable, refColumn := m[1], m[2]

	var b strings.Builder
	fmt.Fprintf(&b, "FOREIGN KEY (%s) REFERENCES %s (%s)",
		QuoteIdentifier(fk.Column), QuoteIdentifier(refTable), QuoteIdentifier(refColumn))

	if fk.OnDelete != "" {
		action := strings.ToUpper(strings.TrimSpace(fk.OnDelete))
		if !fkActions[action] {
			return "", fmt.Errorf("unsupported ON DELETE action: %s", fk.OnDelete)
		}
		b.WriteString(" ON DELETE " + action)
	}
	if fk.OnUpdate != "" {
		action := strings.ToUpper(strings.TrimSpace(fk.OnUpdate))
		if !fkActions[action] {
			return "", fmt.Errorf("unsupported ON UPDATE action: %s", fk.OnUpdate)
		}
		b.WriteString(" ON UPDATE " + action)
	}
	return b.String(), nil
}

func buildTableOptions(opts *TableOptions) (string, error) {
	engine := opts.Engine
	if engine == "" {
		engine = "InnoDB"
	}
	if !ddlOptionRe.MatchString(engine) {
		return "", fmt.Errorf("invalid table engine: %q", opts.Engine)
	}

	charset := opts.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	if !ddlOptionRe.MatchString(charset) {
		return "", fmt.Errorf("invalid table charset: %q", opts.Charset)
	}

	var b strings.Builder
	fmt.Fprintf(&b, " ENGINE=%s DEFAULT CHARSET=%s", engine, charset)

	if opts.Collation != "" {
		if !ddlOptionRe.MatchString(opts.Collation) {
			return "", fmt.Errorf("invalid table collation: %q", opts.Collation)
		}
		b.WriteString(" COLLATE=" + opts.Collation)
	}
	if opts.AutoIncrement > 0 {
		fmt.Fprintf(&b, " AUTO_INCREMENT=%d", opts.AutoIncrement)
	}
	if opts.RowFormat != "" {
		rf := strings.ToUpper(strings.TrimSpace(opts.RowFormat))
		if !ddlOptionRe.MatchString(rf) {
			return "", fmt.Errorf("invalid row format: %q", opts.RowFormat)
		}
		b.WriteString(" ROW_FORMAT=" + rf)
	}
	if opts.Comment != "" {
		b.WriteString(" COMMENT=" + QuoteLiteral(opts.Comment))
	}
	return b.String(), nil
}
