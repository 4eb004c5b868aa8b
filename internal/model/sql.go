package model

// SQLSegment represents an extracted SQL statement from source code
type SQLSegment struct {
	SQL      string   `json:"sql"`
	Location Location `json:"location"`
	Language string   `json:"language"`
	// Variable is the assigned name, or "inline" for literals passed
	// straight into a call.
	Variable string `json:"variable,omitempty"`
}

// Statement kinds.
const (
	SQLKindSelect      = "SELECT"
	SQLKindInsert      = "INSERT"
	SQLKindReplace     = "REPLACE"
	SQLKindUpdate      = "UPDATE"
	SQLKindDelete      = "DELETE"
	SQLKindMerge       = "MERGE"
	SQLKindCreateTable = "CREATE TABLE"
	SQLKindCreateView  = "CREATE VIEW"
	SQLKindOther       = "OTHER"
)

// SQL operation types recorded on a statement.
const (
	SQLOpColumnExpression = "COLUMN_EXPRESSION"
	SQLOpGroupBy          = "GROUP BY"
	SQLOpOrderBy          = "ORDER BY"
	SQLOpHaving           = "HAVING"
)

type SQLOperation struct {
	Type       string `json:"type"`
	Expression string `json:"expression,omitempty"`
}

// SQLStatement is the table/column level reading of an SQLSegment.
type SQLStatement struct {
	Text       string         `json:"text"`
	Kind       string         `json:"kind"`
	Tables     []string       `json:"tables"`
	Columns    []string       `json:"columns"`
	Operations []SQLOperation `json:"operations"`
	// Target is the written or created table.
	Target string `json:"target,omitempty"`
	// Sources are the tables read to populate Target, as in INSERT ... SELECT
	// or CREATE TABLE ... AS SELECT.
	Sources  []string `json:"sources,omitempty"`
	File     string   `json:"file"`
	Variable string   `json:"variable,omitempty"`
	Line     int      `json:"line"`
	Parsed   bool     `json:"parsed"`
}

// SchemaCtx represents the loaded database schema context
type SchemaCtx struct {
	Tables map[string]*Table
}

type Table struct {
	Name    string
	Columns map[string]*Column
	Indexes []*Index
}

type Column struct {
	Name string
	Type string // Simplified type representation
}

type Index struct {
	Name    string
	Columns []string // Ordered list of column names in the index
	Unique  bool
}
