package model

// Node types.
const (
	NodeFile        = "file"
	NodeDatabase    = "database"
	NodeDataFrame   = "dataframe"
	NodeExternal    = "external"
	NodeTable       = "table"
	NodeQueryResult = "query_result"
)

// Edge operations that are not method names.
const (
	EdgeUses      = "uses"
	EdgeUsedBy    = "used_by"
	EdgeImports   = "imports"
	EdgeSQLSelect = "SQL_SELECT"
	EdgeSQLInsert = "SQL_INSERT"
)

type Node struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Label   string   `json:"label"`
	File    string   `json:"file,omitempty"`
	HasDB   bool     `json:"has_db,omitempty"`
	DBTypes []string `json:"db_types,omitempty"`
	// Operation is the producing method for dataframe nodes.
	Operation string `json:"operation,omitempty"`
}

type Edge struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Operation string `json:"operation"`
	File      string `json:"file,omitempty"`
}

// Graph is the exported node/edge list form of a graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type ETLCandidate struct {
	File        string   `json:"file"`
	DBTypes     []string `json:"db_types"`
	APIPatterns []string `json:"api_patterns"`
}

// Confidence is an ordinal tier.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

type ArchitectureFinding struct {
	Name       string     `json:"name"`
	Confidence Confidence `json:"confidence"`
	Evidence   string     `json:"evidence"`
}

type DataFlow struct {
	Graph         Graph          `json:"graph"`
	ETLCandidates []ETLCandidate `json:"etl_candidates"`
}
