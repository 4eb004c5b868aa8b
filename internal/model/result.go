package model

// CodeStats aggregates counters across the run.
type CodeStats struct {
	TotalFiles         int      `json:"total_files"`
	BinaryFiles        int      `json:"binary_files"`
	TotalLines         int      `json:"total_lines"`
	TotalFunctions     int      `json:"total_functions"`
	TotalClasses       int      `json:"total_classes"`
	TotalVariables     int      `json:"total_variables"`
	DetectedDatabases  []string `json:"detected_databases"`
	DetectedAPIs       []string `json:"detected_apis"`
	DetectedFrameworks []string `json:"detected_frameworks"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Narratives holds optional prose produced by the summarizer.
type Narratives struct {
	Project  string            `json:"project,omitempty"`
	DataFlow string            `json:"data_flow,omitempty"`
	Files    map[string]string `json:"files,omitempty"`
	SQL      map[string]string `json:"sql,omitempty"`
}

// Result is the full output of one analysis run. It only holds plain
// values so it can be serialized without loss.
type Result struct {
	RunID         string                `json:"run_id"`
	Root          string                `json:"root"`
	Files         []SourceFile          `json:"files"`
	LanguageStats map[string]int        `json:"language_stats"`
	Functions     []Function            `json:"functions"`
	Classes       []Class               `json:"classes"`
	Variables     []Variable            `json:"variables"`
	Imports       map[string][]Import   `json:"imports"`
	DBConnections map[string][]string   `json:"db_connections"`
	APIUsage      map[string][]string   `json:"api_usage"`
	FrameworkUse  map[string][]string   `json:"framework_usage"`
	URLs          []URL                 `json:"urls"`
	EnvVars       map[string][]string   `json:"env_vars"`
	Stats         CodeStats             `json:"code_stats"`
	TopFunctions  []NameCount           `json:"top_functions"`
	TopClasses    []NameCount           `json:"top_classes"`
	Issues        []Issue               `json:"issues"`
	SQL           []SQLStatement        `json:"sql_statements"`
	DataFrames    []DataFrameNode       `json:"dataframes"`
	BusinessRules []BusinessRule        `json:"business_rules"`
	FilePaths     map[string][]string   `json:"file_paths"`
	Configs       map[string][]string   `json:"configs"`
	DataFlow      DataFlow              `json:"data_flow"`
	Lineage       Graph                 `json:"lineage"`
	Architecture  []ArchitectureFinding `json:"architecture"`
	Narratives    *Narratives           `json:"narratives,omitempty"`
}
