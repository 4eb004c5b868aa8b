package model

import (
	"fmt"
	"time"
)

// Location represents the physical location of a code segment
type Location struct {
	FilePath string `json:"file"`
	Line     int    `json:"line"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.FilePath, l.Line)
}

// SourceFile describes one entry of the analyzed tree. Binary files carry
// identity and size only.
type SourceFile struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Extension string    `json:"extension"`
	Language  string    `json:"language"`
	Size      int64     `json:"size"`
	Lines     int       `json:"lines"`
	ModTime   time.Time `json:"last_modified"`
	IsBinary  bool      `json:"is_binary"`
	Hash      string    `json:"hash,omitempty"`

	Functions  int      `json:"functions"`
	Classes    int      `json:"classes"`
	DBTypes    []string `json:"db_types,omitempty"`
	APIs       []string `json:"api_patterns,omitempty"`
	Frameworks []string `json:"frameworks,omitempty"`
	Metrics    *Metrics `json:"metrics,omitempty"`
}

// HasDB reports whether any database kind was detected in the file.
func (f *SourceFile) HasDB() bool { return len(f.DBTypes) > 0 }

// Function is a function or method declaration. Class is a name-based
// reference to the enclosing class and may not resolve to an extracted Class.
type Function struct {
	Name       string   `json:"name"`
	File       string   `json:"file"`
	Language   string   `json:"language"`
	Class      string   `json:"class,omitempty"`
	Params     []string `json:"parameters"`
	ReturnType string   `json:"return_type,omitempty"`
	Decorators []string `json:"decorators,omitempty"`
	Docstring  string   `json:"docstring,omitempty"`
	Async      bool     `json:"async,omitempty"`
	Line       int      `json:"line"`
	EndLine    int      `json:"end_line,omitempty"`
}

// IsMethod reports whether the function was attributed to a class.
func (f Function) IsMethod() bool { return f.Class != "" }

type Class struct {
	Name       string   `json:"name"`
	File       string   `json:"file"`
	Language   string   `json:"language"`
	Bases      []string `json:"bases,omitempty"`
	Methods    []string `json:"methods,omitempty"`
	Decorators []string `json:"decorators,omitempty"`
	Docstring  string   `json:"docstring,omitempty"`
	Line       int      `json:"line"`
}

// Variable type tags inferred from the initializer.
const (
	TypeString     = "string"
	TypeNumber     = "number"
	TypeBoolean    = "boolean"
	TypeArray      = "array"
	TypeObject     = "object"
	TypeCallResult = "call-result"
	TypeUnknown    = "unknown"
)

// Variable is one assignment statement. Reassignments produce additional
// records; nothing is merged.
type Variable struct {
	Name         string `json:"name"`
	File         string `json:"file"`
	Language     string `json:"language"`
	Type         string `json:"type"`
	Class        string `json:"class,omitempty"`
	DeclaredType string `json:"declared_type,omitempty"`
	Value        string `json:"value,omitempty"`
	Line         int    `json:"line"`
}

// Import is a single imported binding. Source is the module specifier;
// Name is empty for side-effect imports.
type Import struct {
	Source string `json:"source"`
	Name   string `json:"name,omitempty"`
	Alias  string `json:"alias,omitempty"`
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
}

// URL categories.
const (
	URLCategoryAPI        = "API"
	URLCategoryRepository = "Repository"
	URLCategoryAssets     = "Content/Assets"
	URLCategoryDocs       = "Documentation"
	URLCategoryUnknown    = "unknown"
)

type URL struct {
	URL      string `json:"url"`
	Category string `json:"category"`
	File     string `json:"file"`
}

// PatternHits holds the catalog kinds detected in one file, each list in
// catalog declaration order.
type PatternHits struct {
	Databases  []DatabaseKind `json:"databases"`
	APIs       []APIKind      `json:"apis"`
	Frameworks []FrameworkHit `json:"frameworks"`
}

// FrameworkHit is a framework detection with its category.
type FrameworkHit struct {
	Category FrameworkCategory `json:"category"`
	Name     Framework         `json:"name"`
}

// DataFrame node kinds.
const (
	DataFrameSource         = "SOURCE"
	DataFrameTransformation = "TRANSFORMATION"
)

// DataFrameNode is a tabular value produced by a read or a transformation.
// Upstream is a variable name in the same file for transformations or the
// source expression for reads.
type DataFrameNode struct {
	File      string `json:"file"`
	Variable  string `json:"variable"`
	Kind      string `json:"kind"`
	Operation string `json:"operation"`
	Upstream  string `json:"upstream"`
	Function  string `json:"function,omitempty"`
	Line      int    `json:"line"`
}

// ID returns the file-qualified node identifier.
func (d DataFrameNode) ID() string { return d.File + ":" + d.Variable }

// BusinessRule is a conditional or rule-like call found in the code.
type BusinessRule struct {
	File      string   `json:"file"`
	Kind      string   `json:"kind"`
	Condition string   `json:"condition,omitempty"`
	Actions   []string `json:"actions,omitempty"`
	Function  string   `json:"function,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	Line      int      `json:"line"`
}

// FileEntities is the extraction output for a single file.
type FileEntities struct {
	Path          string          `json:"path"`
	Language      string          `json:"language"`
	Parsed        bool            `json:"parsed"`
	Functions     []Function      `json:"functions"`
	Classes       []Class         `json:"classes"`
	Variables     []Variable      `json:"variables"`
	Imports       []Import        `json:"imports"`
	Hits          PatternHits     `json:"pattern_hits"`
	URLs          []URL           `json:"urls"`
	EnvVars       []string        `json:"env_vars"`
	DataFrames    []DataFrameNode `json:"dataframes"`
	SQL           []SQLSegment    `json:"sql"`
	BusinessRules []BusinessRule  `json:"business_rules"`
	FilePaths     []string        `json:"file_paths"`
	Configs       []string        `json:"configs"`
}
