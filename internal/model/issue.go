package model

// Severity defines the severity of a finding
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Rank orders severities from most to least severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Issue categories.
const (
	CategoryMaintainability = "Maintainability"
	CategoryDesign          = "Design"
	CategoryDocumentation   = "Documentation"
	CategoryComplexity      = "Complexity"
	CategoryErrorHandling   = "Error Handling"
	CategoryBugRisk         = "Bug Risk"
	CategorySyntax          = "Syntax"
	CategorySQLSafety       = "SQL Safety"
	CategorySQLPerformance  = "SQL Performance"
)

// Issue represents a potential problem found in a file
type Issue struct {
	Rule           string   `json:"rule"`
	File           string   `json:"file"`
	Line           int      `json:"line"`
	Message        string   `json:"message"`
	Severity       Severity `json:"severity"`
	Category       string   `json:"category"`
	Recommendation string   `json:"recommendation"`
	// SQL is set for findings raised against an SQL statement.
	SQL string `json:"sql,omitempty"`
}
