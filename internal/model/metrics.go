package model

// Metric modes.
const (
	MetricsFull        = "full"
	MetricsLinesOnly   = "lines_only"
	MetricsUnparseable = "unparseable"
)

// Metrics holds size, complexity and documentation figures for one file.
// Only line counts are populated in lines_only mode.
type Metrics struct {
	Mode              string  `json:"mode"`
	LinesTotal        int     `json:"lines_total"`
	LinesCode         int     `json:"lines_code"`
	LinesComment      int     `json:"lines_comment"`
	LinesBlank        int     `json:"lines_blank"`
	Functions         int     `json:"functions"`
	Classes           int     `json:"classes"`
	Imports           int     `json:"imports"`
	IfStatements      int     `json:"if_statements"`
	Loops             int     `json:"loops"`
	Cyclomatic        int     `json:"cyclomatic"`
	Cognitive         int     `json:"cognitive"`
	DocstringCoverage float64 `json:"docstring_coverage"`
	CommentRatio      float64 `json:"comment_ratio"`
	Maintainability   float64 `json:"maintainability"`
	DebtRatio         float64 `json:"debt_ratio"`
}
