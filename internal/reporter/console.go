package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"lineage-scan/internal/model"
)

// Caps on the console listing; the JSON report always carries everything.
const (
	maxSQLRows     = 20
	maxEdgeRows    = 30
	maxSnippetLen  = 80
	maxNarrativeLn = 400
)

type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter writes to out, or to stdout when out is nil.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) Report(result *model.Result) error {
	r.summary(result)
	r.architecture(result.Architecture)
	r.sql(result.SQL)
	r.lineage(result.Lineage)
	r.narratives(result.Narratives)
	r.ReportIssues(result.Issues)
	return nil
}

func (r *ConsoleReporter) heading(title string) {
	fmt.Fprintf(r.out, "\n%s\n", color.New(color.Bold, color.Underline).Sprint(title))
}

func (r *ConsoleReporter) summary(result *model.Result) {
	s := result.Stats
	r.heading("Summary")
	fmt.Fprintf(r.out, "Files: %d (%d binary)  Lines: %d  Functions: %d  Classes: %d  Variables: %d\n",
		s.TotalFiles, s.BinaryFiles, s.TotalLines, s.TotalFunctions, s.TotalClasses, s.TotalVariables)

	langs := make([]model.NameCount, 0, len(result.LanguageStats))
	for name, n := range result.LanguageStats {
		langs = append(langs, model.NameCount{Name: name, Count: n})
	}
	sort.Slice(langs, func(i, j int) bool {
		if langs[i].Count != langs[j].Count {
			return langs[i].Count > langs[j].Count
		}
		return langs[i].Name < langs[j].Name
	})
	parts := make([]string, len(langs))
	for i, l := range langs {
		parts[i] = fmt.Sprintf("%s (%d)", l.Name, l.Count)
	}
	r.list("Languages", parts)
	r.list("Databases", s.DetectedDatabases)
	r.list("APIs", s.DetectedAPIs)
	r.list("Frameworks", s.DetectedFrameworks)
}

func (r *ConsoleReporter) list(label string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(r.out, "%s: %s\n", label, color.HiBlackString("none"))
		return
	}
	fmt.Fprintf(r.out, "%s: %s\n", label, strings.Join(values, ", "))
}

func (r *ConsoleReporter) architecture(findings []model.ArchitectureFinding) {
	if len(findings) == 0 {
		return
	}
	r.heading("Architecture")
	for _, f := range findings {
		fmt.Fprintf(r.out, "%s [%s] %s\n", f.Name, confidenceColor(f.Confidence).Sprint(f.Confidence), f.Evidence)
	}
}

func (r *ConsoleReporter) sql(stmts []model.SQLStatement) {
	if len(stmts) == 0 {
		return
	}
	r.heading(fmt.Sprintf("SQL statements (%d)", len(stmts)))
	for i, s := range stmts {
		if i == maxSQLRows {
			fmt.Fprintf(r.out, "... %d more\n", len(stmts)-maxSQLRows)
			break
		}
		fmt.Fprintf(r.out, "%s:%d: [%s] %s\n", s.File, s.Line, s.Kind,
			color.CyanString(truncate(oneLine(s.Text), maxSnippetLen)))
	}
}

func (r *ConsoleReporter) lineage(g model.Graph) {
	if len(g.Edges) == 0 {
		return
	}
	r.heading(fmt.Sprintf("Lineage (%d nodes, %d edges)", len(g.Nodes), len(g.Edges)))
	for i, e := range g.Edges {
		if i == maxEdgeRows {
			fmt.Fprintf(r.out, "... %d more\n", len(g.Edges)-maxEdgeRows)
			break
		}
		fmt.Fprintf(r.out, "%s -> %s (%s)\n", e.Source, e.Target, e.Operation)
	}
}

func (r *ConsoleReporter) narratives(n *model.Narratives) {
	if n == nil {
		return
	}
	if n.Project != "" {
		r.heading("Project summary")
		fmt.Fprintln(r.out, truncate(n.Project, maxNarrativeLn))
	}
	if n.DataFlow != "" {
		r.heading("Data flow summary")
		fmt.Fprintln(r.out, truncate(n.DataFlow, maxNarrativeLn))
	}
	r.keyed("File explanations", n.Files)
	r.keyed("SQL explanations", n.SQL)
}

func (r *ConsoleReporter) keyed(title string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	r.heading(title)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(r.out, "%s: %s\n", color.New(color.Bold).Sprint(k), truncate(m[k], maxNarrativeLn))
	}
}

// ReportIssues prints issues, most severe first, with a totals line.
func (r *ConsoleReporter) ReportIssues(issues []model.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(r.out, color.GreenString("\n✔ No issues found! Great job."))
		return
	}

	sorted := append([]model.Issue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})

	r.heading("Issues")
	for _, issue := range sorted {
		// Format: file:line: [LEVEL] Message
		loc := fmt.Sprintf("%s:%d", issue.File, issue.Line)
		fmt.Fprintf(r.out, "%s: [%s] %s (%s)\n", loc, severityColor(issue.Severity).Sprint(issue.Severity), issue.Message, issue.Rule)
		if issue.SQL != "" {
			fmt.Fprintf(r.out, "\tCode: %s\n", color.CyanString(truncate(oneLine(issue.SQL), maxSnippetLen)))
		}
		fmt.Fprintf(r.out, "\tSuggestion: %s\n", issue.Recommendation)
	}

	counts := map[model.Severity]int{}
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	fmt.Fprintf(r.out, "\n%s found %d issues (%d high, %d medium, %d low).\n", color.RedString("✘"), len(issues),
		counts[model.SeverityHigh], counts[model.SeverityMedium], counts[model.SeverityLow])
}

func severityColor(s model.Severity) *color.Color {
	switch s {
	case model.SeverityHigh:
		return color.New(color.FgRed, color.Bold)
	case model.SeverityMedium:
		return color.New(color.FgYellow, color.Bold)
	case model.SeverityLow:
		return color.New(color.FgBlue, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func confidenceColor(c model.Confidence) *color.Color {
	switch c {
	case model.ConfidenceHigh:
		return color.New(color.FgGreen, color.Bold)
	case model.ConfidenceMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
