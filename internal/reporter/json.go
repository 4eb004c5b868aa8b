package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"lineage-scan/internal/model"
)

// JSONReporter writes the whole result as indented JSON.
type JSONReporter struct {
	path string
	out  io.Writer
}

// NewJSONReporter writes to path, or to stdout when path is empty.
func NewJSONReporter(path string) *JSONReporter {
	return &JSONReporter{path: path, out: os.Stdout}
}

func (r *JSONReporter) Report(result *model.Result) error {
	out := r.out
	if r.path != "" {
		f, err := os.Create(r.path)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
