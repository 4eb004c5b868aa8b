// Package reporter renders an analysis result.
package reporter

import (
	"errors"
	"fmt"

	"lineage-scan/internal/model"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Report formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns the reporter for format. output is the target file for the
// JSON report; the console report always goes to stdout.
func New(format, output string) (model.Reporter, error) {
	switch format {
	case "", FormatConsole:
		return NewConsoleReporter(nil), nil
	case FormatJSON:
		return NewJSONReporter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
