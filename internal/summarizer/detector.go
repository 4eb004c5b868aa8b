package summarizer

import (
	"context"
	"strings"

	"lineage-scan/internal/model"
)

// Detector answers language detection through a summarizer.
type Detector struct {
	S model.Summarizer
}

func NewDetector(s model.Summarizer) *Detector {
	return &Detector{S: s}
}

// DetectLanguage returns the lowercase language name the model replies with.
func (d *Detector) DetectLanguage(ctx context.Context, _ string, sample []byte) (string, error) {
	out, err := d.S.Summarize(ctx, DetectPrompt(string(sample)))
	if err != nil {
		return "", err
	}
	out = strings.ToLower(strings.TrimSpace(out))
	return strings.Trim(out, "`.\"' "), nil
}
