package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/ironsheep/colony-counter/internal/colony"
	"github.com/ironsheep/colony-counter/internal/config"
)

// Summary is the machine-readable record of one run.
type Summary struct {
	RunID     string         `json:"run_id"`
	CreatedAt time.Time      `json:"created_at"`
	Config    config.Config  `json:"config"`
	Images    []ImageSummary `json:"images"`
}

// ImageSummary records the outcome for one input image.
type ImageSummary struct {
	Path      string        `json:"path"`
	OutputDir string        `json:"output_dir,omitempty"`
	Threshold float64       `json:"threshold"`
	Regions   int           `json:"regions"`
	Modes     []ModeSummary `json:"modes,omitempty"`
	Artifacts []string      `json:"artifacts,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// ModeSummary is a classification result with its display count.
type ModeSummary struct {
	colony.Result
	CountLabel string `json:"count_label"`
}

// NewModeSummaries wraps results for serialization.
func NewModeSummaries(results []colony.Result) []ModeSummary {
	out := make([]ModeSummary, len(results))
	for i, r := range results {
		if r.Err != nil && r.Reason == "" {
			r.Reason = r.Err.Error()
		}
		out[i] = ModeSummary{Result: r, CountLabel: r.CountLabel()}
	}
	return out
}

// NewSummary stamps images with a fresh run ID and the current time.
func NewSummary(cfg config.Config, images []ImageSummary) Summary {
	return Summary{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
		Images:    images,
	}
}

// WriteSummaryJSON writes s as indented JSON.
func WriteSummaryJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}
