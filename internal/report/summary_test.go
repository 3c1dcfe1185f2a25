package report

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/ironsheep/colony-counter/internal/colony"
	"github.com/ironsheep/colony-counter/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSummaryJSON(t *testing.T) {
	results, err := colony.Classify(colony.DescriptorTable{{ID: 1}}, colony.DefaultConfig())
	require.NoError(t, err)

	images := []ImageSummary{{
		Path:      "plate.png",
		Threshold: 0.55,
		Regions:   1,
		Modes:     NewModeSummaries(colony.Ordered(results)),
	}}
	s := NewSummary(config.Default(), images)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryJSON(&buf, s))

	var decoded struct {
		RunID  string `json:"run_id"`
		Config struct {
			Modes []string `json:"modes"`
		} `json:"config"`
		Images []struct {
			Path  string `json:"path"`
			Modes []struct {
				Mode       string `json:"mode"`
				Status     string `json:"status"`
				CountLabel string `json:"count_label"`
				Reason     string `json:"reason"`
			} `json:"modes"`
		} `json:"images"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	_, err = uuid.Parse(decoded.RunID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"low-ecc", "high-ecc", "low-ecc-oob"}, decoded.Config.Modes)

	require.Len(t, decoded.Images, 1)
	require.Len(t, decoded.Images[0].Modes, 3)
	for _, m := range decoded.Images[0].Modes {
		assert.Equal(t, "no-data", m.Status)
		assert.Equal(t, "undefined (insufficient data)", m.CountLabel)
		assert.NotEmpty(t, m.Reason)
	}
}

func TestNewSummary_UniqueRunIDs(t *testing.T) {
	a := NewSummary(config.Default(), nil)
	b := NewSummary(config.Default(), nil)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestPlotAreaHistogram(t *testing.T) {
	table := colony.DescriptorTable{
		{ID: 1, Area: 5000},
		{ID: 2, Area: 90, Eccentricity: 0.3},
		{ID: 3, Area: 100, Eccentricity: 0.2},
		{ID: 4, Area: 104, Eccentricity: 0.1},
		{ID: 5, Area: 180, Eccentricity: 0.5},
		{ID: 6, Area: 400, Eccentricity: 0.9},
	}
	results, err := colony.Classify(table, colony.DefaultConfig())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "area-histogram.png")
	require.NoError(t, PlotAreaHistogram(path, table, 0.625, colony.Ordered(results)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}
