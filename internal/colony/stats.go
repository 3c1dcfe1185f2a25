package colony

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// PopulationStats holds the mean and population standard deviation of one
// descriptor field over a candidate set.
//
// The values are derived per classification pass and never persisted. A new
// candidate set needs a new PopulationStats.
type PopulationStats struct {
	Field  Field   `json:"field"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	N      int     `json:"n"`
}

// ComputeStats computes mean and standard deviation (ddof = 0) of field over
// the regions at the candidate positions.
//
// Parameters:
//   - table: The descriptor table to read from.
//   - candidates: Table positions to include. Duplicates are counted twice.
//   - field: The descriptor to aggregate.
//
// Returns:
//   - PopulationStats: Mean, StdDev and N for the candidate values.
//   - error: ErrEmptyCandidateSet when candidates is empty, ErrInvalidConfig
//     for an unknown field, or a plain error for a position outside the table.
//
// An empty candidate set is an error rather than a NaN mean so that
// downstream band comparisons never see NaN.
func ComputeStats(table DescriptorTable, candidates []int, field Field) (PopulationStats, error) {
	if len(candidates) == 0 {
		return PopulationStats{}, fmt.Errorf("%w: no values for %s", ErrEmptyCandidateSet, field)
	}

	values := make([]float64, len(candidates))
	for i, pos := range candidates {
		v, err := table.value(pos, field)
		if err != nil {
			return PopulationStats{}, err
		}
		values[i] = v
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	return PopulationStats{
		Field:  field,
		Mean:   mean,
		StdDev: std,
		N:      len(values),
	}, nil
}

// Band is the closed interval [Lower, Upper] around a population mean.
type Band struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NewBand returns mean ± k·stddev.
func NewBand(s PopulationStats, k float64) Band {
	return Band{
		Lower: s.Mean - k*s.StdDev,
		Upper: s.Mean + k*s.StdDev,
	}
}

// Contains reports whether v lies inside the band, bounds included.
func (b Band) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Excludes reports whether v lies strictly outside the band on either side.
func (b Band) Excludes(v float64) bool {
	return v > b.Upper || v < b.Lower
}
