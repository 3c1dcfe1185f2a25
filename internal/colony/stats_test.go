package colony

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func areaTable(areas ...int) DescriptorTable {
	t := make(DescriptorTable, len(areas))
	for i, a := range areas {
		t[i] = Region{ID: i + 1, Area: a, Eccentricity: 0.1}
	}
	return t
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name       string
		areas      []int
		candidates []int
		wantMean   float64
		wantStd    float64
	}{
		{"two values", []int{0, 100, 110}, []int{1, 2}, 105, 5},
		{"single value", []int{0, 42}, []int{1}, 42, 0},
		{"identical values", []int{0, 7, 7, 7}, []int{1, 2, 3}, 7, 0},
		{"population stddev", []int{0, 2, 4, 4, 4, 5, 5, 7, 9}, []int{1, 2, 3, 4, 5, 6, 7, 8}, 5, 2},
		{"subset only", []int{1000, 10, 20, 5000}, []int{1, 2}, 15, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ComputeStats(areaTable(tt.areas...), tt.candidates, FieldArea)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantMean, s.Mean, 1e-9)
			assert.InDelta(t, tt.wantStd, s.StdDev, 1e-9)
			assert.Equal(t, len(tt.candidates), s.N)
			assert.Equal(t, FieldArea, s.Field)
		})
	}
}

func TestComputeStats_EmptyCandidates(t *testing.T) {
	s, err := ComputeStats(areaTable(0, 1, 2), nil, FieldArea)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyCandidateSet))
	assert.False(t, math.IsNaN(s.Mean), "empty stats must not carry NaN")
}

func TestComputeStats_UnknownField(t *testing.T) {
	_, err := ComputeStats(areaTable(0, 1, 2), []int{1}, Field("perimeter"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestComputeStats_PositionOutOfRange(t *testing.T) {
	_, err := ComputeStats(areaTable(0, 1), []int{1, 5}, FieldArea)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyCandidateSet))
}

func TestComputeStats_OtherFields(t *testing.T) {
	table := DescriptorTable{
		{ID: 1},
		{ID: 2, Solidity: 0.8, Eccentricity: 0.2, MeanIntensity: 0.6},
		{ID: 3, Solidity: 1.0, Eccentricity: 0.4, MeanIntensity: 0.8},
	}

	s, err := ComputeStats(table, []int{1, 2}, FieldSolidity)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, s.Mean, 1e-12)
	assert.InDelta(t, 0.1, s.StdDev, 1e-12)

	s, err = ComputeStats(table, []int{1, 2}, FieldMeanIntensity)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, s.Mean, 1e-12)
}

func TestBand(t *testing.T) {
	b := NewBand(PopulationStats{Mean: 105, StdDev: 5}, 1.5)
	assert.Equal(t, 97.5, b.Lower)
	assert.Equal(t, 112.5, b.Upper)

	for _, v := range []float64{97.5, 100, 112.5} {
		assert.True(t, b.Contains(v), "%v should be inside", v)
		assert.False(t, b.Excludes(v), "%v should not be outside", v)
	}
	for _, v := range []float64{97.4, 112.6, 0, 1e6} {
		assert.False(t, b.Contains(v), "%v should not be inside", v)
		assert.True(t, b.Excludes(v), "%v should be outside", v)
	}
}

func TestBand_ZeroStdDev(t *testing.T) {
	b := NewBand(PopulationStats{Mean: 50, StdDev: 0}, 1.5)
	assert.True(t, b.Contains(50))
	assert.True(t, b.Excludes(49))
	assert.True(t, b.Excludes(51))
}
