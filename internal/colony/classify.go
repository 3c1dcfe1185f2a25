package colony

import (
	"fmt"
	"math"
	"strconv"
)

// Default classifier parameters.
const (
	DefaultEccentricityThreshold = 0.625
	DefaultAreaDeviation         = 1.5
)

// Config holds the classifier parameters.
type Config struct {
	// EccentricityThreshold splits round from elongated regions. Regions at
	// exactly the threshold count as elongated.
	EccentricityThreshold float64 `json:"eccentricity_threshold"`

	// AreaDeviation is the multiplier k of the area band mean ± k·stddev.
	AreaDeviation float64 `json:"area_deviation"`

	// Modes lists the modes Classify runs. Empty means AllModes.
	Modes []Mode `json:"modes,omitempty"`
}

// DefaultConfig returns the classifier defaults with every mode enabled.
func DefaultConfig() Config {
	return Config{
		EccentricityThreshold: DefaultEccentricityThreshold,
		AreaDeviation:         DefaultAreaDeviation,
		Modes:                 AllModes(),
	}
}

// Validate checks every parameter and returns an ErrInvalidConfig wrap on failure.
func (c Config) Validate() error {
	t := c.EccentricityThreshold
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("%w: eccentricity threshold %v outside [0, 1]", ErrInvalidConfig, t)
	}
	k := c.AreaDeviation
	if math.IsNaN(k) || math.IsInf(k, 0) || k < 0 {
		return fmt.Errorf("%w: area deviation %v must be a finite non-negative number", ErrInvalidConfig, k)
	}
	seen := make(map[Mode]bool, len(c.Modes))
	for _, m := range c.Modes {
		if !m.Valid() {
			return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, int(m))
		}
		if seen[m] {
			return fmt.Errorf("%w: mode %s listed twice", ErrInvalidConfig, m)
		}
		seen[m] = true
	}
	return nil
}

// modes returns the configured modes, defaulting to AllModes.
func (c Config) modes() []Mode {
	if len(c.Modes) == 0 {
		return AllModes()
	}
	return c.Modes
}

// Result is the outcome of one classification mode.
type Result struct {
	Mode   Mode   `json:"mode"`
	Status Status `json:"status"`

	// Count is len(Members). It is zero, and meaningless, for StatusNoData.
	Count int `json:"count"`

	// Members are table positions in ascending order. Never contains
	// ReservedPosition.
	Members []int `json:"members"`

	// Stats and Band are set for band modes that had candidates.
	Stats *PopulationStats `json:"stats,omitempty"`
	Band  *Band            `json:"band,omitempty"`

	// Err is the reason for StatusNoData.
	Err error `json:"-"`

	// Reason is Err rendered for serialization.
	Reason string `json:"reason,omitempty"`
}

// Defined reports whether the count is backed by data.
func (r Result) Defined() bool {
	return r.Status == StatusOK
}

// CountLabel renders the count for display, marking no-data results explicitly
// so they cannot be mistaken for "zero colonies found".
func (r Result) CountLabel() string {
	if !r.Defined() {
		return "undefined (insufficient data)"
	}
	return strconv.Itoa(r.Count)
}

// Split is the primary eccentricity split of a table. Every position other
// than ReservedPosition is in exactly one of Low and High.
type Split struct {
	Threshold float64
	Low       []int // eccentricity < Threshold
	High      []int // eccentricity >= Threshold
}

// SplitByEccentricity partitions the non-reserved positions of table at threshold.
// Ties go to High.
func SplitByEccentricity(table DescriptorTable, threshold float64) Split {
	s := Split{Threshold: threshold}
	for _, pos := range table.Positions() {
		if table[pos].Eccentricity < threshold {
			s.Low = append(s.Low, pos)
		} else {
			s.High = append(s.High, pos)
		}
	}
	return s
}

// pass shares the candidate split and the area statistics between the modes
// of one classification run, so both band modes see the same mean and stddev.
type pass struct {
	table DescriptorTable
	cfg   Config
	split Split

	statsDone bool
	stats     PopulationStats
	statsErr  error
}

func newPass(table DescriptorTable, cfg Config) *pass {
	return &pass{
		table: table,
		cfg:   cfg,
		split: SplitByEccentricity(table, cfg.EccentricityThreshold),
	}
}

func (p *pass) areaStats() (PopulationStats, error) {
	if !p.statsDone {
		p.stats, p.statsErr = ComputeStats(p.table, p.split.Low, FieldArea)
		p.statsDone = true
	}
	return p.stats, p.statsErr
}

func (p *pass) run(mode Mode) (Result, error) {
	if mode == ModeHighEcc {
		if len(p.split.High) == 0 {
			err := fmt.Errorf("%w: no regions with eccentricity >= %v", ErrEmptyCandidateSet, p.split.Threshold)
			return noData(mode, err), err
		}
		return members(mode, p.split.High), nil
	}

	if !mode.usesBand() {
		err := fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, int(mode))
		return noData(mode, err), err
	}

	stats, err := p.areaStats()
	if err != nil {
		err = fmt.Errorf("%s: %w", mode, err)
		return noData(mode, err), err
	}
	band := NewBand(stats, p.cfg.AreaDeviation)

	keep := band.Contains
	if mode == ModeLowEccOutOfRange {
		keep = band.Excludes
	}

	selected := make([]int, 0, len(p.split.Low))
	for _, pos := range p.split.Low {
		if keep(float64(p.table[pos].Area)) {
			selected = append(selected, pos)
		}
	}

	r := members(mode, selected)
	r.Stats = &stats
	r.Band = &band
	return r, nil
}

func members(mode Mode, positions []int) Result {
	m := make([]int, len(positions))
	copy(m, positions)
	return Result{
		Mode:    mode,
		Status:  StatusOK,
		Count:   len(m),
		Members: m,
	}
}

func noData(mode Mode, err error) Result {
	return Result{
		Mode:    mode,
		Status:  StatusNoData,
		Members: []int{},
		Err:     err,
		Reason:  err.Error(),
	}
}

// ClassifyMode runs a single mode over table.
//
// Returns:
//   - Result: The mode's members. On error the Result has StatusNoData.
//   - error: ErrInvalidConfig for a bad config, ErrEmptyCandidateSet when the
//     mode has no candidates.
func ClassifyMode(table DescriptorTable, cfg Config, mode Mode) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return noData(mode, err), err
	}
	return newPass(table, cfg).run(mode)
}

// Classify runs every configured mode over table and returns one Result per mode.
//
// Only an invalid configuration fails the whole call. A mode without
// candidates is reported with StatusNoData and its error in Result.Err; the
// other modes still complete.
func Classify(table DescriptorTable, cfg Config) (map[Mode]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := newPass(table, cfg)
	results := make(map[Mode]Result, len(cfg.modes()))
	for _, mode := range cfg.modes() {
		r, _ := p.run(mode)
		results[mode] = r
	}
	return results, nil
}

// Ordered returns the results in AllModes order, skipping modes not present.
func Ordered(results map[Mode]Result) []Result {
	out := make([]Result, 0, len(results))
	for _, m := range AllModes() {
		if r, ok := results[m]; ok {
			out = append(out, r)
		}
	}
	return out
}
