package colony

import (
	"fmt"
	"strings"
)

// Mode selects one classification rule.
type Mode int

const (
	// ModeLowEccInRange selects round regions whose area is inside the band.
	ModeLowEccInRange Mode = iota

	// ModeHighEcc selects elongated regions regardless of area.
	ModeHighEcc

	// ModeLowEccOutOfRange selects round regions whose area is outside the band.
	ModeLowEccOutOfRange
)

// AllModes returns every mode in report order.
func AllModes() []Mode {
	return []Mode{ModeLowEccInRange, ModeHighEcc, ModeLowEccOutOfRange}
}

// String returns the short mode name used in file names and configuration.
func (m Mode) String() string {
	switch m {
	case ModeLowEccInRange:
		return "low-ecc"
	case ModeHighEcc:
		return "high-ecc"
	case ModeLowEccOutOfRange:
		return "low-ecc-oob"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Description names the class of regions the mode selects.
func (m Mode) Description() string {
	switch m {
	case ModeLowEccInRange:
		return "clear singular colonies"
	case ModeHighEcc:
		return "ambiguous or overlapping clusters"
	case ModeLowEccOutOfRange:
		return "size outliers or noise"
	}
	return "unknown"
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= ModeLowEccInRange && m <= ModeLowEccOutOfRange
}

// usesBand reports whether the mode filters candidates by the area band.
func (m Mode) usesBand() bool {
	return m == ModeLowEccInRange || m == ModeLowEccOutOfRange
}

// ParseMode converts a mode name ("low-ecc", "high-ecc", "low-ecc-oob") to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range AllModes() {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Status tells whether a Result is backed by data.
type Status int

const (
	// StatusOK means the mode ran over a non-empty candidate set.
	StatusOK Status = iota

	// StatusNoData means the mode had no candidates and its count is undefined.
	StatusNoData
)

func (s Status) String() string {
	if s == StatusNoData {
		return "no-data"
	}
	return "ok"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
