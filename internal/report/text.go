package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ironsheep/colony-counter/internal/colony"
)

// WriteDescriptorTable writes table as aligned columns headed by the field
// names, preceded by a position column.
func WriteDescriptorTable(w io.Writer, table colony.DescriptorTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fields := colony.Fields()
	header := make([]string, 0, len(fields)+2)
	header = append(header, "", "label")
	for _, f := range fields {
		header = append(header, string(f))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for p, r := range table {
		row := make([]string, 0, len(header))
		row = append(row, fmt.Sprint(p), fmt.Sprint(r.ID))
		for _, f := range fields {
			v, _ := r.Value(f)
			row = append(row, formatValue(f, v))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write descriptor table: %w", err)
	}
	return nil
}

func formatValue(f colony.Field, v float64) string {
	switch f {
	case colony.FieldArea, colony.FieldConvexArea, colony.FieldBBoxArea:
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.6f", v)
}

// countOrder is the order in which counts are reported.
var countOrder = []colony.Mode{
	colony.ModeLowEccInRange,
	colony.ModeLowEccOutOfRange,
	colony.ModeHighEcc,
}

// regionNoun names the regions a mode selects.
func regionNoun(m colony.Mode) string {
	switch m {
	case colony.ModeLowEccInRange:
		return "low-ecc. regions"
	case colony.ModeHighEcc:
		return "high-ecc. regions"
	case colony.ModeLowEccOutOfRange:
		return "low-ecc. regions outside size range"
	}
	return m.String() + " regions"
}

// Caption returns the display title of a mode result, e.g.
// "Low-ecc. regions: 12".
func Caption(r colony.Result) string {
	noun := regionNoun(r.Mode)
	return strings.ToUpper(noun[:1]) + noun[1:] + ": " + r.CountLabel()
}

// WriteCounts writes one line per result present in results, in report order:
//
//	Detected 12 low-ecc. regions.
//	Detected 1 low-ecc. regions outside size range.
//	Detected 3 high-ecc. regions.
func WriteCounts(w io.Writer, results []colony.Result) error {
	byMode := make(map[colony.Mode]colony.Result, len(results))
	for _, r := range results {
		byMode[r.Mode] = r
	}
	for _, m := range countOrder {
		r, ok := byMode[m]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "Detected %s %s.\n", r.CountLabel(), regionNoun(m)); err != nil {
			return fmt.Errorf("failed to write counts: %w", err)
		}
	}
	return nil
}
