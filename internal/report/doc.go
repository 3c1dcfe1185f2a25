// Package report renders the results of a colony count for people and tools.
//
// # Text
//
// WriteDescriptorTable prints every measured region, one row per table
// position. WriteCounts prints one "Detected N ..." line per classified mode;
// modes without data print an explicit undefined marker instead of a count.
//
// # JSON
//
// NewSummary and WriteSummaryJSON produce a machine-readable run summary keyed
// by a random run ID.
//
// # Images
//
// RenderPanel composes the original image and the three class masks into a
// captioned 2x2 comparison panel. PlotAreaHistogram plots the area
// distribution of the low-eccentricity candidates with the size band marked.
package report
