package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/ironsheep/colony-counter/internal/colony"
	"github.com/ironsheep/colony-counter/internal/config"
	"github.com/ironsheep/colony-counter/internal/imaging"
	"github.com/ironsheep/colony-counter/internal/logging"
	"github.com/ironsheep/colony-counter/internal/measure"
	"github.com/ironsheep/colony-counter/internal/report"
	"github.com/rs/zerolog"
)

// Artifact file names.
const (
	PanelFile     = "comparison.png"
	HistogramFile = "area-histogram.png"
)

// MaskFile returns the file name of the mask written for mode, e.g.
// "low-ecc-regions.png".
func MaskFile(mode colony.Mode) string {
	return mode.String() + "-regions.png"
}

// Analysis is everything computed for one image before anything is written.
type Analysis struct {
	Path      string
	Image     image.Image
	Gray      *imaging.GrayImage
	Threshold float64
	Labels    *measure.LabelMap
	Table     colony.DescriptorTable
	Results   map[colony.Mode]colony.Result
}

// Ordered returns the results in report order.
func (a *Analysis) Ordered() []colony.Result {
	return colony.Ordered(a.Results)
}

// ImageResult is the outcome of Run for one image. Err is set when the image
// could not be processed; the other fields then hold whatever was computed.
type ImageResult struct {
	Path      string
	OutputDir string
	Threshold float64
	Table     colony.DescriptorTable
	Results   []colony.Result
	Artifacts []string
	Err       error
}

// Summary converts r for the JSON run summary.
func (r *ImageResult) Summary() report.ImageSummary {
	s := report.ImageSummary{
		Path:      r.Path,
		OutputDir: r.OutputDir,
		Threshold: r.Threshold,
		Regions:   len(r.Table),
		Modes:     report.NewModeSummaries(r.Results),
		Artifacts: r.Artifacts,
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	return s
}

// Runner executes the pipeline with one configuration.
//
// Runner is safe for concurrent use; RunBatch relies on this.
type Runner struct {
	cfg   config.Config
	log   zerolog.Logger
	cache *imaging.ImageCache
}

// New creates a Runner. cfg must already be validated. A nil cache gets a
// private one.
func New(cfg config.Config, log zerolog.Logger, cache *imaging.ImageCache) *Runner {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	return &Runner{
		cfg:   cfg,
		log:   logging.Component(log, "pipeline"),
		cache: cache,
	}
}

// Config returns the runner configuration.
func (r *Runner) Config() config.Config {
	return r.cfg
}

// Analyze loads path and classifies its regions without writing anything.
//
// Returns an error when the image cannot be loaded, the threshold is invalid,
// extraction fails (colony.ErrShapeMismatch) or ctx is cancelled between
// stages. Per-mode classification failures are not errors; they appear as
// StatusNoData results.
func (r *Runner) Analyze(ctx context.Context, path string) (*Analysis, error) {
	log := r.log.With().Str("image", path).Logger()

	img, err := r.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gray := imaging.Grayscale(img)
	threshold := r.cfg.Threshold
	if r.cfg.AutoThreshold {
		threshold = imaging.OtsuThreshold(gray)
		log.Debug().Float64("threshold", threshold).Msg("automatic threshold selected")
	}
	mask, err := imaging.Binarize(gray, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	labels := measure.Label(mask)
	table, err := measure.Extract(labels, gray)
	if err != nil {
		return nil, fmt.Errorf("failed to extract regions: %w", err)
	}
	log.Debug().Int("regions", len(table)).Msg("regions extracted")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results, err := colony.Classify(table, r.cfg.Classifier())
	if err != nil {
		return nil, fmt.Errorf("failed to classify: %w", err)
	}
	for _, res := range colony.Ordered(results) {
		if !res.Defined() {
			log.Warn().Stringer("mode", res.Mode).Err(res.Err).Msg("mode has no data")
		}
	}

	return &Analysis{
		Path:      path,
		Image:     img,
		Gray:      gray,
		Threshold: threshold,
		Labels:    labels,
		Table:     table,
		Results:   results,
	}, nil
}

// Run analyzes path and writes its artifacts into outDir.
//
// The returned ImageResult is never nil; Err mirrors the returned error.
func (r *Runner) Run(ctx context.Context, path, outDir string) (*ImageResult, error) {
	res := &ImageResult{Path: path, OutputDir: outDir}
	fail := func(err error) (*ImageResult, error) {
		res.Err = err
		return res, err
	}

	a, err := r.Analyze(ctx, path)
	if err != nil {
		return fail(err)
	}
	res.Threshold = a.Threshold
	res.Table = a.Table
	res.Results = a.Ordered()

	masks := make(map[colony.Mode]image.Image, len(res.Results))
	for _, cr := range res.Results {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		masked, err := imaging.CompositeMask(a.Image, a.Labels, cr.Members)
		if err != nil {
			return fail(fmt.Errorf("failed to composite %s mask: %w", cr.Mode, err))
		}
		masks[cr.Mode] = masked

		file := filepath.Join(outDir, MaskFile(cr.Mode))
		if err := imaging.Save(file, masked); err != nil {
			return fail(err)
		}
		res.Artifacts = append(res.Artifacts, file)
	}

	if r.cfg.WritePanel {
		file := filepath.Join(outDir, PanelFile)
		panel := report.RenderPanel(a.Image, masks, res.Results, report.DefaultPanelCell)
		if err := imaging.Save(file, panel); err != nil {
			return fail(err)
		}
		res.Artifacts = append(res.Artifacts, file)
	}

	if r.cfg.WriteHistogram {
		file := filepath.Join(outDir, HistogramFile)
		err := report.PlotAreaHistogram(file, a.Table, r.cfg.EccentricityThreshold, res.Results)
		switch {
		case err == nil:
			res.Artifacts = append(res.Artifacts, file)
		case errors.Is(err, colony.ErrEmptyCandidateSet):
			r.log.Warn().Str("image", path).Msg("no low-eccentricity regions, histogram skipped")
		default:
			return fail(err)
		}
	}

	r.log.Info().
		Str("image", path).
		Int("regions", len(a.Table)).
		Int("artifacts", len(res.Artifacts)).
		Msg("image processed")
	return res, nil
}
