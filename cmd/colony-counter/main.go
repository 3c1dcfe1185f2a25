// Command colony-counter counts bacterial colonies on plate images.
//
// It has two modes: count processes images and writes mask images and
// reports, serve runs an MCP server over stdin/stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ironsheep/colony-counter/internal/colony"
	"github.com/ironsheep/colony-counter/internal/config"
	"github.com/ironsheep/colony-counter/internal/imaging"
	"github.com/ironsheep/colony-counter/internal/logging"
	"github.com/ironsheep/colony-counter/internal/pipeline"
	"github.com/ironsheep/colony-counter/internal/report"
	"github.com/ironsheep/colony-counter/internal/server"
	"github.com/rs/zerolog"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// SummaryFile is written into the output directory after a count.
const SummaryFile = "summary.json"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "colony-counter %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printUsage(stdout)
			return 0
		case "count":
			return runCount(ctx, args[1:], stdout, stderr)
		case "serve":
			return runServe(ctx, args[1:], stdin, stdout, stderr)
		}
	}
	// Bare invocation: colony-counter [flags] image... (counts).
	return runCount(ctx, args, stdout, stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "colony-counter - count colonies on plate images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  colony-counter count [options] IMAGE...")
	fmt.Fprintln(w, "  colony-counter IMAGE OUTPUT_DIR   (OUTPUT_DIR is created when missing)")
	fmt.Fprintln(w, "  colony-counter serve [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'colony-counter count -h' for count options.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  COLONY_LOG_LEVEL=debug    Log level (debug, info, warn, error)")
	fmt.Fprintln(w, "  COLONY_WORKERS=4          Images processed concurrently")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "serve communicates via MCP protocol over stdin/stdout.")
}

// commonFlags are shared by count and serve.
type commonFlags struct {
	configPath string
	logJSON    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "JSON configuration file")
	fs.BoolVar(&c.logJSON, "log-json", false, "Write logs as JSON instead of console text")
}

// countFlags mirror the configuration fields that can be set on the command line.
type countFlags struct {
	commonFlags
	output        string
	threshold     float64
	autoThreshold bool
	ecc           float64
	deviation     float64
	modes         string
	workers       int
	noPanel       bool
	noHistogram   bool
	quiet         bool
}

func newCountFlagSet(f *countFlags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f.register(fs)
	fs.StringVar(&f.output, "o", "", "Output directory (default \".\")")
	fs.Float64Var(&f.threshold, "threshold", config.DefaultThreshold, "Binarization threshold in (0, 1)")
	fs.BoolVar(&f.autoThreshold, "auto-threshold", false, "Choose the binarization threshold with Otsu's method")
	fs.Float64Var(&f.ecc, "ecc", colony.DefaultEccentricityThreshold, "Eccentricity threshold separating round and elongated regions")
	fs.Float64Var(&f.deviation, "k", colony.DefaultAreaDeviation, "Area band half-width in standard deviations")
	fs.StringVar(&f.modes, "modes", "", "Comma-separated modes: low-ecc,high-ecc,low-ecc-oob (default all)")
	fs.IntVar(&f.workers, "workers", 0, "Images processed concurrently (default number of CPUs)")
	fs.BoolVar(&f.noPanel, "no-panel", false, "Do not write the comparison panel")
	fs.BoolVar(&f.noHistogram, "no-histogram", false, "Do not write the area histogram")
	fs.BoolVar(&f.quiet, "q", false, "Print counts only, not the descriptor table")
	return fs
}

// apply copies the flags that were set explicitly onto cfg.
func (f *countFlags) apply(fs *flag.FlagSet, cfg *config.Config) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			cfg.OutputDir = f.output
		case "threshold":
			cfg.Threshold = f.threshold
		case "auto-threshold":
			cfg.AutoThreshold = f.autoThreshold
		case "ecc":
			cfg.EccentricityThreshold = f.ecc
		case "k":
			cfg.AreaDeviation = f.deviation
		case "modes":
			modes, perr := parseModes(f.modes)
			if perr != nil {
				err = perr
				return
			}
			cfg.Modes = modes
		case "workers":
			cfg.Workers = f.workers
		case "no-panel":
			cfg.WritePanel = !f.noPanel
		case "no-histogram":
			cfg.WriteHistogram = !f.noHistogram
		}
	})
	return err
}

func parseModes(s string) ([]colony.Mode, error) {
	var modes []colony.Mode
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := colony.ParseMode(part)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

func newLogger(cfg config.Config, jsonOutput bool, stderr io.Writer) zerolog.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return logging.New(stderr, level, jsonOutput)
}

func runCount(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var f countFlags
	fs := newCountFlagSet(&f, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	paths := fs.Args()
	// Two positional arguments without -o: IMAGE OUTPUT_DIR.
	var positionalOut string
	if len(paths) == 2 && f.output == "" && isDirTarget(paths[1]) {
		positionalOut = paths[1]
		paths = paths[:1]
	}
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "error: no input images")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(f.configPath, func(cfg *config.Config) error {
		if err := f.apply(fs, cfg); err != nil {
			return err
		}
		if positionalOut != "" {
			cfg.OutputDir = positionalOut
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	log := newLogger(cfg, f.logJSON, stderr)
	log.Debug().Str("version", Version).Int("images", len(paths)).Msg("starting count")

	runner := pipeline.New(cfg, log, nil)
	results, batchErr := runner.RunBatch(ctx, paths)

	code := 0
	images := make([]report.ImageSummary, 0, len(results))
	for _, res := range results {
		images = append(images, res.Summary())
		if res.Err != nil {
			log.Error().Str("image", res.Path).Err(res.Err).Msg("image failed")
			code = 1
			continue
		}
		if err := printResult(stdout, res, len(results) > 1, f.quiet); err != nil {
			log.Error().Err(err).Msg("failed to write report")
			code = 1
		}
	}

	if err := writeSummary(filepath.Join(cfg.OutputDir, SummaryFile), report.NewSummary(cfg, images)); err != nil {
		log.Error().Err(err).Msg("failed to write summary")
		code = 1
	}
	if batchErr != nil {
		log.Error().Err(batchErr).Msg("count interrupted")
		return 1
	}
	return code
}

// isDirTarget reports whether path names an output directory rather than an
// image: an existing directory, or a path that does not exist yet and has no
// image extension.
func isDirTarget(path string) bool {
	if info, err := os.Stat(path); err == nil {
		return info.IsDir()
	}
	return imaging.FormatFromPath(path) == "unknown"
}

func printResult(w io.Writer, res *pipeline.ImageResult, header, quiet bool) error {
	if header {
		if _, err := fmt.Fprintf(w, "== %s\n", res.Path); err != nil {
			return err
		}
	}
	if !quiet {
		if _, err := fmt.Fprintln(w, "Region properties:"); err != nil {
			return err
		}
		if err := report.WriteDescriptorTable(w, res.Table); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return report.WriteCounts(w, res.Results)
}

func writeSummary(path string, s report.Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}
	if err := report.WriteSummaryJSON(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runServe(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var f commonFlags
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	// Logging goes to stderr; stdout is for MCP protocol.
	log := newLogger(cfg, f.logJSON, stderr)
	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("colony-counter MCP server starting")

	srv := server.New(cfg, log, Version)
	if err := srv.Run(ctx, stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server error")
		return 1
	}
	return 0
}
