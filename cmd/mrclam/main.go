// Command mrclam extracts an MRCLAM multi-robot dataset directory, reports
// every file that failed to load, and optionally writes a summary and
// trajectory plots.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/mrclam/internal/config"
	"github.com/banshee-data/mrclam/internal/dataset"
	"github.com/banshee-data/mrclam/internal/fsutil"
	"github.com/banshee-data/mrclam/internal/report"
	"github.com/banshee-data/mrclam/internal/security"
	"github.com/banshee-data/mrclam/internal/summary"
	"github.com/banshee-data/mrclam/internal/version"
)

// Config holds the command-line options.
type Config struct {
	DatasetDir       string
	ConfigFile       string
	ValidateSubjects bool
	Tolerance        float64
	Summary          bool
	SummaryJSON      string
	PlotFile         string
	HTMLFile         string
	MaxPoints        int
	ShowVersion      bool

	// set records which flags were given explicitly.
	set map[string]bool
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{set: make(map[string]bool)}

	fs.StringVar(&cfg.DatasetDir, "dataset", "", "Path to the dataset directory (required)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "JSON or YAML file overriding the built-in extraction defaults")
	fs.BoolVar(&cfg.ValidateSubjects, "validate-subjects", false, "Reject measurements whose subject is not in the barcode table")
	fs.Float64Var(&cfg.Tolerance, "tolerance", dataset.DefaultMergeTolerance, "Measurement merge tolerance in seconds")
	fs.BoolVar(&cfg.Summary, "summary", false, "Print per-robot stream statistics")
	fs.StringVar(&cfg.SummaryJSON, "summary-json", "", "Write per-robot stream statistics as JSON to this file")
	fs.StringVar(&cfg.PlotFile, "plot", "", "Write a PNG trajectory plot to this file")
	fs.StringVar(&cfg.HTMLFile, "html", "", "Write an interactive HTML trajectory chart to this file")
	fs.IntVar(&cfg.MaxPoints, "max-points", report.DefaultMaxPoints, "Maximum groundtruth samples drawn per robot")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg, nil
}

// extractConfig layers the -config file and explicit flags over the
// built-in defaults.
func (c Config) extractConfig() (*config.ExtractConfig, error) {
	cfg := config.DefaultExtractConfig()
	if c.ConfigFile != "" {
		override, err := config.LoadExtractConfig(c.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(override)
	}

	flags := config.EmptyExtractConfig()
	if c.set["validate-subjects"] {
		flags.ValidateSubjects = &c.ValidateSubjects
	}
	if c.set["tolerance"] {
		flags.MergeToleranceSeconds = &c.Tolerance
	}
	cfg = cfg.Merge(flags)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// validateOutputs checks every requested output file against its expected
// extension and the allowed output directories.
func (c Config) validateOutputs(allowedDirs []string) error {
	outputs := []struct{ path, ext string }{
		{c.SummaryJSON, ".json"},
		{c.PlotFile, ".png"},
		{c.HTMLFile, ".html"},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := security.ValidateOutputPath(o.path, o.ext, allowedDirs); err != nil {
			return err
		}
	}
	return nil
}

func run(c Config, fsys fsutil.FileSystem, stdout io.Writer) error {
	if c.DatasetDir == "" {
		return errors.New("-dataset is required")
	}
	cfg, err := c.extractConfig()
	if err != nil {
		return err
	}

	ds, err := dataset.NewExtractor(dataset.ExtractorConfig{Extract: cfg, FS: fsys}).Extract(c.DatasetDir)
	if err != nil {
		return err
	}

	if c.Summary || c.SummaryJSON != "" {
		s, err := summary.Compute(ds)
		if err != nil {
			return err
		}
		if c.Summary {
			if err := s.Print(stdout); err != nil {
				return fmt.Errorf("print summary: %w", err)
			}
		}
		if c.SummaryJSON != "" {
			if err := s.WriteJSON(fsys, c.SummaryJSON); err != nil {
				return err
			}
			log.Printf("wrote summary to %s", c.SummaryJSON)
		}
	}

	opts := report.Options{MaxPoints: c.MaxPoints}
	if c.PlotFile != "" {
		if err := report.WritePNG(fsys, c.PlotFile, ds, opts); err != nil {
			return err
		}
		log.Printf("wrote trajectory plot to %s", c.PlotFile)
	}
	if c.HTMLFile != "" {
		if err := report.WriteHTML(fsys, c.HTMLFile, ds, opts); err != nil {
			return err
		}
		log.Printf("wrote trajectory chart to %s", c.HTMLFile)
	}
	return nil
}

// printFailures lists every failed step of an extraction error.
func printFailures(w io.Writer, err error) {
	failures := dataset.Failures(err)
	if len(failures) == 0 {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	var ee *dataset.ExtractionError
	if errors.As(err, &ee) {
		fmt.Fprintf(w, "extraction of %s failed (run %s): %d of %d steps\n",
			ee.Path, ee.RunID, len(failures), ee.Steps)
	}
	for _, f := range failures {
		fmt.Fprintf(w, "  %v\n", f)
	}
}

func main() {
	c, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	if c.ShowVersion {
		fmt.Println(version.String("mrclam"))
		return
	}

	allowed, err := security.DefaultOutputDirs(c.DatasetDir)
	if err != nil {
		log.Fatalf("Failed to resolve output directories: %v", err)
	}
	if err := c.validateOutputs(allowed); err != nil {
		log.Fatalf("Invalid output path: %v", err)
	}

	if err := run(c, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		printFailures(os.Stderr, err)
		os.Exit(1)
	}
}
