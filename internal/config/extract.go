package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical extraction defaults file.
const DefaultConfigPath = "config/extract.defaults.json"

// ExtractConfig holds the knobs for a dataset extraction run.
// Every field is optional; the Get* methods supply the MRCLAM defaults for
// anything left unset, so partial JSON files are safe.
type ExtractConfig struct {
	// Table capacities
	TotalBarcodes  *int `json:"total_barcodes,omitempty" yaml:"total_barcodes,omitempty"`
	TotalLandmarks *int `json:"total_landmarks,omitempty" yaml:"total_landmarks,omitempty"`
	TotalRobots    *int `json:"total_robots,omitempty" yaml:"total_robots,omitempty"`

	// Measurement epoch merging
	MergeToleranceSeconds *float64 `json:"merge_tolerance_seconds,omitempty" yaml:"merge_tolerance_seconds,omitempty"`
	ValidateSubjects      *bool    `json:"validate_subjects,omitempty" yaml:"validate_subjects,omitempty"`

	// Reserved for resampling; carried through to the Dataset but unused.
	SamplePeriodSeconds *float64 `json:"sample_period_seconds,omitempty" yaml:"sample_period_seconds,omitempty"`

	// Shared table file names, relative to the dataset directory
	BarcodesFile  *string `json:"barcodes_file,omitempty" yaml:"barcodes_file,omitempty"`
	LandmarksFile *string `json:"landmarks_file,omitempty" yaml:"landmarks_file,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyExtractConfig returns an ExtractConfig with all fields set to nil.
func EmptyExtractConfig() *ExtractConfig {
	return &ExtractConfig{}
}

// DefaultExtractConfig returns a config with every field populated with the
// values used by the published MRCLAM datasets.
func DefaultExtractConfig() *ExtractConfig {
	return &ExtractConfig{
		TotalBarcodes:         ptrInt(20),
		TotalLandmarks:        ptrInt(15),
		TotalRobots:           ptrInt(5),
		MergeToleranceSeconds: ptrFloat64(0.05),
		ValidateSubjects:      ptrBool(false),
		SamplePeriodSeconds:   ptrFloat64(0.02),
		BarcodesFile:          ptrString("Barcodes.dat"),
		LandmarksFile:         ptrString("Landmark_Groundtruth.dat"),
	}
}

// LoadExtractConfig loads an ExtractConfig from a JSON or YAML file.
// The file must have a .json, .yaml or .yml extension and be under 1MB.
func LoadExtractConfig(path string) (*ExtractConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyExtractConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents up to the repo root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *ExtractConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadExtractConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Merge returns a copy of c with every field set in override taking precedence.
func (c *ExtractConfig) Merge(override *ExtractConfig) *ExtractConfig {
	out := *c
	if override == nil {
		return &out
	}
	if override.TotalBarcodes != nil {
		out.TotalBarcodes = override.TotalBarcodes
	}
	if override.TotalLandmarks != nil {
		out.TotalLandmarks = override.TotalLandmarks
	}
	if override.TotalRobots != nil {
		out.TotalRobots = override.TotalRobots
	}
	if override.MergeToleranceSeconds != nil {
		out.MergeToleranceSeconds = override.MergeToleranceSeconds
	}
	if override.ValidateSubjects != nil {
		out.ValidateSubjects = override.ValidateSubjects
	}
	if override.SamplePeriodSeconds != nil {
		out.SamplePeriodSeconds = override.SamplePeriodSeconds
	}
	if override.BarcodesFile != nil {
		out.BarcodesFile = override.BarcodesFile
	}
	if override.LandmarksFile != nil {
		out.LandmarksFile = override.LandmarksFile
	}
	return &out
}

// Validate checks that the configuration values are valid.
func (c *ExtractConfig) Validate() error {
	if c.TotalBarcodes != nil && *c.TotalBarcodes <= 0 {
		return fmt.Errorf("total_barcodes must be positive, got %d", *c.TotalBarcodes)
	}
	if c.TotalLandmarks != nil && *c.TotalLandmarks <= 0 {
		return fmt.Errorf("total_landmarks must be positive, got %d", *c.TotalLandmarks)
	}
	if c.TotalRobots != nil && *c.TotalRobots <= 0 {
		return fmt.Errorf("total_robots must be positive, got %d", *c.TotalRobots)
	}
	if c.MergeToleranceSeconds != nil && *c.MergeToleranceSeconds < 0 {
		return fmt.Errorf("merge_tolerance_seconds must be non-negative, got %f", *c.MergeToleranceSeconds)
	}
	if c.SamplePeriodSeconds != nil && *c.SamplePeriodSeconds <= 0 {
		return fmt.Errorf("sample_period_seconds must be positive, got %f", *c.SamplePeriodSeconds)
	}
	if c.BarcodesFile != nil && *c.BarcodesFile == "" {
		return fmt.Errorf("barcodes_file must not be empty")
	}
	if c.LandmarksFile != nil && *c.LandmarksFile == "" {
		return fmt.Errorf("landmarks_file must not be empty")
	}
	return nil
}

// GetTotalBarcodes returns the total_barcodes value or the default.
func (c *ExtractConfig) GetTotalBarcodes() int {
	if c.TotalBarcodes == nil {
		return 20
	}
	return *c.TotalBarcodes
}

// GetTotalLandmarks returns the total_landmarks value or the default.
func (c *ExtractConfig) GetTotalLandmarks() int {
	if c.TotalLandmarks == nil {
		return 15
	}
	return *c.TotalLandmarks
}

// GetTotalRobots returns the total_robots value or the default.
func (c *ExtractConfig) GetTotalRobots() int {
	if c.TotalRobots == nil {
		return 5
	}
	return *c.TotalRobots
}

// GetMergeToleranceSeconds returns the merge_tolerance_seconds value or the default.
func (c *ExtractConfig) GetMergeToleranceSeconds() float64 {
	if c.MergeToleranceSeconds == nil {
		return 0.05
	}
	return *c.MergeToleranceSeconds
}

// GetValidateSubjects returns the validate_subjects value or the default.
func (c *ExtractConfig) GetValidateSubjects() bool {
	if c.ValidateSubjects == nil {
		return false
	}
	return *c.ValidateSubjects
}

// GetSamplePeriodSeconds returns the sample_period_seconds value or the default.
func (c *ExtractConfig) GetSamplePeriodSeconds() float64 {
	if c.SamplePeriodSeconds == nil {
		return 0.02
	}
	return *c.SamplePeriodSeconds
}

// GetBarcodesFile returns the barcodes_file value or the default.
func (c *ExtractConfig) GetBarcodesFile() string {
	if c.BarcodesFile == nil {
		return "Barcodes.dat"
	}
	return *c.BarcodesFile
}

// GetLandmarksFile returns the landmarks_file value or the default.
func (c *ExtractConfig) GetLandmarksFile() string {
	if c.LandmarksFile == nil {
		return "Landmark_Groundtruth.dat"
	}
	return *c.LandmarksFile
}
