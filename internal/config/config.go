package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/izvod-dev/izvod/internal/model"
)

// FileName is the conventional name of the configuration file.
const FileName = "izvod.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IZVOD_"

// Config represents the top-level izvod.yaml configuration.
type Config struct {
	Paths  PathsConfig         `yaml:"paths"`
	Scan   ScanConfig          `yaml:"scan"`
	Log    LogConfig           `yaml:"log"`
	Export ExportConfig        `yaml:"export"`
	Banks  map[string][]string `yaml:"banks,omitempty"`
}

// PathsConfig locates the inbox and the directories the pipeline writes to.
type PathsConfig struct {
	Input     string `yaml:"input"`
	Processed string `yaml:"processed"`
	Output    string `yaml:"output"`
	Log       string `yaml:"log"`
}

// ScanConfig controls ingest passes.
type ScanConfig struct {
	Interval time.Duration `yaml:"interval"`
	Workers  int           `yaml:"workers"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ExportConfig controls 1C export after each successful parse.
type ExportConfig struct {
	Auto     bool   `yaml:"auto"`
	Encoding string `yaml:"encoding"` // "UTF-8" or "Windows"
}

// Load reads an izvod.yaml file from disk. Keys missing from the file keep
// their defaults and relative paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Resolve(filepath.Dir(path))
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new inbox.
func Default() *Config {
	banks := make(map[string][]string)
	for _, b := range model.Banks() {
		banks[b.Code] = b.Extensions()
	}
	return &Config{
		Paths: PathsConfig{
			Input:     "inbox",
			Processed: "processed",
			Output:    "output",
			Log:       "logs",
		},
		Scan: ScanConfig{
			Interval: time.Minute,
			Workers:  4,
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Encoding: "UTF-8",
		},
		Banks: banks,
	}
}

// Resolve makes relative paths absolute against base.
func (c *Config) Resolve(base string) {
	for _, p := range []*string{&c.Paths.Input, &c.Paths.Processed, &c.Paths.Output, &c.Paths.Log} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Extensions returns the file extensions accepted for a bank code.
func (c *Config) Extensions(code string) []string {
	if exts, ok := c.Banks[code]; ok {
		return exts
	}
	for _, b := range model.Banks() {
		if b.Code == code {
			return b.Extensions()
		}
	}
	return nil
}

// LoadDotEnv loads variables from a .env file into the process environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from IZVOD_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"INPUT_DIR":       &c.Paths.Input,
		"PROCESSED_DIR":   &c.Paths.Processed,
		"OUTPUT_DIR":      &c.Paths.Output,
		"LOG_DIR":         &c.Paths.Log,
		"LOG_LEVEL":       &c.Log.Level,
		"EXPORT_ENCODING": &c.Export.Encoding,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "SCAN_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSCAN_INTERVAL: %w", EnvPrefix, err)
		}
		c.Scan.Interval = d
	}
	if v, ok := lookup(EnvPrefix + "SCAN_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sSCAN_WORKERS: %w", EnvPrefix, err)
		}
		c.Scan.Workers = n
	}
	if v, ok := lookup(EnvPrefix + "EXPORT_AUTO"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sEXPORT_AUTO: %w", EnvPrefix, err)
		}
		c.Export.Auto = b
	}
	return nil
}

// Validate reports settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return errors.New("paths.input is required")
	}
	if c.Paths.Processed == "" || c.Paths.Output == "" {
		return errors.New("paths.processed and paths.output are required")
	}
	if c.Scan.Interval <= 0 {
		return fmt.Errorf("scan.interval must be positive, got %s", c.Scan.Interval)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	switch c.Export.Encoding {
	case "", "UTF-8", "Windows":
	default:
		return fmt.Errorf("export.encoding must be UTF-8 or Windows, got %q", c.Export.Encoding)
	}
	return nil
}
