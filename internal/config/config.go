// Package config resolves the runtime configuration of the kraftver command
// from a YAML file, an optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kostich/kraftver/internal/archive"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	ConfigFileName = "kraftver.yaml"
	EnvFileName    = ".env"
)

// Environment keys that override the file.
const (
	EnvExtractor        = "KRAFTVER_EXTRACTOR"
	EnvExtractorTimeout = "KRAFTVER_EXTRACTOR_TIMEOUT"
	EnvWorkRoot         = "KRAFTVER_WORK_ROOT"
	EnvKeepWorkDir      = "KRAFTVER_KEEP_WORK_DIR"
)

type ExtractorConfig struct {
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config is the resolved runtime configuration. It is computed once and
// passed by value; nothing mutates it after Resolve returns.
type Config struct {
	Extractor   ExtractorConfig `yaml:"extractor"`
	WorkRoot    string          `yaml:"work_root"`
	KeepWorkDir bool            `yaml:"keep_work_dir"`
	Concurrency int             `yaml:"concurrency"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Extractor: ExtractorConfig{
			Command: archive.DefaultCommand,
			Args:    archive.DefaultArgs(),
			Timeout: 30 * time.Second,
		},
		WorkRoot:    os.TempDir(),
		Concurrency: 4,
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// WithEnv returns a copy of cfg overridden by the KEY=VALUE pairs in
// envFile, then by lookup. A missing envFile is not an error.
func WithEnv(cfg Config, envFile string, lookup func(string) (string, bool)) (Config, error) {
	vars := map[string]string{}
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read %s: %w", envFile, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	if lookup != nil {
		for _, key := range []string{EnvExtractor, EnvExtractorTimeout, EnvWorkRoot, EnvKeepWorkDir} {
			if v, ok := lookup(key); ok {
				vars[key] = v
			}
		}
	}

	cfg.Extractor.Args = slices.Clone(cfg.Extractor.Args)

	if v, ok := vars[EnvExtractor]; ok && v != "" {
		cfg.Extractor.Command = v
	}
	if v, ok := vars[EnvExtractorTimeout]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvExtractorTimeout, err)
		}
		cfg.Extractor.Timeout = d
	}
	if v, ok := vars[EnvWorkRoot]; ok && v != "" {
		cfg.WorkRoot = v
	}
	if v, ok := vars[EnvKeepWorkDir]; ok && v != "" {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvKeepWorkDir, err)
		}
		cfg.KeepWorkDir = keep
	}

	return cfg, nil
}

// Resolve loads path (or ConfigFileName when empty), applies the .env file
// and the process environment, normalizes and validates the result.
//
// A missing file is tolerated only when path is empty.
func Resolve(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	cfg, err := Load(path)
	if err != nil && (explicit || !errors.Is(err, ErrConfigNotFound)) {
		return Config{}, err
	}

	cfg, err = WithEnv(cfg, EnvFileName, os.LookupEnv)
	if err != nil {
		return Config{}, err
	}

	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) normalize() Config {
	if c.WorkRoot == "" {
		c.WorkRoot = os.TempDir()
	}
	c.WorkRoot = filepath.Clean(c.WorkRoot)
	return c
}

// Validate reports the first problem that would make extraction impossible.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Extractor.Command) == "":
		return fmt.Errorf("%w: extractor command is empty", ErrInvalidConfig)
	case c.Extractor.Timeout <= 0:
		return fmt.Errorf("%w: extractor timeout must be positive, got %s", ErrInvalidConfig, c.Extractor.Timeout)
	case !references(c.Extractor.Args, archive.SourcePlaceholder):
		return fmt.Errorf("%w: extractor args must contain %s", ErrInvalidConfig, archive.SourcePlaceholder)
	case !references(c.Extractor.Args, archive.DestPlaceholder):
		return fmt.Errorf("%w: extractor args must contain %s", ErrInvalidConfig, archive.DestPlaceholder)
	case c.Concurrency < 1:
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidConfig, c.Concurrency)
	}
	return nil
}

func references(args []string, placeholder string) bool {
	return slices.ContainsFunc(args, func(a string) bool {
		return strings.Contains(a, placeholder)
	})
}
