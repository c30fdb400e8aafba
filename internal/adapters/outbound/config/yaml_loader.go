package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/migrakit/migrakit/internal/domain"
)

// FileName is the project configuration file.
const FileName = ".migrakit.yaml"

// Environment overrides, read through viper with the MIGRAKIT_ prefix.
const (
	EnvDatabaseURL = "MIGRAKIT_DATABASE_URL"
	EnvDataset     = "MIGRAKIT_DATASET"
)

// YAMLLoader implements domain.ConfigLoader by reading .migrakit.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .migrakit.yaml from projectPath over DefaultConfig, applies
// environment overrides and validates the result. A missing file yields the
// defaults.
func (l *YAMLLoader) Load(projectPath string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.Config{}, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	resolvePaths(&cfg, projectPath)
	return cfg, nil
}

// applyEnv overlays environment variables. A dataset switches the source
// driver to the in-memory dataset.
func applyEnv(cfg *domain.Config) {
	v := viper.New()
	v.SetEnvPrefix("migrakit")
	v.AutomaticEnv()

	if url := v.GetString("database_url"); url != "" {
		cfg.Source.DatabaseURL = url
	}
	if ds := v.GetString("dataset"); ds != "" {
		cfg.Source.Dataset = ds
		cfg.Source.Driver = domain.DriverDataset
	}
}

// resolvePaths anchors relative paths at the project directory.
func resolvePaths(cfg *domain.Config, projectPath string) {
	for _, p := range []*string{
		&cfg.Source.Dataset,
		&cfg.Readiness.DataDir,
		&cfg.Readiness.BackupDir,
		&cfg.Readiness.MigrationsDir,
		&cfg.Output.ReportDir,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(projectPath, *p)
		}
	}
}

// Write saves cfg as .migrakit.yaml in projectPath. It refuses to replace an
// existing file unless force is set.
func (l *YAMLLoader) Write(projectPath string, cfg domain.Config, force bool) (string, error) {
	path := filepath.Join(projectPath, FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", FileName)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	header := []byte("# migrakit configuration. Thresholds apply to the Go/No-Go decision.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", FileName, err)
	}
	return path, nil
}
