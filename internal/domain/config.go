package domain

import (
	"fmt"
	"time"
)

// Source drivers.
const (
	DriverPostgres = "postgres"
	DriverDataset  = "dataset"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds project-level configuration loaded from .migrakit.yaml.
type Config struct {
	Source    SourceConfig    `yaml:"source"    json:"source"`
	Criteria  Criteria        `yaml:"criteria"  json:"criteria"`
	Readiness ReadinessConfig `yaml:"readiness" json:"readiness"`
	Execution ExecutionConfig `yaml:"execution" json:"execution"`
	Output    OutputConfig    `yaml:"output"    json:"output"`
}

// SourceConfig selects and configures the Record Source.
type SourceConfig struct {
	Driver       string        `yaml:"driver"        json:"driver"`
	DatabaseURL  string        `yaml:"database_url"  json:"database_url,omitempty"`
	Dataset      string        `yaml:"dataset"       json:"dataset,omitempty"`
	QueryTimeout time.Duration `yaml:"query_timeout" json:"query_timeout"`
}

// Threshold bounds how many CRITICAL and HIGH violations a validator may
// report before the engine raises a blocker.
type Threshold struct {
	Critical int `yaml:"critical" json:"critical"`
	High     int `yaml:"high"     json:"high"`
}

// Criteria are the decision engine's thresholds.
type Criteria struct {
	ReferentialIntegrity Threshold `yaml:"referential_integrity" json:"referential_integrity"`
	UniqueConstraints    Threshold `yaml:"unique_constraints"    json:"unique_constraints"`
	RequiredFields       Threshold `yaml:"required_fields"       json:"required_fields"`
	MinQualityScore      float64   `yaml:"min_quality_score"     json:"min_quality_score"`
	MaxTotalViolations   int       `yaml:"max_total_violations"  json:"max_total_violations"`
	MinFixablePercent    float64   `yaml:"min_fixable_percent"   json:"min_fixable_percent"`
}

// ThresholdFor returns the threshold of a validator by name.
func (c Criteria) ThresholdFor(validator string) Threshold {
	switch validator {
	case ValidatorReferentialIntegrity:
		return c.ReferentialIntegrity
	case ValidatorUniqueConstraints:
		return c.UniqueConstraints
	default:
		return c.RequiredFields
	}
}

// ReadinessConfig drives the system readiness probe.
type ReadinessConfig struct {
	DataDir          string        `yaml:"data_dir"            json:"data_dir"`
	MinFreeDiskBytes uint64        `yaml:"min_free_disk_bytes" json:"min_free_disk_bytes"`
	BackupDir        string        `yaml:"backup_dir"          json:"backup_dir,omitempty"`
	BackupMaxAge     time.Duration `yaml:"backup_max_age"      json:"backup_max_age"`
	MigrationsDir    string        `yaml:"migrations_dir"      json:"migrations_dir,omitempty"`
	RequiredTables   []string      `yaml:"required_tables"     json:"required_tables,omitempty"`
}

type ExecutionConfig struct {
	Parallel bool `yaml:"parallel" json:"parallel"`
}

type OutputConfig struct {
	ReportDir string `yaml:"report_dir" json:"report_dir"`
	Format    string `yaml:"format"     json:"format"`
}

// Validator names.
const (
	ValidatorReferentialIntegrity = "referential_integrity"
	ValidatorUniqueConstraints    = "unique_constraints"
	ValidatorRequiredFields       = "required_fields"
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Driver:       DriverPostgres,
			QueryTimeout: 30 * time.Second,
		},
		Criteria: Criteria{
			ReferentialIntegrity: Threshold{Critical: 0, High: 0},
			UniqueConstraints:    Threshold{Critical: 0, High: 5},
			RequiredFields:       Threshold{Critical: 0, High: 10},
			MinQualityScore:      QualityPassScore,
			MaxTotalViolations:   20,
			MinFixablePercent:    80,
		},
		Readiness: ReadinessConfig{
			DataDir:          ".",
			MinFreeDiskBytes: 10 << 30,
			BackupMaxAge:     24 * time.Hour,
			RequiredTables:   []string{TableCompanies, TableContacts, TableDeals},
		},
		Output: OutputConfig{
			ReportDir: ".migrakit/reports",
			Format:    FormatJSON,
		},
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	switch c.Source.Driver {
	case DriverPostgres:
	case DriverDataset:
		if c.Source.Dataset == "" {
			return fmt.Errorf("source.dataset is required for driver %q", DriverDataset)
		}
	default:
		return fmt.Errorf("unknown source.driver %q (valid: postgres, dataset)", c.Source.Driver)
	}
	if c.Source.QueryTimeout < 0 {
		return fmt.Errorf("source.query_timeout must not be negative")
	}

	thresholds := map[string]Threshold{
		"referential_integrity": c.Criteria.ReferentialIntegrity,
		"unique_constraints":    c.Criteria.UniqueConstraints,
		"required_fields":       c.Criteria.RequiredFields,
	}
	for name, th := range thresholds {
		if th.Critical < 0 || th.High < 0 {
			return fmt.Errorf("criteria.%s thresholds must not be negative", name)
		}
	}
	if c.Criteria.MinQualityScore < 0 || c.Criteria.MinQualityScore > 100 {
		return fmt.Errorf("criteria.min_quality_score %.2f out of range (0-100)", c.Criteria.MinQualityScore)
	}
	if c.Criteria.MaxTotalViolations < 0 {
		return fmt.Errorf("criteria.max_total_violations must not be negative")
	}
	if c.Criteria.MinFixablePercent < 0 || c.Criteria.MinFixablePercent > 100 {
		return fmt.Errorf("criteria.min_fixable_percent %.2f out of range (0-100)", c.Criteria.MinFixablePercent)
	}

	if c.Readiness.BackupMaxAge < 0 {
		return fmt.Errorf("readiness.backup_max_age must not be negative")
	}

	switch c.Output.Format {
	case "", FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output.format %q (valid: json, yaml)", c.Output.Format)
	}
	return nil
}
