package cli

import (
	"fmt"
	"path/filepath"

	"github.com/migrakit/migrakit/internal/adapters/outbound/config"
	"github.com/migrakit/migrakit/internal/adapters/outbound/gitinfo"
	"github.com/migrakit/migrakit/internal/adapters/outbound/history"
	"github.com/migrakit/migrakit/internal/adapters/outbound/probe"
	"github.com/migrakit/migrakit/internal/adapters/outbound/report"
	"github.com/migrakit/migrakit/internal/adapters/outbound/source"
	"github.com/migrakit/migrakit/internal/application"
	"github.com/migrakit/migrakit/internal/domain"
)

// NewReadinessService wires the outbound adapters into a ReadinessService.
// A non-empty dataset overrides the configured source.
func NewReadinessService(dataset string, pm domain.ProgressManager) *application.ReadinessService {
	git := gitinfo.New()
	return application.NewReadinessService(
		datasetOverride{ConfigLoader: config.New(), dataset: dataset},
		source.Open,
		func(src domain.RecordSource, cfg domain.ReadinessConfig) domain.ReadinessProbe {
			return probe.New(src, git, cfg)
		},
		func(cfg domain.OutputConfig) domain.ReportStore {
			return report.New(cfg.ReportDir, cfg.Format)
		},
		history.New(),
		git,
		pm,
	)
}

// datasetOverride points the loaded config at a dataset file.
type datasetOverride struct {
	domain.ConfigLoader
	dataset string
}

func (l datasetOverride) Load(projectPath string) (domain.Config, error) {
	cfg, err := l.ConfigLoader.Load(projectPath)
	if err != nil || l.dataset == "" {
		return cfg, err
	}
	abs, err := filepath.Abs(l.dataset)
	if err != nil {
		return cfg, fmt.Errorf("resolving dataset: %w", err)
	}
	cfg.Source.Driver = domain.DriverDataset
	cfg.Source.Dataset = abs
	return cfg, nil
}

func projectPath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absPath, nil
}
