package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/migrakit/migrakit/internal/domain"
	"github.com/migrakit/migrakit/internal/domain/decision"
	"github.com/migrakit/migrakit/internal/domain/quality"
	"github.com/migrakit/migrakit/internal/domain/validation"
	"github.com/migrakit/migrakit/internal/log"
)

// SourceOpener opens the record source a config names. The returned func
// releases it.
type SourceOpener func(ctx context.Context, cfg domain.SourceConfig) (domain.RecordSource, func(), error)

// ProbeFactory builds the readiness probe of one evaluation.
type ProbeFactory func(src domain.RecordSource, cfg domain.ReadinessConfig) domain.ReadinessProbe

// StoreFactory builds the report store for an output config.
type StoreFactory func(cfg domain.OutputConfig) domain.ReportStore

// ReadinessService orchestrates an evaluation:
// load config → open source → run engine → persist report and history.
type ReadinessService struct {
	configLoader domain.ConfigLoader
	openSource   SourceOpener
	newProbe     ProbeFactory
	newStore     StoreFactory
	history      domain.DecisionHistory
	git          domain.GitInfo
	progress     domain.ProgressManager
}

func NewReadinessService(
	configLoader domain.ConfigLoader,
	openSource SourceOpener,
	newProbe ProbeFactory,
	newStore StoreFactory,
	history domain.DecisionHistory,
	git domain.GitInfo,
	progress domain.ProgressManager,
) *ReadinessService {
	return &ReadinessService{
		configLoader: configLoader,
		openSource:   openSource,
		newProbe:     newProbe,
		newStore:     newStore,
		history:      history,
		git:          git,
		progress:     progress,
	}
}

// EvaluateOptions override config for one evaluation.
type EvaluateOptions struct {
	// Parallel forces concurrent evaluation when set.
	Parallel bool
	// NoSave skips writing the report file and history entry.
	NoSave bool
}

// EvaluateResult carries the report and where it was saved, if anywhere.
type EvaluateResult struct {
	Report     *domain.ReadinessReport
	ReportPath string
}

// Evaluate runs one readiness evaluation. On an evaluation-level failure the
// result still carries the BLOCK report alongside the error.
func (s *ReadinessService) Evaluate(ctx context.Context, projectPath string, opts EvaluateOptions) (*EvaluateResult, error) {
	// 1. Load config
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// 2. Open the record source
	src, release, err := s.openSource(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("opening %s source: %w", cfg.Source.Driver, err)
	}
	defer release()

	// 3. Run the engine
	var probe domain.ReadinessProbe
	if s.newProbe != nil {
		probe = s.newProbe(src, cfg.Readiness)
	}
	components := decision.ComponentsFor(src, probe)
	task := s.progress.StartTask("Evaluating readiness", components.Steps())
	engine := decision.NewEngine(cfg.Criteria, components,
		decision.WithParallel(cfg.Execution.Parallel || opts.Parallel),
		decision.WithProgress(task),
	)
	report, evalErr := engine.EvaluateMigrationReadiness(ctx)
	task.Complete()
	s.progress.Close()

	result := &EvaluateResult{Report: report}
	if evalErr != nil {
		return result, fmt.Errorf("evaluating readiness: %w", evalErr)
	}

	// 4. Attach the revision of the migration scripts
	report.CommitHash = s.commitHash(projectPath, cfg.Readiness.MigrationsDir)

	if opts.NoSave {
		return result, nil
	}

	// 5. Persist the report and a history entry
	if s.newStore != nil {
		path, err := s.newStore(cfg.Output).Save(projectPath, report)
		if err != nil {
			return result, fmt.Errorf("saving report: %w", err)
		}
		result.ReportPath = path
	}
	if s.history != nil {
		if err := s.history.Save(projectPath, domain.EntryFor(report)); err != nil {
			log.Warn("could not record decision history", "error", err)
		}
	}
	return result, nil
}

func (s *ReadinessService) commitHash(projectPath, migrationsDir string) string {
	if s.git == nil {
		return ""
	}
	dir := projectPath
	if migrationsDir != "" {
		dir = migrationsDir
	}
	if !s.git.IsGitRepo(dir) {
		return ""
	}
	hash, err := s.git.CommitHash(dir)
	if err != nil {
		log.Debug("no commit hash", "path", dir, "error", err)
		return ""
	}
	return hash
}

// validatorAliases maps the short CLI names to validator names.
var validatorAliases = map[string]string{
	"referential": domain.ValidatorReferentialIntegrity,
	"unique":      domain.ValidatorUniqueConstraints,
	"required":    domain.ValidatorRequiredFields,
}

// ResolveValidator accepts a short alias or a full validator name.
func ResolveValidator(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if full, ok := validatorAliases[name]; ok {
		return full, nil
	}
	switch name {
	case domain.ValidatorReferentialIntegrity, domain.ValidatorUniqueConstraints, domain.ValidatorRequiredFields:
		return name, nil
	}
	return "", fmt.Errorf("unknown validator %q (valid: referential, unique, required)", name)
}

// Validate runs a single constraint validator.
func (s *ReadinessService) Validate(ctx context.Context, projectPath, validator string) (*domain.ValidationReport, error) {
	name, err := ResolveValidator(validator)
	if err != nil {
		return nil, err
	}

	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	src, release, err := s.openSource(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("opening %s source: %w", cfg.Source.Driver, err)
	}
	defer release()

	v, err := validation.New(name, src)
	if err != nil {
		return nil, err
	}
	report, err := v.ValidateAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	return report, nil
}

// AssessQuality runs the data quality assessor alone.
func (s *ReadinessService) AssessQuality(ctx context.Context, projectPath string) (*domain.QualityReport, error) {
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	src, release, err := s.openSource(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("opening %s source: %w", cfg.Source.Driver, err)
	}
	defer release()

	report, err := quality.NewAssessor(src).AssessAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("assessing data quality: %w", err)
	}
	return report, nil
}

// History returns the recorded decisions, oldest first.
func (s *ReadinessService) History(projectPath string) ([]domain.DecisionEntry, error) {
	entries, err := s.history.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

// Config returns the effective configuration of a project.
func (s *ReadinessService) Config(projectPath string) (domain.Config, error) {
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return domain.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// LatestReport returns the most recently saved report, or nil.
func (s *ReadinessService) LatestReport(projectPath string) (*domain.ReadinessReport, error) {
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	report, err := s.newStore(cfg.Output).Latest(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading latest report: %w", err)
	}
	return report, nil
}
