// Package decision aggregates validator, quality and readiness outputs into a
// Go/No-Go recommendation.
package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/migrakit/migrakit/internal/domain"
	"github.com/migrakit/migrakit/internal/domain/quality"
	"github.com/migrakit/migrakit/internal/domain/validation"
	"github.com/migrakit/migrakit/internal/log"
)

// Validator is a constraint validator consumed by the engine.
type Validator interface {
	Name() string
	ValidateAll(ctx context.Context) (*domain.ValidationReport, error)
}

// Assessor is the data quality assessor consumed by the engine.
type Assessor interface {
	AssessAll(ctx context.Context) (*domain.QualityReport, error)
}

// Components are the collaborators of a single evaluation.
type Components struct {
	Validators []Validator
	Assessor   Assessor
	Probe      domain.ReadinessProbe
}

// ComponentsFor allocates fresh validators and a fresh assessor over src.
func ComponentsFor(src domain.RecordSource, probe domain.ReadinessProbe) Components {
	return Components{
		Validators: []Validator{
			validation.NewReferentialIntegrity(src),
			validation.NewUniqueConstraints(src),
			validation.NewRequiredFields(src),
		},
		Assessor: quality.NewAssessor(src),
		Probe:    probe,
	}
}

// Engine runs one readiness evaluation per call and shares no state between
// calls.
type Engine struct {
	criteria   domain.Criteria
	components Components
	parallel   bool
	progress   domain.TaskProgress
	clock      func() time.Time
}

type Option func(*Engine)

// WithParallel runs the validators, the assessor and the probe concurrently.
func WithParallel(parallel bool) Option {
	return func(e *Engine) { e.parallel = parallel }
}

// WithProgress reports each finished component to p.
func WithProgress(p domain.TaskProgress) Option {
	return func(e *Engine) { e.progress = p }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

func NewEngine(criteria domain.Criteria, components Components, opts ...Option) *Engine {
	e := &Engine{
		criteria:   criteria,
		components: components,
		progress:   noopProgress{},
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Steps is the number of components an evaluation runs, for progress totals.
func (c Components) Steps() int {
	n := len(c.Validators) + 1
	if c.Probe != nil {
		n++
	}
	return n
}

func (e *Engine) Steps() int {
	return e.components.Steps()
}

// EvaluateMigrationReadiness produces the readiness report of one run. The
// report is never nil. When a component cannot run at all, the report carries
// a terminal BLOCK decision and the error is returned alongside it.
func (e *Engine) EvaluateMigrationReadiness(ctx context.Context) (*domain.ReadinessReport, error) {
	start := e.clock()
	report := &domain.ReadinessReport{
		RunID:     uuid.New(),
		Timestamp: start.UTC(),
	}

	// 1. Run validators, assessor and probe
	out, err := e.collect(ctx)
	if err != nil {
		log.Error("evaluation failed", "run", report.RunID, "error", err)
		report.Decision = failedDecision(err)
	} else {
		report.Validation = out.validation
		report.Quality = out.quality
		// 2-7. Apply criteria and decide
		report.Decision = Decide(e.criteria, out.validation, out.quality, out.checks)
	}

	report.NextSteps = report.Decision.Recommendation.NextSteps()
	report.ExecutionMillis = e.clock().Sub(start).Milliseconds()
	log.Info("evaluation finished", "run", report.RunID,
		"recommendation", report.Decision.Recommendation, "confidence", report.Decision.Confidence)
	return report, err
}

type outputs struct {
	validation domain.ValidationResults
	quality    *domain.QualityReport
	checks     domain.SystemChecks
}

func (e *Engine) collect(ctx context.Context) (*outputs, error) {
	if e.components.Assessor == nil {
		return nil, fmt.Errorf("no quality assessor configured")
	}
	reports := make([]*domain.ValidationReport, len(e.components.Validators))
	out := &outputs{checks: domain.SystemChecks{}}

	tasks := make([]func(context.Context) error, 0, e.Steps())
	for i, v := range e.components.Validators {
		tasks = append(tasks, func(ctx context.Context) error {
			r, err := v.ValidateAll(ctx)
			if err != nil {
				return fmt.Errorf("running %s: %w", v.Name(), err)
			}
			reports[i] = r
			return nil
		})
	}
	tasks = append(tasks, func(ctx context.Context) error {
		q, err := e.components.Assessor.AssessAll(ctx)
		if err != nil {
			return fmt.Errorf("assessing data quality: %w", err)
		}
		out.quality = q
		return nil
	})
	if e.components.Probe != nil {
		tasks = append(tasks, func(ctx context.Context) error {
			checks, err := e.components.Probe.Check(ctx)
			if err != nil {
				return fmt.Errorf("checking system readiness: %w", err)
			}
			out.checks = checks
			return nil
		})
	}

	if e.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for _, task := range tasks {
			g.Go(func() error {
				if err := task(gctx); err != nil {
					return err
				}
				e.progress.Increment(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, task := range tasks {
			if err := task(ctx); err != nil {
				return nil, err
			}
			e.progress.Increment(1)
		}
	}

	for _, r := range reports {
		switch r.Validator {
		case domain.ValidatorReferentialIntegrity:
			out.validation.ReferentialIntegrity = r
		case domain.ValidatorUniqueConstraints:
			out.validation.UniqueConstraints = r
		case domain.ValidatorRequiredFields:
			out.validation.RequiredFields = r
		}
	}
	return out, nil
}

// failedDecision is the terminal decision of an evaluation that could not run.
func failedDecision(err error) domain.Decision {
	d := domain.Decision{
		Recommendation: domain.RecommendBlock,
		Confidence:     100,
		Blockers: []domain.DecisionFinding{{
			Type:     FindingValidationFailure,
			Severity: domain.SeverityCritical,
			Message:  "Validation suite failed: " + err.Error(),
			Category: categorySystem,
		}},
		Warnings:     []domain.DecisionFinding{},
		Fixes:        []domain.RemediationAction{},
		SystemChecks: domain.SystemChecks{},
	}
	d.Summary = summarize(d)
	return d
}

type noopProgress struct{}

func (noopProgress) Increment(int)   {}
func (noopProgress) Describe(string) {}
func (noopProgress) Complete()       {}
