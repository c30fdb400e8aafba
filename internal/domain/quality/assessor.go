// Package quality scores how fit the dataset under migration is, beyond the
// hard constraints: completeness, accuracy, consistency and validity.
package quality

import (
	"context"
	"fmt"

	"github.com/migrakit/migrakit/internal/domain"
	"github.com/migrakit/migrakit/internal/log"
)

// SubCheck is one named measurement within a dimension. Issues it returns are
// kept only when it succeeds.
type SubCheck struct {
	Name string
	Run  func(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error)
}

type dimension struct {
	name   domain.Dimension
	checks []SubCheck
}

// Assessor computes a QualityReport. It holds no results between runs.
type Assessor struct {
	source     domain.RecordSource
	dimensions []dimension
}

func NewAssessor(src domain.RecordSource) *Assessor {
	return &Assessor{
		source: src,
		dimensions: []dimension{
			{name: domain.DimensionCompleteness, checks: completenessChecks},
			{name: domain.DimensionAccuracy, checks: accuracyChecks},
			{name: domain.DimensionConsistency, checks: consistencyChecks},
			{name: domain.DimensionValidity, checks: validityChecks},
		},
	}
}

// CheckNames returns the sub-check names of a dimension.
func (a *Assessor) CheckNames(dim domain.Dimension) []string {
	for _, d := range a.dimensions {
		if d.name == dim {
			names := make([]string, len(d.checks))
			for i, c := range d.checks {
				names[i] = c.Name
			}
			return names
		}
	}
	return nil
}

// AssessAll scores every dimension. The error is reserved for a source that
// cannot be reached before any sub-check runs.
func (a *Assessor) AssessAll(ctx context.Context) (*domain.QualityReport, error) {
	if err := a.source.Ping(ctx); err != nil {
		return nil, fmt.Errorf("data quality: record source unreachable: %w", err)
	}

	var (
		breakdown domain.QualityBreakdown
		metrics   []domain.QualityMetric
		issues    []domain.Violation
	)
	for _, d := range a.dimensions {
		metric, found := a.assess(ctx, d)
		switch d.name {
		case domain.DimensionCompleteness:
			breakdown.Completeness = metric.Score
		case domain.DimensionAccuracy:
			breakdown.Accuracy = metric.Score
		case domain.DimensionConsistency:
			breakdown.Consistency = metric.Score
		case domain.DimensionValidity:
			breakdown.Validity = metric.Score
		}
		metric.Score = domain.RoundScore(metric.Score)
		metrics = append(metrics, metric)
		issues = append(issues, found...)
	}

	// level and status come from the unrounded score
	overall := breakdown.Overall()
	if issues == nil {
		issues = []domain.Violation{}
	}
	report := &domain.QualityReport{
		OverallScore:    domain.RoundScore(overall),
		QualityLevel:    domain.QualityLevelFor(overall),
		Status:          domain.QualityStatusFor(overall),
		Breakdown:       breakdown.Rounded(),
		Metrics:         metrics,
		Issues:          issues,
		Recommendations: Recommendations(breakdown),
	}
	log.Debug("quality assessed", "overall", report.OverallScore, "level", report.QualityLevel)
	return report, nil
}

// assess runs the sub-checks of one dimension. The dimension score is the
// unweighted mean of the sub-checks that completed, or 0 when none did.
func (a *Assessor) assess(ctx context.Context, d dimension) (domain.QualityMetric, []domain.Violation) {
	metric := domain.QualityMetric{Dimension: d.name, Details: []domain.SubCheckResult{}}
	var (
		issues []domain.Violation
		sum    float64
	)
	for _, c := range d.checks {
		log.Debug("running quality check", "dimension", d.name, "check", c.Name)
		result, found, err := runIsolated(ctx, a.source, c)
		if err != nil {
			log.Warn("quality check failed", "dimension", d.name, "check", c.Name, "error", err)
			issues = append(issues, domain.NewViolation(domain.KindSystemError, string(d.name)+"."+c.Name,
				domain.SeverityCritical, "Quality check failed: "+err.Error(), 1, nil))
			continue
		}
		result.Check = c.Name
		sum += result.Score
		result.Score = domain.RoundScore(result.Score)
		metric.Details = append(metric.Details, result)
		issues = append(issues, found...)
	}
	if len(metric.Details) == 0 {
		metric.Score = 0
		metric.Note = "No sub-check completed"
		return metric, issues
	}
	metric.Score = sum / float64(len(metric.Details))
	return metric, issues
}

func runIsolated(ctx context.Context, src domain.RecordSource, c SubCheck) (result domain.SubCheckResult, issues []domain.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, issues, err = domain.SubCheckResult{}, nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return c.Run(ctx, src)
}

// neutral is the result of a sub-check with nothing to measure.
func neutral(entity, note string) domain.SubCheckResult {
	return domain.SubCheckResult{Entity: entity, Score: 100, Note: note}
}

func ratio(valid, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(valid*100) / float64(total)
}

func selectRows(ctx context.Context, src domain.RecordSource, q domain.Query) ([]domain.Record, error) {
	rows, err := src.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", q.Table, err)
	}
	return rows, nil
}

// Recommendations derives improvement actions from the dimension scores.
func Recommendations(b domain.QualityBreakdown) []domain.RemediationAction {
	recs := []domain.RemediationAction{}
	if b.Completeness < 80 {
		recs = append(recs, withImpact(domain.NewAction(domain.ActionImprove, domain.PriorityHigh, "completeness",
			"Focus on completing missing required fields before migration", ""),
			"Improves migration success and user experience"))
	}
	if b.Accuracy < 90 {
		recs = append(recs, withImpact(domain.NewAction(domain.ActionClean, domain.PriorityMedium, "accuracy",
			"Clean up invalid email and phone formats", ""),
			"Reduces validation errors and improves data usability"))
	}
	if b.Consistency < 85 {
		recs = append(recs, withImpact(domain.NewAction(domain.ActionStandardize, domain.PriorityMedium, "consistency",
			"Standardize naming conventions and stage definitions", ""),
			"Improves reporting accuracy and user understanding"))
	}
	if b.Validity < 90 {
		recs = append(recs, withImpact(domain.NewAction(domain.ActionFix, domain.PriorityLow, "validity",
			"Map sectors, stages, tag types and task types to accepted values", ""),
			"Prevents values from being silently defaulted during migration"))
	}
	return recs
}

func withImpact(a domain.RemediationAction, impact string) domain.RemediationAction {
	a.Impact = impact
	return a
}
