package domain_test

import (
	"fmt"
	"testing"

	"github.com/migrakit/migrakit/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSeverity_Rank(t *testing.T) {
	assert.Less(t, domain.SeverityCritical.Rank(), domain.SeverityHigh.Rank())
	assert.Less(t, domain.SeverityHigh.Rank(), domain.SeverityMedium.Rank())
	assert.Less(t, domain.SeverityMedium.Rank(), domain.SeverityLow.Rank())
	assert.Less(t, domain.SeverityLow.Rank(), domain.SeverityWarning.Rank())
}

func TestDeriveStatus(t *testing.T) {
	v := func(s domain.Severity) domain.Violation {
		return domain.NewViolation(domain.KindOrphanedRecord, "deals", s, "m", 1, nil)
	}
	tests := []struct {
		name       string
		violations []domain.Violation
		want       domain.Status
	}{
		{"none", nil, domain.StatusPassed},
		{"medium and low", []domain.Violation{v(domain.SeverityMedium), v(domain.SeverityLow)}, domain.StatusPassed},
		{"high", []domain.Violation{v(domain.SeverityLow), v(domain.SeverityHigh)}, domain.StatusWarning},
		{"critical wins", []domain.Violation{v(domain.SeverityHigh), v(domain.SeverityCritical)}, domain.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DeriveStatus(tt.violations))
		})
	}
}

func TestNewValidationReport_Summary(t *testing.T) {
	violations := []domain.Violation{
		domain.NewViolation(domain.KindOrphanedRecord, "deals", domain.SeverityCritical, "orphans", 3, nil),
		domain.NewViolation(domain.KindMissingRequiredField, "contacts", domain.SeverityHigh, "names", 2, nil),
		domain.NewViolation(domain.KindSystemError, "validateTags", domain.SeverityCritical, "boom", 1, nil),
	}
	warnings := []domain.Violation{
		domain.NewViolation(domain.KindMissingRevenue, "deals", domain.SeverityLow, "revenue", 4, nil),
	}

	r := domain.NewValidationReport("referential_integrity", violations, warnings, nil)
	assert.Equal(t, domain.StatusFailed, r.Status)
	assert.Equal(t, domain.ValidationSummary{
		TotalViolations: 3,
		TotalWarnings:   1,
		CriticalCount:   2,
		HighCount:       1,
		FixableCount:    1,
	}, r.Summary)
	assert.NotNil(t, r.Recommendations, "an empty list, never null")
	assert.Len(t, r.ViolationsWithSeverity(domain.SeverityCritical), 2)
}

func TestNewValidationReport_Empty(t *testing.T) {
	r := domain.NewValidationReport("unique_constraints", nil, nil, nil)
	assert.Equal(t, domain.StatusPassed, r.Status)
	assert.NotNil(t, r.Violations)
	assert.NotNil(t, r.Warnings)
	assert.Zero(t, r.Summary.TotalViolations)
}

func TestNewViolation(t *testing.T) {
	samples := []string{"a", "b", "c", "d", "e", "f", "g"}
	v := domain.NewViolation(domain.KindDuplicatePhone, "contacts", domain.SeverityMedium, "dupes", 7, samples)
	assert.Len(t, v.Samples, domain.MaxSamples)
	assert.Equal(t, 7, v.Count, "count is not capped")
	assert.True(t, v.Fixable)

	assert.False(t, domain.NewViolation(domain.KindCompanyMismatch, "deals", domain.SeverityHigh, "m", 1, nil).Fixable)
	assert.False(t, domain.NewViolation(domain.KindSystemError, "x", domain.SeverityCritical, "m", 1, nil).Fixable)
	assert.Equal(t, "email", v.OnField("email").Field)
	assert.Empty(t, v.Field, "OnField copies")
}

func TestSampleOf(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6}
	got := domain.SampleOf(ids, func(i int) string { return fmt.Sprintf("ID: %d", i) })
	assert.Equal(t, []string{"ID: 1", "ID: 2", "ID: 3", "ID: 4", "ID: 5"}, got)
	assert.Empty(t, domain.SampleOf([]int(nil), func(i int) string { return "" }))
}

func TestNewAction_AutomatedIffFix(t *testing.T) {
	manual := domain.NewAction(domain.ActionFix, domain.PriorityHigh, "data", "Assign companies", "")
	assert.False(t, manual.Automated)

	auto := domain.NewAction(domain.ActionClean, domain.PriorityLow, "data", "Trim", "UPDATE t SET x = trim(x);")
	assert.True(t, auto.Automated)
}

func TestSortActions_StableByPriority(t *testing.T) {
	actions := []domain.RemediationAction{
		{Action: "low", Priority: domain.PriorityLow},
		{Action: "high-1", Priority: domain.PriorityHigh},
		{Action: "critical", Priority: domain.PriorityCritical},
		{Action: "high-2", Priority: domain.PriorityHigh},
		{Action: "medium", Priority: domain.PriorityMedium},
	}
	domain.SortActions(actions)

	var order []string
	for _, a := range actions {
		order = append(order, a.Action)
	}
	assert.Equal(t, []string{"critical", "high-1", "high-2", "medium", "low"}, order)
}

func TestRecommendation_ExitCode(t *testing.T) {
	assert.Equal(t, 0, domain.RecommendGo.ExitCode())
	assert.Equal(t, 0, domain.RecommendProceedWithCaution.ExitCode())
	assert.Equal(t, 1, domain.RecommendDelay.ExitCode())
	assert.Equal(t, 2, domain.RecommendBlock.ExitCode())
	assert.Equal(t, 3, domain.Recommendation("MAYBE").ExitCode())
}

func TestRecommendation_NextSteps(t *testing.T) {
	assert.Len(t, domain.RecommendGo.NextSteps(), 4)
	assert.Len(t, domain.RecommendBlock.NextSteps(), 5)
	assert.Equal(t, []string{"Review validation results and try again"}, domain.Recommendation("").NextSteps())
}

func TestQualityLevelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.QualityLevel
	}{
		{100, domain.QualityExcellent}, {90, domain.QualityExcellent}, {89.99, domain.QualityGood},
		{80, domain.QualityGood}, {70, domain.QualityFair}, {60, domain.QualityPoor},
		{59.99, domain.QualityCritical}, {0, domain.QualityCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.QualityLevelFor(tt.score), "score %.2f", tt.score)
	}
	assert.Equal(t, domain.StatusPassed, domain.QualityStatusFor(99))
	assert.Equal(t, domain.StatusWarning, domain.QualityStatusFor(98.99))
}

func TestQualityBreakdown_Overall(t *testing.T) {
	b := domain.QualityBreakdown{Completeness: 100, Accuracy: 90, Consistency: 80, Validity: 50}
	assert.InDelta(t, 40+27+16+5, b.Overall(), 0.0001)

	perfect := domain.QualityBreakdown{Completeness: 100, Accuracy: 100, Consistency: 100, Validity: 100}
	assert.InDelta(t, 100, perfect.Overall(), 0.0001)
	assert.Equal(t, 66.67, domain.QualityBreakdown{Accuracy: 66.6666}.Rounded().Accuracy)
}
