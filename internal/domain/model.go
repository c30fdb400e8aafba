package domain

import (
	"slices"
)

// Severity ranks a finding. CRITICAL and HIGH findings are violations that can
// block a migration; MEDIUM and LOW findings usually travel as warnings.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"

	// SeverityWarning is only used by decision-level warnings.
	SeverityWarning Severity = "WARNING"
)

// Rank orders severities from most to least severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Status is the outcome of a validation or quality assessment.
type Status string

const (
	StatusPassed  Status = "PASSED"
	StatusWarning Status = "WARNING"
	StatusFailed  Status = "FAILED"
)

// MaxSamples bounds the examples carried by a single Violation.
const MaxSamples = 5

// Violation is the atomic finding produced by a check. Severity is set by the
// producing check and never recomputed downstream.
type Violation struct {
	Kind     Kind     `json:"type"              yaml:"type"`
	Entity   string   `json:"entity"            yaml:"entity"`
	Field    string   `json:"field,omitempty"   yaml:"field,omitempty"`
	Severity Severity `json:"severity"          yaml:"severity"`
	Message  string   `json:"message"           yaml:"message"`
	Count    int      `json:"count"             yaml:"count"`
	Samples  []string `json:"samples,omitempty" yaml:"samples,omitempty"`
	Fixable  bool     `json:"fixable"           yaml:"fixable"`
}

// NewViolation builds a finding whose fixability comes from the kind table.
func NewViolation(kind Kind, entity string, severity Severity, message string, count int, samples []string) Violation {
	if len(samples) > MaxSamples {
		samples = samples[:MaxSamples]
	}
	return Violation{
		Kind:     kind,
		Entity:   entity,
		Severity: severity,
		Message:  message,
		Count:    count,
		Samples:  samples,
		Fixable:  kind.Fixable(),
	}
}

// OnField returns a copy of v scoped to a field path.
func (v Violation) OnField(field string) Violation {
	v.Field = field
	return v
}

// SampleOf formats at most MaxSamples items for a Violation.
func SampleOf[T any](items []T, format func(T) string) []string {
	n := min(len(items), MaxSamples)
	out := make([]string, 0, n)
	for _, it := range items[:n] {
		out = append(out, format(it))
	}
	return out
}

// ValidationSummary counts the findings of one validator run.
type ValidationSummary struct {
	TotalViolations int `json:"total_violations" yaml:"total_violations"`
	TotalWarnings   int `json:"total_warnings"   yaml:"total_warnings"`
	CriticalCount   int `json:"critical_count"   yaml:"critical_count"`
	HighCount       int `json:"high_count"       yaml:"high_count"`
	MediumCount     int `json:"medium_count"     yaml:"medium_count"`
	LowCount        int `json:"low_count"        yaml:"low_count"`
	FixableCount    int `json:"fixable_count"    yaml:"fixable_count"`
}

// ValidationReport is produced fresh by every ValidateAll call.
type ValidationReport struct {
	Validator       string              `json:"validator"       yaml:"validator"`
	Status          Status              `json:"status"          yaml:"status"`
	Summary         ValidationSummary   `json:"summary"         yaml:"summary"`
	Violations      []Violation         `json:"violations"      yaml:"violations"`
	Warnings        []Violation         `json:"warnings"        yaml:"warnings"`
	Recommendations []RemediationAction `json:"recommendations" yaml:"recommendations"`
}

// NewValidationReport derives status and summary from the findings.
func NewValidationReport(validator string, violations, warnings []Violation, recs []RemediationAction) *ValidationReport {
	if violations == nil {
		violations = []Violation{}
	}
	if warnings == nil {
		warnings = []Violation{}
	}
	if recs == nil {
		recs = []RemediationAction{}
	}
	return &ValidationReport{
		Validator:       validator,
		Status:          DeriveStatus(violations),
		Summary:         Summarize(violations, warnings),
		Violations:      violations,
		Warnings:        warnings,
		Recommendations: recs,
	}
}

// DeriveStatus is FAILED on any CRITICAL violation, WARNING on any HIGH one,
// PASSED otherwise.
func DeriveStatus(violations []Violation) Status {
	status := StatusPassed
	for _, v := range violations {
		switch v.Severity {
		case SeverityCritical:
			return StatusFailed
		case SeverityHigh:
			status = StatusWarning
		}
	}
	return status
}

func Summarize(violations, warnings []Violation) ValidationSummary {
	s := ValidationSummary{
		TotalViolations: len(violations),
		TotalWarnings:   len(warnings),
	}
	for _, v := range violations {
		switch v.Severity {
		case SeverityCritical:
			s.CriticalCount++
		case SeverityHigh:
			s.HighCount++
		case SeverityMedium:
			s.MediumCount++
		case SeverityLow:
			s.LowCount++
		}
		if v.Fixable {
			s.FixableCount++
		}
	}
	return s
}

// ViolationsWithSeverity returns the violations of a single tier, in discovery order.
func (r *ValidationReport) ViolationsWithSeverity(severity Severity) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == severity {
			out = append(out, v)
		}
	}
	return out
}

// Priority ranks remediation actions. It is not a Violation severity even
// though the two usually agree.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

func (p Priority) Rank() int {
	return Severity(p).Rank()
}

// ActionType groups remediation actions by intent.
type ActionType string

const (
	ActionFix         ActionType = "FIX"
	ActionBlock       ActionType = "BLOCK"
	ActionImprove     ActionType = "IMPROVE"
	ActionClean       ActionType = "CLEAN"
	ActionStandardize ActionType = "STANDARDIZE"
)

// RemediationAction is a ranked instruction. Automated is true iff a
// mechanical fix expression accompanies it.
type RemediationAction struct {
	Type      ActionType `json:"type"             yaml:"type"`
	Priority  Priority   `json:"priority"         yaml:"priority"`
	Action    string     `json:"action"           yaml:"action"`
	Category  string     `json:"category"         yaml:"category"`
	Automated bool       `json:"automated"        yaml:"automated"`
	Fix       string     `json:"fix,omitempty"    yaml:"fix,omitempty"`
	Impact    string     `json:"impact,omitempty" yaml:"impact,omitempty"`
}

// NewAction builds a remediation action; a non-empty fix marks it automated.
func NewAction(typ ActionType, priority Priority, category, action, fix string) RemediationAction {
	return RemediationAction{
		Type:      typ,
		Priority:  priority,
		Action:    action,
		Category:  category,
		Automated: fix != "",
		Fix:       fix,
	}
}

// SortActions stable-sorts actions CRITICAL, HIGH, MEDIUM, LOW.
func SortActions(actions []RemediationAction) {
	slices.SortStableFunc(actions, func(a, b RemediationAction) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
}
