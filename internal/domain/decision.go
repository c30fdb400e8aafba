package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is the ordinal outcome of a readiness evaluation.
type Recommendation string

const (
	RecommendGo                 Recommendation = "GO"
	RecommendProceedWithCaution Recommendation = "PROCEED_WITH_CAUTION"
	RecommendDelay              Recommendation = "DELAY"
	RecommendBlock              Recommendation = "BLOCK"
)

// Process exit codes for a finished evaluation.
const (
	ExitSuccess          = 0
	ExitRetryable        = 1
	ExitBlocked          = 2
	ExitEvaluationFailed = 3
)

// ExitCode maps a recommendation to the process exit contract.
func (r Recommendation) ExitCode() int {
	switch r {
	case RecommendGo, RecommendProceedWithCaution:
		return ExitSuccess
	case RecommendDelay:
		return ExitRetryable
	case RecommendBlock:
		return ExitBlocked
	default:
		return ExitEvaluationFailed
	}
}

// NextSteps returns the static follow-up instructions of a recommendation.
func (r Recommendation) NextSteps() []string {
	switch r {
	case RecommendGo:
		return []string{
			"Proceed with migration execution",
			"Ensure backup is created",
			"Monitor migration progress",
			"Validate results post-migration",
		}
	case RecommendProceedWithCaution:
		return []string{
			"Review warnings and assess risk tolerance",
			"Apply automated fixes if available",
			"Create backup and prepare rollback plan",
			"Proceed with migration if risks are acceptable",
		}
	case RecommendDelay:
		return []string{
			"Fix high-severity data issues",
			"Apply automated fixes from recommendations",
			"Re-run validation after fixes",
			"Schedule new migration window",
		}
	case RecommendBlock:
		return []string{
			"Fix critical blockers before proceeding",
			"Review system readiness issues",
			"Apply all available automated fixes",
			"Consider manual data cleanup",
			"Re-run complete validation",
		}
	default:
		return []string{"Review validation results and try again"}
	}
}

// System readiness probe names.
const (
	CheckDatabaseConnection = "databaseConnection"
	CheckDiskSpace          = "diskSpace"
	CheckBackupStatus       = "backupStatus"
	CheckMigrationScripts   = "migrationScripts"
	CheckPermissions        = "permissions"
)

// SystemChecks maps a readiness probe name to its outcome.
type SystemChecks map[string]bool

// DecisionFinding is a post-threshold blocker or warning. Details carries the
// validator findings it summarizes, if any.
type DecisionFinding struct {
	Type     string      `json:"type"              yaml:"type"`
	Severity Severity    `json:"severity"          yaml:"severity"`
	Message  string      `json:"message"           yaml:"message"`
	Category string      `json:"category"          yaml:"category"`
	Impact   string      `json:"impact,omitempty"  yaml:"impact,omitempty"`
	Details  []Violation `json:"details,omitempty" yaml:"details,omitempty"`
}

type DecisionSummary struct {
	TotalBlockers  int            `json:"total_blockers"  yaml:"total_blockers"`
	TotalWarnings  int            `json:"total_warnings"  yaml:"total_warnings"`
	TotalFixes     int            `json:"total_fixes"     yaml:"total_fixes"`
	AutomatedFixes int            `json:"automated_fixes" yaml:"automated_fixes"`
	Recommendation Recommendation `json:"recommendation"  yaml:"recommendation"`
	Confidence     int            `json:"confidence"      yaml:"confidence"`
}

// Decision is the terminal artifact of an evaluation. It is not modified
// after the engine returns it.
type Decision struct {
	Recommendation Recommendation      `json:"recommendation" yaml:"recommendation"`
	Confidence     int                 `json:"confidence"     yaml:"confidence"`
	Blockers       []DecisionFinding   `json:"blockers"       yaml:"blockers"`
	Warnings       []DecisionFinding   `json:"warnings"       yaml:"warnings"`
	Fixes          []RemediationAction `json:"fixes"          yaml:"fixes"`
	SystemChecks   SystemChecks        `json:"system_checks"  yaml:"system_checks"`
	Summary        DecisionSummary     `json:"summary"        yaml:"summary"`
}

// HasCriticalBlocker reports whether any blocker is CRITICAL.
func (d *Decision) HasCriticalBlocker() bool {
	for _, b := range d.Blockers {
		if b.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// ValidationResults groups the three constraint validator reports.
type ValidationResults struct {
	ReferentialIntegrity *ValidationReport `json:"referential_integrity,omitempty" yaml:"referential_integrity,omitempty"`
	UniqueConstraints    *ValidationReport `json:"unique_constraints,omitempty"    yaml:"unique_constraints,omitempty"`
	RequiredFields       *ValidationReport `json:"required_fields,omitempty"       yaml:"required_fields,omitempty"`
}

// Reports returns the non-nil validator reports in a fixed order.
func (v ValidationResults) Reports() []*ValidationReport {
	var out []*ValidationReport
	for _, r := range []*ValidationReport{v.ReferentialIntegrity, v.UniqueConstraints, v.RequiredFields} {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// ReadinessReport is the single nested record produced per evaluation run.
type ReadinessReport struct {
	RunID           uuid.UUID         `json:"run_id"                yaml:"run_id"`
	Timestamp       time.Time         `json:"timestamp"             yaml:"timestamp"`
	ExecutionMillis int64             `json:"execution_time_ms"     yaml:"execution_time_ms"`
	Decision        Decision          `json:"decision"              yaml:"decision"`
	Validation      ValidationResults `json:"validation"            yaml:"validation"`
	Quality         *QualityReport    `json:"quality,omitempty"     yaml:"quality,omitempty"`
	NextSteps       []string          `json:"next_steps"            yaml:"next_steps"`
	CommitHash      string            `json:"commit_hash,omitempty" yaml:"commit_hash,omitempty"`
}

// DecisionEntry is one line of the decision history.
type DecisionEntry struct {
	Timestamp      string         `json:"timestamp"`
	RunID          string         `json:"run_id"`
	Recommendation Recommendation `json:"recommendation"`
	Confidence     int            `json:"confidence"`
	QualityScore   float64        `json:"quality_score"`
	Blockers       int            `json:"blockers"`
	Warnings       int            `json:"warnings"`
	CommitHash     string         `json:"commit_hash,omitempty"`
}

// EntryFor summarizes a report for the decision history.
func EntryFor(r *ReadinessReport) DecisionEntry {
	e := DecisionEntry{
		Timestamp:      r.Timestamp.Format(time.RFC3339),
		RunID:          r.RunID.String(),
		Recommendation: r.Decision.Recommendation,
		Confidence:     r.Decision.Confidence,
		Blockers:       len(r.Decision.Blockers),
		Warnings:       len(r.Decision.Warnings),
		CommitHash:     r.CommitHash,
	}
	if r.Quality != nil {
		e.QualityScore = r.Quality.OverallScore
	}
	return e
}
