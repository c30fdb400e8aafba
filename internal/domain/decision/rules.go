package decision

import (
	"fmt"
	"math"
	"slices"

	"github.com/migrakit/migrakit/internal/domain"
)

// Decision-level finding types.
const (
	FindingValidationFailure     = "VALIDATION_FAILURE"
	FindingReferentialIntegrity  = "REFERENTIAL_INTEGRITY"
	FindingUniqueConstraints     = "UNIQUE_CONSTRAINTS"
	FindingRequiredFields        = "REQUIRED_FIELDS"
	FindingDataQuality           = "DATA_QUALITY"
	FindingHighViolationCount    = "HIGH_VIOLATION_COUNT"
	FindingLowFixablePercentage  = "LOW_FIXABLE_PERCENTAGE"
	FindingDatabaseConnection    = "DATABASE_CONNECTION"
	FindingInsufficientDiskSpace = "INSUFFICIENT_DISK_SPACE"
	FindingBackupStatus          = "BACKUP_STATUS"
)

const (
	categoryData   = "data"
	categorySystem = "system"
)

// Confidence penalties.
const (
	blockerPenalty = 25
	warningPenalty = 5
	// Quality below this score costs two points per missing point.
	qualityBaseline = 95.0
)

// validatorRule names the blocker raised for each validator and how its
// tiers read in messages.
type validatorRule struct {
	finding      string
	criticalNoun string
	highNoun     string
	showMax      bool
}

var validatorRules = map[string]validatorRule{
	domain.ValidatorReferentialIntegrity: {
		finding:      FindingReferentialIntegrity,
		criticalNoun: "referential integrity violations",
		highNoun:     "referential integrity violations",
	},
	domain.ValidatorUniqueConstraints: {
		finding:      FindingUniqueConstraints,
		criticalNoun: "unique constraint violations",
		highNoun:     "unique constraint conflicts",
		showMax:      true,
	},
	domain.ValidatorRequiredFields: {
		finding:      FindingRequiredFields,
		criticalNoun: "required field violations",
		highNoun:     "required field violations",
		showMax:      true,
	},
}

// Decide applies the criteria to the outputs of a completed evaluation. It is
// a pure function of its inputs.
func Decide(criteria domain.Criteria, results domain.ValidationResults, q *domain.QualityReport, checks domain.SystemChecks) domain.Decision {
	if checks == nil {
		checks = domain.SystemChecks{}
	}
	d := domain.Decision{
		Blockers:     criticalBlockers(criteria, results),
		Warnings:     warningThresholds(criteria, results, q),
		SystemChecks: checks,
	}

	sysBlockers, sysWarnings := systemReadiness(checks)
	d.Blockers = append(d.Blockers, sysBlockers...)
	d.Warnings = append(d.Warnings, sysWarnings...)

	d.Confidence = Confidence(len(d.Blockers), len(d.Warnings), qualityScore(q))
	d.Fixes = aggregateFixes(results, q)
	d.Recommendation = Recommend(d.Blockers, d.Warnings)
	d.Summary = summarize(d)
	return d
}

func criticalBlockers(criteria domain.Criteria, results domain.ValidationResults) []domain.DecisionFinding {
	blockers := []domain.DecisionFinding{}
	for _, r := range results.Reports() {
		rule, ok := validatorRules[r.Validator]
		if !ok {
			continue
		}
		th := criteria.ThresholdFor(r.Validator)

		if critical := r.ViolationsWithSeverity(domain.SeverityCritical); len(critical) > th.Critical {
			blockers = append(blockers, domain.DecisionFinding{
				Type:     rule.finding,
				Severity: domain.SeverityCritical,
				Message:  fmt.Sprintf("%d critical %s found", len(critical), rule.criticalNoun),
				Category: categoryData,
				Details:  critical,
			})
		}
		if high := r.ViolationsWithSeverity(domain.SeverityHigh); len(high) > th.High {
			msg := fmt.Sprintf("%d high-severity %s found", len(high), rule.highNoun)
			if rule.showMax {
				msg += fmt.Sprintf(" (max: %d)", th.High)
			}
			blockers = append(blockers, domain.DecisionFinding{
				Type:     rule.finding,
				Severity: domain.SeverityHigh,
				Message:  msg,
				Category: categoryData,
				Details:  high,
			})
		}
	}
	return blockers
}

func warningThresholds(criteria domain.Criteria, results domain.ValidationResults, q *domain.QualityReport) []domain.DecisionFinding {
	warnings := []domain.DecisionFinding{}

	if score := qualityScore(q); score < criteria.MinQualityScore {
		warnings = append(warnings, domain.DecisionFinding{
			Type:     FindingDataQuality,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("Data quality score %.1f%% below %g%% threshold", score, criteria.MinQualityScore),
			Impact:   "Migration may succeed but data quality issues will persist",
			Category: "quality",
		})
	}

	total, fixable := 0, 0
	for _, r := range results.Reports() {
		total += r.Summary.TotalViolations
		fixable += r.Summary.FixableCount
	}
	if total > criteria.MaxTotalViolations {
		warnings = append(warnings, domain.DecisionFinding{
			Type:     FindingHighViolationCount,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("Total violations (%d) exceed threshold (%d)", total, criteria.MaxTotalViolations),
			Impact:   "High number of data issues may require extensive post-migration cleanup",
			Category: "volume",
		})
	}

	if pct := FixablePercentage(fixable, total); pct < criteria.MinFixablePercent {
		warnings = append(warnings, domain.DecisionFinding{
			Type:     FindingLowFixablePercentage,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("Only %.1f%% of violations are fixable (target: %g%%)", pct, criteria.MinFixablePercent),
			Impact:   "Many data issues cannot be automatically resolved",
			Category: "fixability",
		})
	}
	return warnings
}

// FixablePercentage is 100 when there is nothing to fix.
func FixablePercentage(fixable, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(fixable*100) / float64(total)
}

// systemReadiness promotes failed probes. A probe absent from checks was not
// run and raises nothing.
func systemReadiness(checks domain.SystemChecks) (blockers, warnings []domain.DecisionFinding) {
	failed := func(name string) bool {
		ok, ran := checks[name]
		return ran && !ok
	}
	if failed(domain.CheckDatabaseConnection) {
		blockers = append(blockers, domain.DecisionFinding{
			Type:     FindingDatabaseConnection,
			Severity: domain.SeverityCritical,
			Message:  "Cannot connect to database",
			Category: categorySystem,
		})
	}
	if failed(domain.CheckDiskSpace) {
		blockers = append(blockers, domain.DecisionFinding{
			Type:     FindingInsufficientDiskSpace,
			Severity: domain.SeverityCritical,
			Message:  "Insufficient disk space for migration",
			Category: categorySystem,
		})
	}
	if failed(domain.CheckBackupStatus) {
		warnings = append(warnings, domain.DecisionFinding{
			Type:     FindingBackupStatus,
			Severity: domain.SeverityWarning,
			Message:  "Backup status could not be verified",
			Category: categorySystem,
		})
	}
	return blockers, warnings
}

// Confidence starts at 100 and loses 25 per blocker, 5 per warning and twice
// the quality deficit below 95, clamped to [0,100].
func Confidence(blockers, warnings int, qualityScore float64) int {
	c := 100.0 - float64(blockers*blockerPenalty) - float64(warnings*warningPenalty)
	if qualityScore < qualityBaseline {
		c -= (qualityBaseline - qualityScore) * 2
	}
	return int(math.Round(max(0, min(100, c))))
}

// Recommend maps blocker and warning presence to a recommendation. It never
// looks at confidence.
func Recommend(blockers, warnings []domain.DecisionFinding) domain.Recommendation {
	switch {
	case slices.ContainsFunc(blockers, func(b domain.DecisionFinding) bool { return b.Severity == domain.SeverityCritical }):
		return domain.RecommendBlock
	case len(blockers) > 0:
		return domain.RecommendDelay
	case len(warnings) > 0:
		return domain.RecommendProceedWithCaution
	default:
		return domain.RecommendGo
	}
}

// aggregateFixes concatenates upstream recommendations in validator order,
// then quality, and stable-sorts them by priority.
func aggregateFixes(results domain.ValidationResults, q *domain.QualityReport) []domain.RemediationAction {
	fixes := []domain.RemediationAction{}
	for _, r := range results.Reports() {
		fixes = append(fixes, r.Recommendations...)
	}
	if q != nil {
		fixes = append(fixes, q.Recommendations...)
	}
	for i := range fixes {
		if fixes[i].Category == "" {
			fixes[i].Category = categoryData
		}
	}
	domain.SortActions(fixes)
	return fixes
}

// qualityScore treats a missing quality report as a perfect score.
func qualityScore(q *domain.QualityReport) float64 {
	if q == nil {
		return 100
	}
	return q.OverallScore
}

func summarize(d domain.Decision) domain.DecisionSummary {
	s := domain.DecisionSummary{
		TotalBlockers:  len(d.Blockers),
		TotalWarnings:  len(d.Warnings),
		TotalFixes:     len(d.Fixes),
		Recommendation: d.Recommendation,
		Confidence:     d.Confidence,
	}
	for _, f := range d.Fixes {
		if f.Automated {
			s.AutomatedFixes++
		}
	}
	return s
}
