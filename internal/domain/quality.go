package domain

import "math"

// Dimension is one axis of the data quality score.
type Dimension string

const (
	DimensionCompleteness Dimension = "completeness"
	DimensionAccuracy     Dimension = "accuracy"
	DimensionConsistency  Dimension = "consistency"
	DimensionValidity     Dimension = "validity"
)

// Dimensions lists the quality dimensions in assessment order.
var Dimensions = []Dimension{
	DimensionCompleteness,
	DimensionAccuracy,
	DimensionConsistency,
	DimensionValidity,
}

// Dimension weights of the overall score. They sum to 1.0.
const (
	WeightCompleteness = 0.4
	WeightAccuracy     = 0.3
	WeightConsistency  = 0.2
	WeightValidity     = 0.1
)

// QualityPassScore is the overall score at or above which a dataset passes.
const QualityPassScore = 99.0

// QualityLevel buckets the overall quality score.
type QualityLevel string

const (
	QualityExcellent QualityLevel = "EXCELLENT"
	QualityGood      QualityLevel = "GOOD"
	QualityFair      QualityLevel = "FAIR"
	QualityPoor      QualityLevel = "POOR"
	QualityCritical  QualityLevel = "CRITICAL"
)

func QualityLevelFor(score float64) QualityLevel {
	switch {
	case score >= 90:
		return QualityExcellent
	case score >= 80:
		return QualityGood
	case score >= 70:
		return QualityFair
	case score >= 60:
		return QualityPoor
	default:
		return QualityCritical
	}
}

// QualityStatusFor is PASSED only at or above QualityPassScore.
func QualityStatusFor(score float64) Status {
	if score >= QualityPassScore {
		return StatusPassed
	}
	return StatusWarning
}

// QualityBreakdown holds the four dimension scores.
type QualityBreakdown struct {
	Completeness float64 `json:"completeness" yaml:"completeness"`
	Accuracy     float64 `json:"accuracy"     yaml:"accuracy"`
	Consistency  float64 `json:"consistency"  yaml:"consistency"`
	Validity     float64 `json:"validity"     yaml:"validity"`
}

// Overall is the fixed linear combination of the dimension scores.
func (b QualityBreakdown) Overall() float64 {
	return b.Completeness*WeightCompleteness +
		b.Accuracy*WeightAccuracy +
		b.Consistency*WeightConsistency +
		b.Validity*WeightValidity
}

// Rounded returns the breakdown with every score rounded to two decimals.
func (b QualityBreakdown) Rounded() QualityBreakdown {
	return QualityBreakdown{
		Completeness: RoundScore(b.Completeness),
		Accuracy:     RoundScore(b.Accuracy),
		Consistency:  RoundScore(b.Consistency),
		Validity:     RoundScore(b.Validity),
	}
}

// RoundScore rounds to two decimals.
func RoundScore(score float64) float64 {
	return math.Round(score*100) / 100
}

// SubCheckResult is the outcome of one quality sub-check. Details keys are
// documented on the producing sub-check.
type SubCheckResult struct {
	Check   string         `json:"check"             yaml:"check"`
	Entity  string         `json:"entity,omitempty"  yaml:"entity,omitempty"`
	Score   float64        `json:"score"             yaml:"score"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Note    string         `json:"note,omitempty"    yaml:"note,omitempty"`
}

// QualityMetric is the score of one dimension: the mean of its sub-checks.
type QualityMetric struct {
	Dimension Dimension        `json:"dimension"     yaml:"dimension"`
	Score     float64          `json:"score"         yaml:"score"`
	Details   []SubCheckResult `json:"details"       yaml:"details"`
	Note      string           `json:"note,omitempty" yaml:"note,omitempty"`
}

// QualityReport is the output of a data quality assessment.
type QualityReport struct {
	OverallScore    float64             `json:"overall_score"   yaml:"overall_score"`
	QualityLevel    QualityLevel        `json:"quality_level"   yaml:"quality_level"`
	Status          Status              `json:"status"          yaml:"status"`
	Breakdown       QualityBreakdown    `json:"breakdown"       yaml:"breakdown"`
	Metrics         []QualityMetric     `json:"metrics"         yaml:"metrics"`
	Issues          []Violation         `json:"issues"          yaml:"issues"`
	Recommendations []RemediationAction `json:"recommendations" yaml:"recommendations"`
}
