package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/migrakit/migrakit/internal/domain"
)

var dimensionWeights = map[domain.Dimension]float64{
	domain.DimensionCompleteness: domain.WeightCompleteness,
	domain.DimensionAccuracy:     domain.WeightAccuracy,
	domain.DimensionConsistency:  domain.WeightConsistency,
	domain.DimensionValidity:     domain.WeightValidity,
}

// RenderQuality renders a data quality report.
func RenderQuality(q *domain.QualityReport) string {
	var b strings.Builder

	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(scoreColor(q.OverallScore)).
		Render(fmt.Sprintf("%.2f / 100  %s", q.OverallScore, q.QualityLevel))
	b.WriteString(boxStyle.Render(headerStyle.Render("Data Quality") + "\n\n" + scoreStyled + "  " + statusStyled(q.Status)))
	b.WriteString("\n\n")

	renderMetrics(&b, q.Metrics)

	if len(q.Issues) > 0 {
		b.WriteString("\n  " + separatorLine + "\n\n")
		fmt.Fprintf(&b, "  %s %s\n",
			sectionHeaderStyle.Render("Issues"),
			dimStyle.Render(fmt.Sprintf("(%d)", len(q.Issues))),
		)
		for _, v := range q.Issues {
			renderViolation(&b, v)
		}
	}

	if len(q.Recommendations) > 0 {
		b.WriteString("\n")
		b.WriteString("  " + sectionHeaderStyle.Render("Recommendations") + "\n")
		for _, r := range q.Recommendations {
			renderAction(&b, r)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func renderMetrics(b *strings.Builder, metrics []domain.QualityMetric) {
	for _, m := range metrics {
		name := titleStyle.Render(padRight(CheckTitle(string(m.Dimension)), 16))
		score := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(m.Score)).Render(fmt.Sprintf("%6.2f", m.Score))
		weight := dimStyle.Render(fmt.Sprintf("%d%%", int(dimensionWeights[m.Dimension]*100)))
		fmt.Fprintf(b, "  %s %s  %s %s\n", name, coloredBar(m.Score, 20), score, weight)
		if m.Note != "" {
			fmt.Fprintf(b, "    %s\n", faintStyle.Render(m.Note))
		}

		for _, sc := range m.Details {
			var icon string
			switch {
			case sc.Score >= 90:
				icon = passStyle.Render("●")
			case sc.Score >= 60:
				icon = warnStyle.Render("●")
			default:
				icon = failStyle.Render("●")
			}
			line := fmt.Sprintf("    %s %s %s", icon, padRight(sc.Check, 28), dimStyle.Render(fmt.Sprintf("%.2f", sc.Score)))
			if sc.Note != "" {
				line += "  " + faintStyle.Render(sc.Note)
			}
			b.WriteString(line + "\n")
		}
	}
}
