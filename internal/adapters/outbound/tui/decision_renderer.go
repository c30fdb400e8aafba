package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/migrakit/migrakit/internal/domain"
)

// RenderDecision renders a full readiness report.
func RenderDecision(report *domain.ReadinessReport) string {
	var b strings.Builder
	d := report.Decision

	// ── Header ──
	title := headerStyle.Render("migrakit")
	subtitle := dimStyle.Render("Migration Readiness")
	recStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(recommendationColor(d.Recommendation)).
		Render(string(d.Recommendation))
	confidence := dimStyle.Render(fmt.Sprintf("confidence %d%%", d.Confidence))
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + recStyled + "  " + confidence))
	b.WriteString("\n\n")

	// ── Validators ──
	reports := report.Validation.Reports()
	if len(reports) > 0 {
		b.WriteString("  " + sectionHeaderStyle.Render("Validation") + "\n")
		for _, r := range reports {
			s := r.Summary
			fmt.Fprintf(&b, "    %s %s %s\n",
				padRight(CheckTitle(r.Validator), 24),
				statusStyled(r.Status),
				dimStyle.Render(fmt.Sprintf("  %d critical  %d high  %d warnings", s.CriticalCount, s.HighCount, s.TotalWarnings)),
			)
		}
		b.WriteString("\n")
	}

	// ── Quality ──
	if q := report.Quality; q != nil {
		score := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(q.OverallScore)).Render(fmt.Sprintf("%.2f", q.OverallScore))
		fmt.Fprintf(&b, "  %s %s  %s %s\n",
			sectionHeaderStyle.Render(padRight("Data Quality", 14)),
			coloredBar(q.OverallScore, 20), score, dimStyle.Render(string(q.QualityLevel)))
		b.WriteString("\n")
	}

	// ── System ──
	if len(d.SystemChecks) > 0 {
		b.WriteString("  " + sectionHeaderStyle.Render("System") + "\n")
		names := make([]string, 0, len(d.SystemChecks))
		for name := range d.SystemChecks {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			icon := passStyle.Render("●")
			if !d.SystemChecks[name] {
				icon = failStyle.Render("○")
			}
			fmt.Fprintf(&b, "    %s %s\n", icon, CheckTitle(name))
		}
		b.WriteString("\n")
	}

	b.WriteString("  " + separatorLine + "\n\n")

	renderFindings(&b, "Blockers", d.Blockers)
	renderFindings(&b, "Warnings", d.Warnings)
	if len(d.Blockers) == 0 && len(d.Warnings) == 0 {
		b.WriteString("  " + passStyle.Render("No blockers or warnings.") + "\n\n")
	}

	if len(d.Fixes) > 0 {
		fmt.Fprintf(&b, "  %s %s\n",
			sectionHeaderStyle.Render("Fixes"),
			dimStyle.Render(fmt.Sprintf("(%d, %d automated)", d.Summary.TotalFixes, d.Summary.AutomatedFixes)),
		)
		for _, f := range d.Fixes {
			renderAction(&b, f)
		}
		b.WriteString("\n")
	}

	// ── Next steps ──
	b.WriteString("  " + sectionHeaderStyle.Render("Next Steps") + "\n")
	for i, step := range report.NextSteps {
		fmt.Fprintf(&b, "    %d. %s\n", i+1, step)
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("run %s  %dms", report.RunID, report.ExecutionMillis)
	if report.CommitHash != "" {
		footer += "  " + shortHash(report.CommitHash)
	}
	b.WriteString("  " + hintStyle.Render(footer) + "\n")
	return b.String()
}

func renderFindings(b *strings.Builder, title string, findings []domain.DecisionFinding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s %s\n",
		sectionHeaderStyle.Render(title),
		dimStyle.Render(fmt.Sprintf("(%d)", len(findings))),
	)
	for _, f := range findings {
		fmt.Fprintf(b, "    %s %s  %s\n", severityTag(f.Severity), entityStyle.Render(f.Type), f.Message)
		for _, v := range f.Details {
			fmt.Fprintf(b, "             %s\n", dimStyle.Render(fmt.Sprintf("· %s: %s (%d)", v.Entity, v.Message, v.Count)))
		}
	}
	b.WriteString("\n")
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		suffix := ""
		if strings.HasSuffix(hash, domain.DirtySuffix) {
			suffix = domain.DirtySuffix
		}
		return hash[:7] + suffix
	}
	return hash
}

// RenderHistory formats the decision history for terminal output.
func RenderHistory(entries []domain.DecisionEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No decision history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Decision History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 60)) + "\n\n")

	for i, e := range entries {
		hash := shortHash(e.CommitHash)
		if hash == "" {
			hash = "·······"
		}
		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}

		rec := lipgloss.NewStyle().
			Foreground(recommendationColor(e.Recommendation)).
			Render(padRight(string(e.Recommendation), 20))

		line := fmt.Sprintf("  %s  %s  %s %3d%%  %s",
			dimStyle.Render(date),
			faintStyle.Render(padRight(hash, 13)),
			rec,
			e.Confidence,
			dimStyle.Render(fmt.Sprintf("quality %.2f", e.QualityScore)),
		)

		if i > 0 {
			diff := e.Confidence - entries[i-1].Confidence
			if diff > 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%d", diff))
			} else if diff < 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%d", -diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
