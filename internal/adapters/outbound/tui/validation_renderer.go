package tui

import (
	"fmt"
	"strings"

	"github.com/migrakit/migrakit/internal/domain"
)

// RenderValidation renders one validator report.
func RenderValidation(report *domain.ValidationReport) string {
	var b strings.Builder

	s := report.Summary
	header := titleStyle.Render(CheckTitle(report.Validator)) + "  " + statusStyled(report.Status)
	counts := dimStyle.Render(fmt.Sprintf("%d violations  %d warnings  %d fixable",
		s.TotalViolations, s.TotalWarnings, s.FixableCount))
	b.WriteString(boxStyle.Render(header + "\n" + counts))
	b.WriteString("\n")

	renderViolationSection(&b, "Violations", report.Violations)
	renderViolationSection(&b, "Warnings", report.Warnings)

	if len(report.Recommendations) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n",
			sectionHeaderStyle.Render("Recommendations"),
			dimStyle.Render(fmt.Sprintf("(%d)", len(report.Recommendations))),
		)
		for _, r := range report.Recommendations {
			renderAction(&b, r)
		}
	}

	if s.TotalViolations == 0 && s.TotalWarnings == 0 {
		b.WriteString("\n  " + passStyle.Render("No issues found.") + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func renderViolationSection(b *strings.Builder, title string, items []domain.Violation) {
	if len(items) == 0 {
		return
	}

	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n",
		sectionHeaderStyle.Render(title),
		dimStyle.Render(fmt.Sprintf("(%d)", len(items))),
	)
	for _, v := range items {
		renderViolation(b, v)
	}
}

func renderViolation(b *strings.Builder, v domain.Violation) {
	entity := v.Entity
	if v.Kind == domain.KindSystemError {
		entity = CheckTitle(entity)
	}
	if v.Field != "" {
		entity += "." + v.Field
	}
	fmt.Fprintf(b, "    %s %s  %s\n", severityTag(v.Severity), entityStyle.Render(entity), v.Message)
	fmt.Fprintf(b, "             %s\n", faintStyle.Render(fmt.Sprintf("%s × %d", v.Kind, v.Count)))
	for _, sample := range v.Samples {
		fmt.Fprintf(b, "             %s\n", dimStyle.Render("· "+sample))
	}
}
