package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/camelcase"
	"github.com/migrakit/migrakit/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
	lime    = lipgloss.Color("#A3E635")
	orange  = lipgloss.Color("#FB923C")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	recommendationColors = map[domain.Recommendation]lipgloss.Color{
		domain.RecommendGo:                 success,
		domain.RecommendProceedWithCaution: lime,
		domain.RecommendDelay:              orange,
		domain.RecommendBlock:              danger,
	}

	dimStyle           = lipgloss.NewStyle().Foreground(dim)
	faintStyle         = lipgloss.NewStyle().Foreground(faint)
	passStyle          = lipgloss.NewStyle().Foreground(success)
	failStyle          = lipgloss.NewStyle().Foreground(danger)
	warnStyle          = lipgloss.NewStyle().Foreground(warning)
	criticalTagStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	highTagStyle       = lipgloss.NewStyle().Foreground(orange).Bold(true)
	mediumTagStyle     = lipgloss.NewStyle().Foreground(warning)
	lowTagStyle        = lipgloss.NewStyle().Foreground(info)
	entityStyle        = lipgloss.NewStyle().Foreground(dim)
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(fg)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
	separatorLine      = faintStyle.Render(strings.Repeat("─", 64))
)

// CheckTitle turns a check or validator name into a heading:
// validateDealCompanyReferences becomes "Deal Company References" and
// referential_integrity becomes "Referential Integrity".
func CheckTitle(name string) string {
	if strings.ContainsAny(name, "_.") {
		words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '.' })
		for i, w := range words {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
		return strings.Join(words, " ")
	}
	words := camelcase.Split(name)
	if len(words) > 1 && (words[0] == "validate" || words[0] == "check") {
		words = words[1:]
	}
	if len(words) > 0 {
		words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	}
	return strings.Join(words, " ")
}

func severityTag(s domain.Severity) string {
	label := padRight(strings.ToLower(string(s)), 8)
	switch s {
	case domain.SeverityCritical:
		return criticalTagStyle.Render(label)
	case domain.SeverityHigh:
		return highTagStyle.Render(label)
	case domain.SeverityMedium, domain.SeverityWarning:
		return mediumTagStyle.Render(label)
	default:
		return lowTagStyle.Render(label)
	}
}

func statusStyled(s domain.Status) string {
	switch s {
	case domain.StatusPassed:
		return passStyle.Bold(true).Render(string(s))
	case domain.StatusWarning:
		return warnStyle.Bold(true).Render(string(s))
	default:
		return failStyle.Bold(true).Render(string(s))
	}
}

func recommendationColor(r domain.Recommendation) lipgloss.Color {
	if c, ok := recommendationColors[r]; ok {
		return c
	}
	return fg
}

func coloredBar(score float64, width int) string {
	filled := max(0, min(int(score)*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score float64) lipgloss.Color {
	switch {
	case score >= 90:
		return success
	case score >= 80:
		return lime
	case score >= 60:
		return warning
	default:
		return danger
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func renderAction(b *strings.Builder, a domain.RemediationAction) {
	tag := severityTag(domain.Severity(a.Priority))
	auto := ""
	if a.Automated {
		auto = "  " + passStyle.Render("auto")
	}
	b.WriteString("    " + tag + " " + titleStyle.Render(string(a.Type)) + "  " + a.Action + auto + "\n")
	if a.Fix != "" {
		b.WriteString("             " + faintStyle.Render(a.Fix) + "\n")
	}
	if a.Impact != "" {
		b.WriteString("             " + dimStyle.Render(a.Impact) + "\n")
	}
}
