package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	stakeholderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	labelStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	detailStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

// renderResults lays out the final report: one block per stakeholder in list order.
func (a *App) renderResults(width int) string {
	wrap := lipgloss.NewStyle().Width(max(20, width))
	title := sectionStyle.Render(fmt.Sprintf("FINAL RESULTS · %d stakeholder(s)", len(a.entries)))
	if len(a.entries) == 0 {
		return title + "\n\n" + mutedStyle.Render("No stakeholders were identified.")
	}
	blocks := []string{title}
	for _, e := range a.entries {
		var b strings.Builder
		b.WriteString(stakeholderStyle.Render("Stakeholder: " + e.Name))
		b.WriteString("\n")
		b.WriteString(wrap.Render(detailStyle.Render("Description: " + e.Description)))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Requirements:"))
		b.WriteString("\n")
		if len(e.Requirements) == 0 {
			b.WriteString(mutedStyle.Render("(none recorded)"))
		}
		for i, req := range e.Requirements {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(wrap.Render("• " + req))
		}
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Persona:"))
		b.WriteString("\n")
		b.WriteString(wrap.Render(e.Persona))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
