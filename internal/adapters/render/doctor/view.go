package doctor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wrenlabs/notewire/internal/domain"
)

type styles struct {
	title     lipgloss.Style
	pass      lipgloss.Style
	fail      lipgloss.Style
	checkName lipgloss.Style
	detail    lipgloss.Style
	rec       lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		pass:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		fail:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		checkName: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		rec:       lipgloss.NewStyle().Foreground(lipgloss.Color("222")),
	}
}

func renderView(report domain.DiagnosticReport, s styles) string {
	lines := []string{s.title.Render("Contract diagnostics")}

	checks := []struct {
		name string
		ok   bool
	}{
		{domain.CheckAddress, report.AddressOK},
		{domain.CheckContract, report.Reachable},
		{domain.CheckCapability, report.CapabilityOK},
		{domain.CheckStorage, report.ReadOK},
	}

	for _, check := range checks {
		lines = append(lines, checkLine(check.name, check.ok, report.Errors[check.name], s))
	}

	for _, rec := range report.Recommendations() {
		lines = append(lines, s.rec.Render("  - "+rec))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func checkLine(name string, ok bool, detail string, s styles) string {
	verdict := s.pass.Render("pass")
	if !ok {
		verdict = s.fail.Render("FAIL")
	}

	line := "  " + verdict + " " + s.checkName.Render(name)
	if detail != "" {
		line += " " + s.detail.Render("("+detail+")")
	}
	return line
}
