// Package doctor renders a diagnostics report through a render-once
// bubbletea program so terminal capabilities are handled uniformly with the
// rest of the CLI output.
package doctor

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wrenlabs/notewire/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	report domain.DiagnosticReport
	styles styles
	output string
}

func newModel(report domain.DiagnosticReport) model {
	return model{
		report: report,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.report, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func Render(report domain.DiagnosticReport) (string, error) {
	p := tea.NewProgram(
		newModel(report),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	result, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}
	return result.output, nil
}
