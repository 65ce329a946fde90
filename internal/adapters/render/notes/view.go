// Package notes renders note listings for the terminal.
package notes

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wrenlabs/notewire/internal/domain"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	id      lipgloss.Style
	noteRow lipgloss.Style
	time    lipgloss.Style
	empty   lipgloss.Style
	notice  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		id:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		noteRow: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		time:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		empty:   lipgloss.NewStyle().Faint(true),
		notice:  lipgloss.NewStyle().Foreground(lipgloss.Color("222")),
	}
}

// RenderList formats the cached list projection. NotYetVisible ids are
// confirmed writes the list has not caught up with; they are surfaced as a
// notice, not an error.
func RenderList(summaries []domain.NoteSummary, notYetVisible []uint64) string {
	s := newStyles()
	lines := []string{
		s.title.Render("Notes"),
		s.header.Render(fmt.Sprintf("notes: %d", len(summaries))),
	}

	if len(summaries) == 0 {
		lines = append(lines, s.empty.Render("No notes yet. Create one with: notewire new"))
	}
	for _, summary := range summaries {
		lines = append(lines, s.noteRow.Render(fmt.Sprintf("  %s %s %s",
			s.id.Render(fmt.Sprintf("#%d", summary.ID)),
			summary.Title,
			s.time.Render(summary.UpdatedAt.Format(time.RFC3339)),
		)))
	}

	for _, id := range notYetVisible {
		lines = append(lines, s.notice.Render(fmt.Sprintf("note #%d is confirmed but not yet visible in the list; refresh again shortly", id)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderNote formats one full note.
func RenderNote(note domain.Note) string {
	s := newStyles()
	return lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render(fmt.Sprintf("#%d %s", note.ID, note.Title)),
		s.time.Render("updated "+note.UpdatedAt.Format(time.RFC3339)),
		"",
		s.noteRow.Render(note.Content),
	)
}
