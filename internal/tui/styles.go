package tui

import (
	"github.com/charmbracelet/lipgloss"

	"tasktrack/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color

	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color

	Pending    lipgloss.Color
	InProgress lipgloss.Color
	Completed  lipgloss.Color
	Cancelled  lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal:   lipgloss.Color("#DFE6E9"),
	TitleSelected: lipgloss.Color("#FFEAA7"),

	Pending:    lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Completed:  lipgloss.Color("#00B894"), // Green
	Cancelled:  lipgloss.Color("#636E72"), // Gray
}

// Styles contains the lipgloss styles for the TUI.
type Styles struct {
	App    lipgloss.Style
	Header lipgloss.Style

	TaskNormal   lipgloss.Style
	TaskSelected lipgloss.Style
	TaskID       lipgloss.Style
	TaskOverdue  lipgloss.Style

	StatusPending    lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusCompleted  lipgloss.Style
	StatusCancelled  lipgloss.Style

	StatusLine lipgloss.Style
	ErrorText  lipgloss.Style
	HelpText   lipgloss.Style
}

// DefaultStyles returns the default TUI styles.
func DefaultStyles() Styles {
	return Styles{
		App:    lipgloss.NewStyle().Padding(0, 1),
		Header: lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary).MarginBottom(1),

		TaskNormal:   lipgloss.NewStyle().Foreground(Colors.TitleNormal),
		TaskSelected: lipgloss.NewStyle().Foreground(Colors.TitleSelected).Bold(true),
		TaskID:       lipgloss.NewStyle().Foreground(Colors.Muted),
		TaskOverdue:  lipgloss.NewStyle().Foreground(Colors.Error),

		StatusPending:    lipgloss.NewStyle().Foreground(Colors.Pending),
		StatusInProgress: lipgloss.NewStyle().Foreground(Colors.InProgress),
		StatusCompleted:  lipgloss.NewStyle().Foreground(Colors.Completed),
		StatusCancelled:  lipgloss.NewStyle().Foreground(Colors.Cancelled),

		StatusLine: lipgloss.NewStyle().Foreground(Colors.Muted).MarginTop(1),
		ErrorText:  lipgloss.NewStyle().Foreground(Colors.Error),
		HelpText:   lipgloss.NewStyle().Foreground(Colors.Muted),
	}
}

// StatusStyle returns the style for a task status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusPending:
		return s.StatusPending
	case domain.StatusInProgress:
		return s.StatusInProgress
	case domain.StatusCompleted:
		return s.StatusCompleted
	case domain.StatusCancelled:
		return s.StatusCancelled
	default:
		return s.TaskNormal
	}
}
