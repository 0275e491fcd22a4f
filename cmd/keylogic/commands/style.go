package commands

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/trackerlab/keylogic/pkg/access"
)

type styles struct {
	title lipgloss.Style
	muted lipgloss.Style
	good  lipgloss.Style
	bad   lipgloss.Style
	level map[access.Level]lipgloss.Style
}

// newStyles binds styles to w so colour is dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF99")),
		muted: r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		good:  r.NewStyle().Foreground(lipgloss.Color("#00CC66")),
		bad:   r.NewStyle().Foreground(lipgloss.Color("#FF5555")),
		level: map[access.Level]lipgloss.Style{
			access.None:          r.NewStyle().Foreground(lipgloss.Color("#FF5555")),
			access.Inspect:       r.NewStyle().Foreground(lipgloss.Color("#5599FF")),
			access.Partial:       r.NewStyle().Foreground(lipgloss.Color("#FFAA00")),
			access.SequenceBreak: r.NewStyle().Foreground(lipgloss.Color("#FFFF55")),
			access.Normal:        r.NewStyle().Foreground(lipgloss.Color("#00CC66")),
			access.Cleared:       r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		},
	}
}
