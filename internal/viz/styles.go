package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	warn    lipgloss.Style
	panel   lipgloss.Style
	section lipgloss.Style
}

func stylesFor(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		label: lipgloss.NewStyle().
			Foreground(t.Muted),
		value: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text),
		muted: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true),
		good: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Success),
		bad: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Error),
		warn: lipgloss.NewStyle().
			Foreground(t.Warning),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		section: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
	}
}

// flag renders a yes/no check in the success or error colour.
func (s styles) flag(ok bool, yes, no string) string {
	if ok {
		return s.good.Render(yes)
	}
	return s.bad.Render(no)
}

// rows renders label/value pairs with the labels padded to one width.
func (s styles) rows(pairs [][2]string) string {
	w := 0
	for _, p := range pairs {
		if len(p[0]) > w {
			w = len(p[0])
		}
	}

	lines := make([]string, len(pairs))
	for i, p := range pairs {
		lines[i] = s.label.Render(p[0]+":"+strings.Repeat(" ", w-len(p[0]))) + " " + p[1]
	}
	return strings.Join(lines, "\n")
}

// Separator is a horizontal rule of the given width.
func Separator(width int) string {
	if width < 1 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(strings.Repeat("─", width))
}
