package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"moviedeck-cli/model"
)

type palette struct {
	primary       lipgloss.Color
	secondary     lipgloss.Color
	background    lipgloss.Color
	card          lipgloss.Color
	text          lipgloss.Color
	textSecondary lipgloss.Color
	border        lipgloss.Color
	success       lipgloss.Color
	failure       lipgloss.Color
}

var (
	lightPalette = palette{
		primary:       lipgloss.Color("#E50914"),
		secondary:     lipgloss.Color("#221F1F"),
		background:    lipgloss.Color("#FFFFFF"),
		card:          lipgloss.Color("#F5F5F5"),
		text:          lipgloss.Color("#000000"),
		textSecondary: lipgloss.Color("#757575"),
		border:        lipgloss.Color("#E0E0E0"),
		success:       lipgloss.Color("#4CAF50"),
		failure:       lipgloss.Color("#F44336"),
	}
	darkPalette = palette{
		primary:       lipgloss.Color("#E50914"),
		secondary:     lipgloss.Color("#831010"),
		background:    lipgloss.Color("#121212"),
		card:          lipgloss.Color("#1E1E1E"),
		text:          lipgloss.Color("#FFFFFF"),
		textSecondary: lipgloss.Color("#B3B3B3"),
		border:        lipgloss.Color("#2C2C2C"),
		success:       lipgloss.Color("#4CAF50"),
		failure:       lipgloss.Color("#F44336"),
	}
)

func paletteFor(mode model.ThemeMode) palette {
	if mode == model.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

type styles struct {
	mode      model.ThemeMode
	title     lipgloss.Style
	subtle    lipgloss.Style
	text      lipgloss.Style
	accent    lipgloss.Style
	errorText lipgloss.Style
	success   lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	panel     lipgloss.Style
	label     lipgloss.Style
	heart     lipgloss.Style
}

func newStyles(mode model.ThemeMode) styles {
	p := paletteFor(mode)
	return styles{
		mode:      mode,
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		subtle:    lipgloss.NewStyle().Foreground(p.textSecondary),
		text:      lipgloss.NewStyle().Foreground(p.text),
		accent:    lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		errorText: lipgloss.NewStyle().Foreground(p.failure),
		success:   lipgloss.NewStyle().Foreground(p.success),
		tab: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(p.textSecondary).
			Background(p.card),
		activeTab: lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(p.primary),
		panel: lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border),
		label: lipgloss.NewStyle().Bold(true).Foreground(p.text).Width(14),
		heart: lipgloss.NewStyle().Foreground(p.primary),
	}
}

// applyList restyles a list for the current palette.
func (s styles) applyList(l *list.Model) {
	p := paletteFor(s.mode)
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(p.text)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.Foreground(p.textSecondary)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(p.primary).
		BorderLeftForeground(p.primary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(p.textSecondary).
		BorderLeftForeground(p.primary)
	l.SetDelegate(delegate)
	l.Styles.Title = l.Styles.Title.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(p.primary)
}
