package tui

import (
	"fmt"
	"strings"

	"moviedeck-cli/model"
	"moviedeck-cli/service"
)

func (m appModel) detailsView() string {
	slot := m.moviesSnapshot().Details
	switch {
	case slot.Loading || (slot.Movie == nil && slot.Err == "" && m.selectedID != 0):
		return m.loadingView("Loading movie details")
	case slot.Err != "" && slot.Movie == nil:
		return m.styles.errorText.Render(slot.Err) + "\n\n" + hint("Press r to retry or esc to go back.")
	case slot.Movie == nil:
		return m.styles.subtle.Render("No movie selected.")
	}
	return m.renderDetails(*slot.Movie)
}

func (m appModel) renderDetails(d model.MovieDetails) string {
	s := m.styles
	title := d.Title
	if year := d.Year(); year != "" {
		title = fmt.Sprintf("%s (%s)", title, year)
	}
	if m.isFavorite(d.ID) {
		title = s.heart.Render("♥ ") + title
	}

	lines := []string{s.title.Render(title)}
	if d.Tagline != "" {
		lines = append(lines, s.subtle.Render(d.Tagline))
	}
	lines = append(lines, "")

	field := func(label string, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		lines = append(lines, s.label.Render(label)+s.text.Render(value))
	}
	field("Rating", fmt.Sprintf("★ %.1f (%d votes)", d.VoteAverage, d.VoteCount))
	field("Released", d.ReleaseDate)
	field("Runtime", formatRuntime(d.Runtime))
	field("Genres", strings.Join(d.GenreNames(), ", "))
	field("Status", d.Status)
	field("Language", strings.ToUpper(d.OriginalLanguage))
	if d.OriginalTitle != d.Title {
		field("Original", d.OriginalTitle)
	}
	field("Budget", model.FormatUSD(d.Budget))
	field("Revenue", model.FormatUSD(d.Revenue))
	field("Studios", joinCompanies(d.ProductionCompanies))
	field("Countries", joinCountries(d.ProductionCountries))
	field("Homepage", d.Homepage)
	field("Poster", service.PosterURL(d.PosterPath))

	if overview := strings.TrimSpace(d.Overview); overview != "" {
		lines = append(lines, "", s.accent.Render("Overview"), wrapText(overview, m.wrapWidth()))
	}
	return s.panel.Render(strings.Join(lines, "\n"))
}

func (m appModel) wrapWidth() int {
	if m.width <= 0 {
		return 72
	}
	width := m.width - 10
	if width < 20 {
		width = 20
	}
	return width
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func joinCompanies(companies []model.ProductionCompany) string {
	names := make([]string, 0, len(companies))
	for _, company := range companies {
		if company.Name != "" {
			names = append(names, company.Name)
		}
	}
	return strings.Join(names, ", ")
}

func joinCountries(countries []model.ProductionCountry) string {
	names := make([]string, 0, len(countries))
	for _, country := range countries {
		if country.Name != "" {
			names = append(names, country.Name)
		}
	}
	return strings.Join(names, ", ")
}

func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 {
			if lineLen+1+len([]rune(word)) > width {
				b.WriteByte('\n')
				lineLen = 0
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}
		b.WriteString(word)
		lineLen += len([]rune(word))
	}
	return b.String()
}
