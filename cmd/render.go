package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"moviedeck-cli/model"
	"moviedeck-cli/service"
	"moviedeck-cli/state"
)

func renderMovies(w io.Writer, list state.MovieList, isFavorite func(int64) bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"", "ID", "Title", "Year", "Rating", "Votes"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: 2},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, WidthMax: 40},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	for _, movie := range list.Movies {
		marker := ""
		if isFavorite != nil && isFavorite(movie.ID) {
			marker = "♥"
		}
		t.AppendRow(table.Row{
			marker,
			movie.ID,
			movie.Title,
			movie.Year(),
			fmt.Sprintf("%.1f", movie.VoteAverage),
			movie.VoteCount,
		})
	}

	if list.TotalPages > 0 {
		t.Style().Format.Footer = text.FormatDefault
		t.AppendFooter(table.Row{"", "", fmt.Sprintf("Page %d of %d • %d results", list.Page, list.TotalPages, list.TotalResults)})
	}
	t.Render()
}

func renderDetails(w io.Writer, d model.MovieDetails, favorite bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	title := d.Title
	if year := d.Year(); year != "" {
		title = fmt.Sprintf("%s (%s)", title, year)
	}
	if favorite {
		title = "♥ " + title
	}
	t.SetTitle(title)
	t.Style().Title.Format = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: 12},
		{Number: 2, WidthMax: 72},
	})

	add := func(label string, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		t.AppendRow(table.Row{label, value})
	}
	add("Tagline", d.Tagline)
	add("Rating", fmt.Sprintf("%.1f (%d votes)", d.VoteAverage, d.VoteCount))
	add("Released", d.ReleaseDate)
	if d.Runtime > 0 {
		add("Runtime", fmt.Sprintf("%d min", d.Runtime))
	}
	add("Genres", strings.Join(d.GenreNames(), ", "))
	add("Status", d.Status)
	add("Language", strings.ToUpper(d.OriginalLanguage))
	if d.OriginalTitle != d.Title {
		add("Original", d.OriginalTitle)
	}
	add("Budget", model.FormatUSD(d.Budget))
	add("Revenue", model.FormatUSD(d.Revenue))
	add("Homepage", d.Homepage)
	add("Poster", service.PosterURL(d.PosterPath))
	add("Overview", d.Overview)
	t.Render()
}

func renderHistory(w io.Writer, queries []string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Query"})
	for i, query := range queries {
		t.AppendRow(table.Row{i + 1, query})
	}
	t.Render()
}

func renderSession(w io.Writer, s model.Session) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRow(table.Row{"Name", s.DisplayName()})
	t.AppendRow(table.Row{"Username", s.Username})
	if s.Email != "" {
		t.AppendRow(table.Row{"Email", s.Email})
	}
	if exp, ok := s.ExpiresAt(); ok {
		t.AppendRow(table.Row{"Expires", exp.Local().Format("2006-01-02 15:04")})
	}
	t.Render()
}
