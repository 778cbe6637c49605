package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"moviedeck-cli/model"
)

type movieItem struct {
	movie    model.Movie
	favorite bool
}

func (m movieItem) Title() string {
	title := m.movie.Title
	if year := m.movie.Year(); year != "" {
		title = fmt.Sprintf("%s (%s)", title, year)
	}
	if m.favorite {
		title = "♥ " + title
	}
	return title
}

func (m movieItem) Description() string {
	parts := []string{}
	if m.movie.VoteCount > 0 || m.movie.VoteAverage > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f (%d votes)", m.movie.VoteAverage, m.movie.VoteCount))
	}
	if lang := strings.ToUpper(m.movie.OriginalLanguage); lang != "" {
		parts = append(parts, lang)
	}
	if m.movie.OriginalTitle != "" && m.movie.OriginalTitle != m.movie.Title {
		parts = append(parts, m.movie.OriginalTitle)
	}
	return strings.Join(parts, " • ")
}

func (m movieItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{m.movie.Title, m.movie.OriginalTitle, m.movie.Year()}, " "))
}

type historyItem struct {
	query string
}

func (h historyItem) Title() string       { return h.query }
func (h historyItem) Description() string { return "Recent search" }
func (h historyItem) FilterValue() string { return strings.ToLower(h.query) }

func buildMovieItems(movies []model.Movie, isFavorite func(int64) bool) []list.Item {
	items := make([]list.Item, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movieItem{
			movie:    movie,
			favorite: isFavorite != nil && isFavorite(movie.ID),
		})
	}
	return items
}

func buildHistoryItems(queries []string) []list.Item {
	items := make([]list.Item, 0, len(queries))
	for _, query := range queries {
		if strings.TrimSpace(query) == "" {
			continue
		}
		items = append(items, historyItem{query: query})
	}
	return items
}
