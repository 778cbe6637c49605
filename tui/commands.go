package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"moviedeck-cli/model"
	"moviedeck-cli/state"
	"moviedeck-cli/store"
)

type errMsg struct {
	err error
}

type bootMsg struct {
	auth      state.AuthSnapshot
	theme     model.ThemeMode
	favorites int
}

type authMsg struct {
	err error
}

type listMsg struct {
	kind state.ListKind
	err  error
}

type detailsMsg struct {
	movieID int64
	err     error
}

type favoriteMsg struct {
	movie model.Movie
	added bool
}

type themeMsg struct {
	mode model.ThemeMode
}

type historyMsg struct {
	queries []string
}

type logoutMsg struct{}

func (m appModel) bootCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		snap := m.deps.Auth.Restore(ctx)
		favorites := m.deps.Favorites.Load(ctx)
		mode := m.deps.Theme.Mode()
		return bootMsg{auth: snap, theme: mode, favorites: len(favorites)}
	}
}

func (m appModel) loginCmd(creds model.LoginCredentials) tea.Cmd {
	return func() tea.Msg {
		return authMsg{err: m.deps.Auth.Login(context.Background(), creds.Username, creds.Password)}
	}
}

func (m appModel) registerCmd(creds model.RegisterCredentials) tea.Cmd {
	return func() tea.Msg {
		return authMsg{err: m.deps.Auth.Register(context.Background(), creds)}
	}
}

func (m appModel) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		m.deps.Auth.Logout(context.Background())
		return logoutMsg{}
	}
}

func (m appModel) fetchListCmd(kind state.ListKind) tea.Cmd {
	return func() tea.Msg {
		return listMsg{kind: kind, err: m.deps.Movies.Fetch(context.Background(), kind, 1)}
	}
}

func (m appModel) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		err := m.deps.Movies.Search(ctx, query, 1)
		if err == nil && m.deps.Store != nil {
			if rememberErr := store.RememberSearch(ctx, m.deps.Store, query); rememberErr != nil {
				m.deps.Logger.Warn("remember search", "error", rememberErr)
			}
		}
		return listMsg{kind: state.ListSearch, err: err}
	}
}

func (m appModel) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		if m.deps.Store == nil {
			return historyMsg{}
		}
		queries, err := store.LoadRecentSearches(context.Background(), m.deps.Store)
		if err != nil {
			m.deps.Logger.Warn("load search history", "error", err)
		}
		return historyMsg{queries: queries}
	}
}

func (m appModel) fetchDetailsCmd(movieID int64) tea.Cmd {
	return func() tea.Msg {
		return detailsMsg{movieID: movieID, err: m.deps.Movies.SelectMovie(context.Background(), movieID)}
	}
}

func (m appModel) toggleFavoriteCmd(movie model.Movie) tea.Cmd {
	return func() tea.Msg {
		added := m.deps.Favorites.Toggle(context.Background(), movie)
		return favoriteMsg{movie: movie, added: added}
	}
}

func (m appModel) toggleThemeCmd() tea.Cmd {
	return func() tea.Msg {
		return themeMsg{mode: m.deps.Theme.Toggle(context.Background())}
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if url == "" {
			return errMsg{err: errors.New("this movie has no homepage")}
		}
		if err := openURL(url); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func openURL(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("unsupported OS for opening browser: %s", runtime.GOOS)
	}
}
