package state

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"moviedeck-cli/model"
)

type ListKind int

const (
	ListTrending ListKind = iota
	ListPopular
	ListTopRated
	ListSearch
	listKinds
)

func (k ListKind) String() string {
	switch k {
	case ListTrending:
		return "trending"
	case ListPopular:
		return "popular"
	case ListTopRated:
		return "top rated"
	case ListSearch:
		return "search"
	default:
		return "unknown"
	}
}

func (k ListKind) failureMessage() string {
	switch k {
	case ListTrending:
		return "Failed to fetch trending movies"
	case ListPopular:
		return "Failed to fetch popular movies"
	case ListTopRated:
		return "Failed to fetch top rated movies"
	default:
		return "Failed to search movies"
	}
}

type Catalog interface {
	Trending(ctx context.Context, page int) (model.MoviesPage, error)
	Popular(ctx context.Context, page int) (model.MoviesPage, error)
	TopRated(ctx context.Context, page int) (model.MoviesPage, error)
	Search(ctx context.Context, query string, page int) (model.MoviesPage, error)
	Details(ctx context.Context, movieID int64) (model.MovieDetails, error)
}

type MovieList struct {
	Movies       []model.Movie
	Page         int
	TotalPages   int
	TotalResults int
	Query        string
	Loading      bool
	Loaded       bool
	Err          string
}

type DetailsSlot struct {
	ID      int64
	Movie   *model.MovieDetails
	Loading bool
	Err     string
}

type MoviesSnapshot struct {
	Lists   [listKinds]MovieList
	Details DetailsSlot
	Err     string
}

func (s MoviesSnapshot) List(kind ListKind) MovieList {
	if kind < 0 || kind >= listKinds {
		return MovieList{}
	}
	return s.Lists[kind]
}

func (s MoviesSnapshot) Loading() bool {
	for _, list := range s.Lists {
		if list.Loading {
			return true
		}
	}
	return s.Details.Loading
}

// Movies tracks each list slice and the selected details independently.
// Every request takes a token; a completion whose token is no longer current is dropped.
type Movies struct {
	catalog Catalog
	logger  *slog.Logger

	mu           sync.Mutex
	lists        [listKinds]MovieList
	listTokens   [listKinds]uint64
	details      DetailsSlot
	detailsToken uint64
	err          string
}

func NewMovies(catalog Catalog, logger *slog.Logger) *Movies {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Movies{
		catalog: catalog,
		logger:  logger.With("component", "movies"),
	}
}

func (m *Movies) FetchTrending(ctx context.Context, page int) error {
	return m.Fetch(ctx, ListTrending, page)
}

func (m *Movies) FetchPopular(ctx context.Context, page int) error {
	return m.Fetch(ctx, ListPopular, page)
}

func (m *Movies) FetchTopRated(ctx context.Context, page int) error {
	return m.Fetch(ctx, ListTopRated, page)
}

// Fetch loads one of the browse lists. ListSearch re-runs the last query.
func (m *Movies) Fetch(ctx context.Context, kind ListKind, page int) error {
	switch kind {
	case ListTrending:
		return m.fetchList(ctx, kind, page, "", m.catalog.Trending)
	case ListPopular:
		return m.fetchList(ctx, kind, page, "", m.catalog.Popular)
	case ListTopRated:
		return m.fetchList(ctx, kind, page, "", m.catalog.TopRated)
	case ListSearch:
		m.mu.Lock()
		query := m.lists[ListSearch].Query
		m.mu.Unlock()
		return m.Search(ctx, query, page)
	default:
		return nil
	}
}

// Search runs a catalog search. A blank query resets the search slice without a request.
func (m *Movies) Search(ctx context.Context, query string, page int) error {
	query = strings.TrimSpace(query)
	if query == "" {
		m.mu.Lock()
		m.listTokens[ListSearch]++
		m.lists[ListSearch] = MovieList{}
		m.mu.Unlock()
		return nil
	}
	return m.fetchList(ctx, ListSearch, page, query, func(ctx context.Context, page int) (model.MoviesPage, error) {
		return m.catalog.Search(ctx, query, page)
	})
}

func (m *Movies) fetchList(ctx context.Context, kind ListKind, page int, query string, call func(context.Context, int) (model.MoviesPage, error)) error {
	m.mu.Lock()
	m.listTokens[kind]++
	token := m.listTokens[kind]
	m.lists[kind].Loading = true
	m.lists[kind].Err = ""
	m.mu.Unlock()

	result, err := call(ctx, page)

	m.mu.Lock()
	defer m.mu.Unlock()
	if token != m.listTokens[kind] {
		m.logger.Debug("discarding stale list response", "list", kind.String(), "page", page)
		return nil
	}

	list := &m.lists[kind]
	list.Loading = false
	if err != nil {
		message := errorMessage(err, kind.failureMessage())
		list.Err = message
		m.err = message
		m.logger.Warn("list fetch failed", "list", kind.String(), "page", page, "error", err)
		return err
	}

	*list = MovieList{
		Movies:       result.Results,
		Page:         result.Page,
		TotalPages:   result.TotalPages,
		TotalResults: result.TotalResults,
		Query:        query,
		Loaded:       true,
	}
	return nil
}

// SelectMovie replaces the details slot. Nothing is cached; revisits fetch again.
func (m *Movies) SelectMovie(ctx context.Context, movieID int64) error {
	m.mu.Lock()
	m.detailsToken++
	token := m.detailsToken
	m.details = DetailsSlot{ID: movieID, Loading: true}
	m.mu.Unlock()

	details, err := m.catalog.Details(ctx, movieID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if token != m.detailsToken {
		m.logger.Debug("discarding stale details response", "movie_id", movieID)
		return nil
	}
	if err != nil {
		message := errorMessage(err, "Failed to fetch movie details")
		m.details = DetailsSlot{ID: movieID, Err: message}
		m.err = message
		m.logger.Warn("details fetch failed", "movie_id", movieID, "error", err)
		return err
	}
	m.details = DetailsSlot{ID: movieID, Movie: &details}
	return nil
}

func (m *Movies) ClearSelected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailsToken++
	m.details = DetailsSlot{}
}

func (m *Movies) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = ""
}

func (m *Movies) Snapshot() MoviesSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := MoviesSnapshot{Details: m.details, Err: m.err}
	for i, list := range m.lists {
		list.Movies = append([]model.Movie(nil), list.Movies...)
		snap.Lists[i] = list
	}
	if m.details.Movie != nil {
		details := *m.details.Movie
		snap.Details.Movie = &details
	}
	return snap
}

func errorMessage(err error, fallback string) string {
	if message := strings.TrimSpace(err.Error()); message != "" {
		return message
	}
	return fallback
}
