package state

import (
	"context"
	"log/slog"
	"sync"

	"moviedeck-cli/model"
	"moviedeck-cli/store"
)

// Favorites keeps an ordered set of movies keyed by id and writes the whole
// list to store.KeyFavorites after every toggle.
type Favorites struct {
	store  store.Store
	logger *slog.Logger

	mu    sync.Mutex
	items []model.Movie
}

func NewFavorites(st store.Store, logger *slog.Logger) *Favorites {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Favorites{
		store:  st,
		logger: logger.With("component", "favorites"),
	}
}

// Load replaces the in-memory set with the persisted one. Absent or corrupt data yields an empty set.
func (f *Favorites) Load(ctx context.Context) []model.Movie {
	items, _, err := store.LoadJSON[[]model.Movie](ctx, f.store, store.KeyFavorites)
	if err != nil {
		f.logger.Warn("load favorites", "error", err)
		items = nil
	}

	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
	return f.Items()
}

// Toggle removes the movie if present, appends it otherwise, and reports whether it is now a favorite.
func (f *Favorites) Toggle(ctx context.Context, movie model.Movie) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	index := f.indexOf(movie.ID)
	added := index < 0
	if added {
		f.items = append(f.items, movie)
	} else {
		next := make([]model.Movie, 0, len(f.items)-1)
		next = append(next, f.items[:index]...)
		f.items = append(next, f.items[index+1:]...)
	}

	payload := f.items
	if payload == nil {
		payload = []model.Movie{}
	}
	if err := store.SaveJSON(ctx, f.store, store.KeyFavorites, payload); err != nil {
		f.logger.Warn("persist favorites", "error", err)
	}
	return added
}

func (f *Favorites) Contains(movieID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexOf(movieID) >= 0
}

func (f *Favorites) Items() []model.Movie {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Movie(nil), f.items...)
}

func (f *Favorites) indexOf(movieID int64) int {
	for i, item := range f.items {
		if item.ID == movieID {
			return i
		}
	}
	return -1
}
