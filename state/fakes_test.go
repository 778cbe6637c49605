package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gocloud.dev/blob/memblob"

	"moviedeck-cli/model"
	"moviedeck-cli/store"
)

var errDiskFull = errors.New("disk full")

// flakyStore wraps a memory bucket and can be told to fail reads or writes.
type flakyStore struct {
	store.Store
	mu        sync.Mutex
	failGet   bool
	failSet   bool
	failRm    bool
	setCalls  map[string]int
	lastValue map[string]string
}

func newFlakyStore(t *testing.T) *flakyStore {
	t.Helper()
	inner := store.NewBlobStore(memblob.OpenBucket(nil))
	t.Cleanup(func() { _ = inner.Close() })
	return &flakyStore{Store: inner, setCalls: map[string]int{}, lastValue: map[string]string{}}
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return "", false, &store.StorageError{Op: "get", Key: key, Err: errDiskFull}
	}
	return s.Store.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	s.setCalls[key]++
	fail := s.failSet
	if !fail {
		s.lastValue[key] = value
	}
	s.mu.Unlock()
	if fail {
		return &store.StorageError{Op: "set", Key: key, Err: errDiskFull}
	}
	return s.Store.Set(ctx, key, value)
}

func (s *flakyStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	fail := s.failRm
	s.mu.Unlock()
	if fail {
		return &store.StorageError{Op: "remove", Key: key, Err: errDiskFull}
	}
	return s.Store.Remove(ctx, key)
}

func (s *flakyStore) writes(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls[key]
}

type fakeAuthClient struct {
	loginSession    model.Session
	loginErr        error
	registerSession model.Session
	registerErr     error
	release         chan struct{}
	started         chan struct{}

	mu        sync.Mutex
	lastLogin [2]string
}

func (c *fakeAuthClient) Login(ctx context.Context, username string, password string) (model.Session, error) {
	c.mu.Lock()
	c.lastLogin = [2]string{username, password}
	c.mu.Unlock()
	c.wait()
	return c.loginSession, c.loginErr
}

func (c *fakeAuthClient) Register(ctx context.Context, username string, email string, password string) (model.Session, error) {
	c.wait()
	return c.registerSession, c.registerErr
}

func (c *fakeAuthClient) wait() {
	if c.started != nil {
		c.started <- struct{}{}
	}
	if c.release != nil {
		<-c.release
	}
}

type catalogCall struct {
	page  model.MoviesPage
	err   error
	ready chan struct{}
}

// fakeCatalog returns queued responses per endpoint. A response with a ready
// channel blocks until the channel is closed, as does a details lookup for an
// id with a gate.
type fakeCatalog struct {
	mu       sync.Mutex
	lists    map[string][]catalogCall
	details  map[int64]model.MovieDetails
	gates    map[int64]chan struct{}
	detailsE error
	calls    map[string]int
	queries  []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		lists:   map[string][]catalogCall{},
		details: map[int64]model.MovieDetails{},
		gates:   map[int64]chan struct{}{},
		calls:   map[string]int{},
	}
}

func (c *fakeCatalog) queue(endpoint string, call catalogCall) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[endpoint] = append(c.lists[endpoint], call)
}

func (c *fakeCatalog) next(endpoint string, page int) (model.MoviesPage, error) {
	c.mu.Lock()
	c.calls[endpoint]++
	queue := c.lists[endpoint]
	var call catalogCall
	if len(queue) > 0 {
		call = queue[0]
		c.lists[endpoint] = queue[1:]
	} else {
		call = catalogCall{page: model.MoviesPage{Page: page, Results: []model.Movie{}}}
	}
	c.mu.Unlock()

	if call.ready != nil {
		<-call.ready
	}
	return call.page, call.err
}

func (c *fakeCatalog) Trending(ctx context.Context, page int) (model.MoviesPage, error) {
	return c.next("trending", page)
}

func (c *fakeCatalog) Popular(ctx context.Context, page int) (model.MoviesPage, error) {
	return c.next("popular", page)
}

func (c *fakeCatalog) TopRated(ctx context.Context, page int) (model.MoviesPage, error) {
	return c.next("top_rated", page)
}

func (c *fakeCatalog) Search(ctx context.Context, query string, page int) (model.MoviesPage, error) {
	c.mu.Lock()
	c.queries = append(c.queries, query)
	c.mu.Unlock()
	return c.next("search", page)
}

func (c *fakeCatalog) Details(ctx context.Context, movieID int64) (model.MovieDetails, error) {
	c.mu.Lock()
	c.calls["details"]++
	gate := c.gates[movieID]
	c.mu.Unlock()
	if gate != nil {
		<-gate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detailsE != nil {
		return model.MovieDetails{}, c.detailsE
	}
	details, ok := c.details[movieID]
	if !ok {
		return model.MovieDetails{}, errors.New("movie not found")
	}
	return details, nil
}

func (c *fakeCatalog) callCount(endpoint string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[endpoint]
}

func moviesPage(page int, ids ...int64) model.MoviesPage {
	results := make([]model.Movie, 0, len(ids))
	for _, id := range ids {
		results = append(results, model.Movie{ID: id, Title: "Movie"})
	}
	return model.MoviesPage{Page: page, Results: results, TotalPages: 3, TotalResults: 60}
}
