package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"moviedeck-cli/model"
)

const (
	DefaultCatalogBaseURL = "https://api.themoviedb.org/3"
	PosterBaseURL         = "https://image.tmdb.org/t/p/w500"

	trendingPath = "/trending/movie/week"
	popularPath  = "/movie/popular"
	topRatedPath = "/movie/top_rated"
	detailsPath  = "/movie"
	searchPath   = "/search/movie"
)

type CatalogConfig struct {
	APIKey  string
	BaseURL string
}

// CatalogClient wraps read-only access to the TMDB movie catalog.
type CatalogClient struct {
	http    *jsonClient
	baseURL string
	apiKey  string
}

// NewCatalogClient creates a catalog client. If httpClient is nil, a default client is used.
// A missing API key is tolerated: the client is still usable and every request will be
// rejected upstream.
func NewCatalogClient(httpClient *http.Client, cfg CatalogConfig, logger *slog.Logger) *CatalogClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultCatalogBaseURL
	}
	client := &CatalogClient{
		http:    newJSONClient(httpClient, logger),
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
	}
	if client.apiKey == "" {
		client.http.logger.Warn("catalog api key is not configured; catalog requests will fail")
	}
	return client
}

// Trending fetches the weekly trending movies.
func (c *CatalogClient) Trending(ctx context.Context, page int) (model.MoviesPage, error) {
	return c.listMovies(ctx, trendingPath, page, nil)
}

// Popular fetches the popular movies list.
func (c *CatalogClient) Popular(ctx context.Context, page int) (model.MoviesPage, error) {
	return c.listMovies(ctx, popularPath, page, nil)
}

// TopRated fetches the top rated movies list.
func (c *CatalogClient) TopRated(ctx context.Context, page int) (model.MoviesPage, error) {
	return c.listMovies(ctx, topRatedPath, page, nil)
}

// Search runs a title search.
func (c *CatalogClient) Search(ctx context.Context, query string, page int) (model.MoviesPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.MoviesPage{}, &InvalidArgumentError{Field: "query", Reason: "must not be empty"}
	}
	return c.listMovies(ctx, searchPath, page, url.Values{"query": {query}})
}

// Details fetches the full record for one movie.
func (c *CatalogClient) Details(ctx context.Context, movieID int64) (model.MovieDetails, error) {
	if movieID <= 0 {
		return model.MovieDetails{}, &InvalidArgumentError{Field: "movie id", Reason: "must be positive"}
	}
	path := fmt.Sprintf("%s/%d", detailsPath, movieID)

	var details model.MovieDetails
	if err := c.get(ctx, path, nil, &details); err != nil {
		if IsNotFound(err) {
			return model.MovieDetails{}, &NotFoundError{Resource: "movie", ID: movieID}
		}
		return model.MovieDetails{}, err
	}
	return details, nil
}

func (c *CatalogClient) listMovies(ctx context.Context, path string, page int, params url.Values) (model.MoviesPage, error) {
	if page < 1 {
		return model.MoviesPage{}, &InvalidArgumentError{Field: "page", Reason: "must be >= 1"}
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("page", strconv.Itoa(page))

	var result model.MoviesPage
	if err := c.get(ctx, path, params, &result); err != nil {
		return model.MoviesPage{}, err
	}
	if result.Results == nil {
		result.Results = []model.Movie{}
	}
	return result, nil
}

func (c *CatalogClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	endpoint := joinURL(c.baseURL, path) + "?" + params.Encode()

	err := c.http.do(ctx, http.MethodGet, endpoint, nil, out)
	var status *statusError
	if errors.As(err, &status) {
		return &UpstreamError{
			StatusCode: status.StatusCode,
			Status:     status.Status,
			Endpoint:   path,
			Message:    providerMessage(status.Body),
		}
	}
	return err
}

// PosterURL returns the full image URL for a poster path, or "" when there is none.
func PosterURL(path *string) string {
	if path == nil || strings.TrimSpace(*path) == "" {
		return ""
	}
	return PosterBaseURL + *path
}
