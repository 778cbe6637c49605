package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

const maxRecentSearches = 8

type searchHistory struct {
	Queries []string `json:"queries"`
}

func LoadRecentSearches(ctx context.Context, st Store) ([]string, error) {
	history, ok, err := LoadJSON[searchHistory](ctx, st, KeySearchHistory)
	if err != nil {
		var storageErr *StorageError
		if errors.As(err, &storageErr) && storageErr.Op == "decode" {
			return nil, errors.New("invalid search history format")
		}
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return history.Queries, nil
}

// RememberSearch moves query to the front of the history.
func RememberSearch(ctx context.Context, st Store, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	history, _ := LoadRecentSearches(ctx, st)
	next := []string{query}
	for _, existing := range history {
		if existing == "" || strings.EqualFold(existing, query) {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentSearches {
			break
		}
	}

	return SaveJSON(ctx, st, KeySearchHistory, searchHistory{Queries: next})
}
