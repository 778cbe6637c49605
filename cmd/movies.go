package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"moviedeck-cli/state"
	"moviedeck-cli/store"
)

type listDef struct {
	use     string
	aliases []string
	short   string
	kind    state.ListKind
}

var (
	listTrending = listDef{use: "trending", short: "Show this week's trending movies", kind: state.ListTrending}
	listPopular  = listDef{use: "popular", short: "Show popular movies", kind: state.ListPopular}
	listTopRated = listDef{use: "top-rated", aliases: []string{"top"}, short: "Show top rated movies", kind: state.ListTopRated}
)

func newListCommand(opts *rootOptions, def listDef) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:     def.use,
		Aliases: def.aliases,
		Short:   def.short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return errors.Errorf("invalid page %d", page)
			}
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				deps.Favorites.Load(ctx)
				if err := deps.Movies.Fetch(ctx, def.kind, page); err != nil {
					return errors.New(deps.Movies.Snapshot().List(def.kind).Err)
				}
				renderMovies(cmd.OutOrStdout(), deps.Movies.Snapshot().List(def.kind), deps.Favorites.Contains)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	return cmd
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search movies by title",
		Long:  `Search the catalog by title. Without a query you can pick one of your recent searches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return errors.Errorf("invalid page %d", page)
			}
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				query := strings.TrimSpace(strings.Join(args, " "))
				if query == "" {
					recent, err := store.LoadRecentSearches(ctx, deps.Store)
					if err != nil {
						deps.Logger.Warn("load search history", "error", err)
					}
					query, err = promptSearchQuery(cmd, recent)
					if err != nil {
						return err
					}
				}
				if strings.TrimSpace(query) == "" {
					return errors.New("search query is required")
				}

				deps.Favorites.Load(ctx)
				if err := deps.Movies.Search(ctx, query, page); err != nil {
					return errors.New(deps.Movies.Snapshot().List(state.ListSearch).Err)
				}
				if err := store.RememberSearch(ctx, deps.Store, query); err != nil {
					deps.Logger.Warn("remember search", "error", err)
				}

				result := deps.Movies.Snapshot().List(state.ListSearch)
				if len(result.Movies) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No movies found for %q\n", result.Query)
					return nil
				}
				renderMovies(cmd.OutOrStdout(), result, deps.Favorites.Contains)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	return cmd
}

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var clearHistory bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				if clearHistory {
					if err := deps.Store.Remove(ctx, store.KeySearchHistory); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Search history cleared")
					return nil
				}
				queries, err := store.LoadRecentSearches(ctx, deps.Store)
				if err != nil {
					return err
				}
				if len(queries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recent searches")
					return nil
				}
				renderHistory(cmd.OutOrStdout(), queries)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearHistory, "clear", false, "forget all recent searches")
	return cmd
}

func newDetailsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "details <movie-id>",
		Short: "Show the full record for a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				deps.Favorites.Load(ctx)
				if err := deps.Movies.SelectMovie(ctx, movieID); err != nil {
					return errors.New(deps.Movies.Snapshot().Details.Err)
				}
				details := deps.Movies.Snapshot().Details.Movie
				if details == nil {
					return errors.Errorf("movie %d not loaded", movieID)
				}
				renderDetails(cmd.OutOrStdout(), *details, deps.Favorites.Contains(movieID))
				return nil
			})
		},
	}
}

func parseMovieID(raw string) (int64, error) {
	movieID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || movieID <= 0 {
		return 0, errors.Errorf("invalid movie id %q", raw)
	}
	return movieID, nil
}
