package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"moviedeck-cli/model"
	"moviedeck-cli/state"
)

func newFavoritesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"favs"},
		Short:   "List favorite movies",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				items := deps.Favorites.Load(ctx)
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No favorites yet")
					return nil
				}
				renderMovies(cmd.OutOrStdout(), state.MovieList{Movies: items}, deps.Favorites.Contains)
				return nil
			})
		},
	}
	cmd.AddCommand(newFavoritesToggleCommand(opts))
	return cmd
}

func newFavoritesToggleCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <movie-id>",
		Short: "Add a movie to favorites, or remove it when already there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				deps.Favorites.Load(ctx)
				movie, err := favoriteTarget(ctx, deps, movieID)
				if err != nil {
					return err
				}
				if deps.Favorites.Toggle(ctx, movie) {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %q to favorites\n", movie.Title)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from favorites\n", movie.Title)
				}
				return nil
			})
		},
	}
}

// favoriteTarget prefers the stored record so removal works offline.
func favoriteTarget(ctx context.Context, deps Deps, movieID int64) (model.Movie, error) {
	for _, movie := range deps.Favorites.Items() {
		if movie.ID == movieID {
			return movie, nil
		}
	}
	if err := deps.Movies.SelectMovie(ctx, movieID); err != nil {
		return model.Movie{}, errors.New(deps.Movies.Snapshot().Details.Err)
	}
	details := deps.Movies.Snapshot().Details.Movie
	if details == nil {
		return model.Movie{}, errors.Errorf("movie %d not loaded", movieID)
	}
	return details.Summary(), nil
}
