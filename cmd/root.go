package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"moviedeck-cli/config"
	"moviedeck-cli/tui"
)

const appName = "moviedeck-cli"

type BuildInfo struct {
	Version string
	Commit  string
}

func (b BuildInfo) String() string {
	version := b.Version
	if version == "" {
		version = "dev"
	}
	out := fmt.Sprintf("%s %s", appName, version)
	if b.Commit != "none" && b.Commit != "" {
		out += fmt.Sprintf(" (%s)", b.Commit)
	}
	return out
}

type rootOptions struct {
	configFile string
	logLevel   string
	environ    func() []string
}

func (o *rootOptions) settings() settings {
	return settings{
		Config:   config.Options{File: o.configFile, Environ: o.environ},
		LogLevel: o.logLevel,
	}
}

// run starts the container around fn and shuts it down afterwards.
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, deps Deps) error) error {
	ctx := cmd.Context()
	deps, stop, err := start(ctx, o.settings())
	if err != nil {
		return err
	}
	defer stop()
	return fn(ctx, deps)
}

func NewRootCommand(info BuildInfo) *cobra.Command {
	return newRootCommand(info, os.Environ)
}

func newRootCommand(info BuildInfo, environ func() []string) *cobra.Command {
	opts := &rootOptions{environ: environ}

	root := &cobra.Command{
		Use:   "moviedeck",
		Short: "Browse movies from the terminal",
		Long: `MovieDeck lets you browse trending, popular and top rated movies,
search the catalog, read details and keep a list of favorites.
Run it without a command to open the interactive browser.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				// resolved before the program takes over the terminal
				deps.Theme.Load(ctx)
				model := tui.New(tui.Deps{
					Auth:      deps.Auth,
					Movies:    deps.Movies,
					Favorites: deps.Favorites,
					Theme:     deps.Theme,
					Store:     deps.Store,
					Logger:    deps.Logger,
				})
				_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
				return err
			})
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is <user config dir>/moviedeck-cli/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "override the log level [debug, info, warn, error]")

	root.AddCommand(
		newListCommand(opts, listTrending),
		newListCommand(opts, listPopular),
		newListCommand(opts, listTopRated),
		newSearchCommand(opts),
		newHistoryCommand(opts),
		newDetailsCommand(opts),
		newFavoritesCommand(opts),
		newLoginCommand(opts),
		newRegisterCommand(opts),
		newLogoutCommand(opts),
		newWhoamiCommand(opts),
		newThemeCommand(opts),
		newVersionCommand(info),
	)
	return root
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of MovieDeck",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	}
}

// Execute runs the root command and returns the process exit code.
func Execute(info BuildInfo) int {
	if err := NewRootCommand(info).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
