package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"moviedeck-cli/config"
	"moviedeck-cli/logs"
	"moviedeck-cli/service"
	"moviedeck-cli/state"
	"moviedeck-cli/store"
)

// settings carries command line choices into the container.
type settings struct {
	Config   config.Options
	LogLevel string
}

// Deps is everything a command needs once the container has started.
type Deps struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	Store     store.Store
	Auth      *state.Auth
	Movies    *state.Movies
	Favorites *state.Favorites
	Theme     *state.Theme
}

func newApp(s settings, target *Deps) *fx.App {
	return fx.New(
		fx.NopLogger,
		fx.Supply(s),
		injectInfra(),
		injectClients(),
		injectState(),
		fx.Invoke(func(deps Deps) {
			*target = deps
		}),
	)
}

func injectInfra() fx.Option {
	return fx.Provide(
		loadConfig,
		logs.New,
		newStore,
	)
}

func injectClients() fx.Option {
	return fx.Provide(
		newCatalogClient,
		newAuthClient,
	)
}

func injectState() fx.Option {
	return fx.Provide(
		state.NewAuth,
		state.NewMovies,
		state.NewFavorites,
		newTheme,
	)
}

func loadConfig(s settings) (*config.Config, error) {
	cfg, err := config.Load(s.Config)
	if err != nil {
		return nil, err
	}
	if level := strings.TrimSpace(s.LogLevel); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	// stdout and the terminal belong to the commands, so logs default to a file.
	if cfg.Log.File == "" {
		path, err := logs.DefaultFilePath()
		if err != nil {
			return nil, err
		}
		cfg.Log.File = path
	}
	return cfg, nil
}

func newStore(lc fx.Lifecycle, cfg *config.Config) (store.Store, error) {
	st, err := store.OpenBucketStore(context.Background(), cfg.Storage.URL)
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return st.Close()
		},
	})
	return st, nil
}

func newCatalogClient(cfg *config.Config, logger *slog.Logger) state.Catalog {
	return service.NewCatalogClient(&http.Client{Timeout: cfg.Catalog.Timeout}, cfg.CatalogConfig(), logger)
}

func newAuthClient(cfg *config.Config, logger *slog.Logger) state.AuthClient {
	return service.NewAuthClient(&http.Client{Timeout: cfg.Auth.Timeout}, cfg.AuthConfig(), logger)
}

func newTheme(st store.Store, logger *slog.Logger) *state.Theme {
	return state.NewTheme(st, service.DetectColorScheme, logger)
}

// start builds and starts the container. The returned stop func must be called.
func start(ctx context.Context, s settings) (Deps, func(), error) {
	var deps Deps
	app := newApp(s, &deps)
	if err := app.Err(); err != nil {
		return Deps{}, nil, err
	}
	if err := app.Start(ctx); err != nil {
		return Deps{}, nil, err
	}
	stop := func() {
		if err := app.Stop(context.Background()); err != nil && deps.Logger != nil {
			deps.Logger.Warn("shutdown", "error", err)
		}
	}
	return deps, stop, nil
}
