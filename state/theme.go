package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"moviedeck-cli/model"
	"moviedeck-cli/store"
)

// SchemeDetector reports the platform color scheme, if any.
type SchemeDetector func() (model.ThemeMode, bool)

type Theme struct {
	store  store.Store
	detect SchemeDetector
	logger *slog.Logger

	mu   sync.Mutex
	mode model.ThemeMode
}

func NewTheme(st store.Store, detect SchemeDetector, logger *slog.Logger) *Theme {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if detect == nil {
		detect = func() (model.ThemeMode, bool) { return "", false }
	}
	return &Theme{
		store:  st,
		detect: detect,
		logger: logger.With("component", "theme"),
		mode:   model.ThemeLight,
	}
}

// Load resolves the initial mode: persisted value, then a dark platform scheme, then light.
func (t *Theme) Load(ctx context.Context) model.ThemeMode {
	mode := t.resolve(ctx)
	t.mu.Lock()
	t.mode = mode
	t.mu.Unlock()
	return mode
}

func (t *Theme) resolve(ctx context.Context) model.ThemeMode {
	stored, ok, err := t.store.Get(ctx, store.KeyTheme)
	if err != nil {
		t.logger.Warn("read theme preference", "error", err)
	}
	if ok {
		if mode, valid := model.ParseThemeMode(stored); valid {
			return mode
		}
		t.logger.Debug("ignoring stored theme", "value", stored)
	}
	if mode, ok := t.detect(); ok && mode == model.ThemeDark {
		return model.ThemeDark
	}
	return model.ThemeLight
}

func (t *Theme) Toggle(ctx context.Context) model.ThemeMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.mode.Toggle()
	t.apply(ctx, next)
	return next
}

func (t *Theme) Set(ctx context.Context, mode model.ThemeMode) error {
	if _, ok := model.ParseThemeMode(string(mode)); !ok {
		return errors.Errorf("invalid theme %q: expected light or dark", mode)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apply(ctx, mode)
	return nil
}

// apply writes through first and switches the mode even when the write fails.
func (t *Theme) apply(ctx context.Context, mode model.ThemeMode) {
	if err := t.store.Set(ctx, store.KeyTheme, mode.String()); err != nil {
		t.logger.Warn("persist theme preference", "mode", mode.String(), "error", err)
	}
	t.mode = mode
}

func (t *Theme) Mode() model.ThemeMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}
