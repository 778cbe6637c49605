package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviedeck-cli/model"
	"moviedeck-cli/store"
)

func platform(mode model.ThemeMode) SchemeDetector {
	return func() (model.ThemeMode, bool) { return mode, true }
}

func noPlatform() (model.ThemeMode, bool) { return "", false }

func TestTheme_LoadPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		detector SchemeDetector
		want     model.ThemeMode
	}{
		{name: "persisted wins over platform", stored: "dark", detector: platform(model.ThemeLight), want: model.ThemeDark},
		{name: "persisted light over dark platform", stored: "light", detector: platform(model.ThemeDark), want: model.ThemeLight},
		{name: "platform dark when nothing stored", detector: platform(model.ThemeDark), want: model.ThemeDark},
		{name: "platform light when nothing stored", detector: platform(model.ThemeLight), want: model.ThemeLight},
		{name: "light without any signal", detector: noPlatform, want: model.ThemeLight},
		{name: "invalid stored value falls through", stored: "Dark ", detector: platform(model.ThemeDark), want: model.ThemeDark},
		{name: "nil detector", want: model.ThemeLight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := newFlakyStore(t)
			if tt.stored != "" {
				require.NoError(t, st.Set(ctx, store.KeyTheme, tt.stored))
			}
			theme := NewTheme(st, tt.detector, nil)
			assert.Equal(t, tt.want, theme.Load(ctx))
			assert.Equal(t, tt.want, theme.Mode())
		})
	}
}

func TestTheme_LoadReadFailureUsesPlatform(t *testing.T) {
	st := newFlakyStore(t)
	st.failGet = true

	theme := NewTheme(st, platform(model.ThemeDark), nil)
	assert.Equal(t, model.ThemeDark, theme.Load(context.Background()))
}

func TestTheme_SetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)
	theme := NewTheme(st, noPlatform, nil)

	require.NoError(t, theme.Set(ctx, model.ThemeDark))
	require.NoError(t, theme.Set(ctx, model.ThemeDark))

	assert.Equal(t, model.ThemeDark, theme.Mode())
	value, ok, err := st.Get(ctx, store.KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestTheme_SetRejectsUnknownMode(t *testing.T) {
	theme := NewTheme(newFlakyStore(t), noPlatform, nil)
	assert.Error(t, theme.Set(context.Background(), model.ThemeMode("sepia")))
	assert.Equal(t, model.ThemeLight, theme.Mode())
}

func TestTheme_TogglePersists(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)
	theme := NewTheme(st, noPlatform, nil)
	theme.Load(ctx)

	assert.Equal(t, model.ThemeDark, theme.Toggle(ctx))
	assert.Equal(t, model.ThemeLight, theme.Toggle(ctx))

	value, _, err := st.Get(ctx, store.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", value)
	assert.Equal(t, model.ThemeLight, NewTheme(st, platform(model.ThemeDark), nil).Load(ctx))
}

func TestTheme_WriteFailureStillApplies(t *testing.T) {
	st := newFlakyStore(t)
	st.failSet = true
	theme := NewTheme(st, noPlatform, nil)

	assert.Equal(t, model.ThemeDark, theme.Toggle(context.Background()))
	assert.Equal(t, model.ThemeDark, theme.Mode())
}
