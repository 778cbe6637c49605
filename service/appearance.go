package service

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"moviedeck-cli/model"
)

const colorSchemeEnv = "MOVIEDECK_COLOR_SCHEME"

var (
	detectSystemSchemeFn   = detectColorSchemeFromSystem
	detectTerminalSchemeFn = detectColorSchemeFromTerminal
)

// DetectColorScheme reports the platform's preferred color scheme. ok is false when
// the platform gives no signal at all.
func DetectColorScheme() (model.ThemeMode, bool) {
	if mode, ok := model.ParseThemeMode(strings.ToLower(strings.TrimSpace(os.Getenv(colorSchemeEnv)))); ok {
		return mode, true
	}
	if mode, ok := detectSystemSchemeFn(); ok {
		return mode, true
	}
	return detectTerminalSchemeFn()
}

func detectColorSchemeFromTerminal() (model.ThemeMode, bool) {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return "", false
	}
	if lipgloss.HasDarkBackground() {
		return model.ThemeDark, true
	}
	return model.ThemeLight, true
}
