//go:build darwin

package service

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"moviedeck-cli/model"
)

// macOS only stores AppleInterfaceStyle while dark mode is on; a missing key means light.
func detectColorSchemeFromSystem() (model.ThemeMode, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "defaults", "read", "-g", "AppleInterfaceStyle").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return model.ThemeLight, true
		}
		return "", false
	}
	if strings.EqualFold(strings.TrimSpace(string(out)), "dark") {
		return model.ThemeDark, true
	}
	return model.ThemeLight, true
}
