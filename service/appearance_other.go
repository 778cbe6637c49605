//go:build !darwin

package service

import "moviedeck-cli/model"

func detectColorSchemeFromSystem() (model.ThemeMode, bool) {
	return "", false
}
