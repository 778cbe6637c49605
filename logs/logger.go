package logs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"moviedeck-cli/config"
)

const (
	appDirName     = "moviedeck-cli"
	DefaultLogFile = "moviedeck.log"
)

// Params defines the parameters required for the logger
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
}

// New creates the application logger. Output goes to the configured file when
// one is set and to stderr otherwise; the file is closed on shutdown.
func New(params Params) (*slog.Logger, error) {
	var w io.Writer = os.Stderr
	if path := strings.TrimSpace(params.Config.Log.File); path != "" {
		f, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		params.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return f.Close()
			},
		})
		w = f
	}
	return Setup(w, params.Config.Log)
}

// Setup builds a logger writing to w: text when pretty, JSON otherwise.
func Setup(w io.Writer, cfg config.Log) (*slog.Logger, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Pretty {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create log dir for %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", path)
	}
	return f, nil
}

// DefaultFilePath is where interactive sessions log, since the terminal belongs to the UI.
func DefaultFilePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "os.UserCacheDir")
	}
	return filepath.Join(dir, appDirName, DefaultLogFile), nil
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}
}
