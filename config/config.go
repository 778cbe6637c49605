package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"moviedeck-cli/service"
)

const (
	appDirName     = "moviedeck-cli"
	configFileName = "config.yaml"
	envPrefix      = "MOVIEDECK_"
	defaultTimeout = 12 * time.Second
)

// envAliases maps conventional variable names onto config keys.
var envAliases = map[string]string{
	"TMDB_API_KEY":  "catalog.apiKey",
	"TMDB_BASE_URL": "catalog.baseUrl",
	"API_BASE_URL":  "auth.baseUrl",
}

type Config struct {
	Catalog Catalog `json:"catalog" yaml:"catalog"`
	Auth    Auth    `json:"auth" yaml:"auth"`
	Storage Storage `json:"storage" yaml:"storage"`
	Log     Log     `json:"log" yaml:"log"`
}

type Catalog struct {
	APIKey  string        `json:"apiKey" yaml:"apiKey"`
	BaseURL string        `json:"baseUrl" yaml:"baseUrl" validate:"required,url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gt=0"`
}

type Auth struct {
	BaseURL       string `json:"baseUrl" yaml:"baseUrl" validate:"required,url"`
	ExpiresInMins int    `json:"expiresInMins" yaml:"expiresInMins" validate:"min=1"`
	// OfflineRegistrationFallback lets registration succeed locally when the provider is unreachable.
	OfflineRegistrationFallback bool          `json:"offlineRegistrationFallback" yaml:"offlineRegistrationFallback"`
	Timeout                     time.Duration `json:"timeout" yaml:"timeout" validate:"gt=0"`
}

type Storage struct {
	// URL is a gocloud bucket URL; empty means the default data directory.
	URL string `json:"url" yaml:"url"`
}

type Log struct {
	Level  string `json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File   string `json:"file" yaml:"file"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

type Options struct {
	// File is an explicit config path. When empty the default path is used if it exists.
	File string
	// Environ replaces os.Environ, mainly for tests.
	Environ func() []string
}

func defaults() map[string]any {
	return map[string]any{
		"catalog.apiKey":                   "",
		"catalog.baseUrl":                  service.DefaultCatalogBaseURL,
		"catalog.timeout":                  defaultTimeout,
		"auth.baseUrl":                     service.DefaultAuthBaseURL,
		"auth.expiresInMins":               service.DefaultExpiresInMins,
		"auth.offlineRegistrationFallback": true,
		"auth.timeout":                     defaultTimeout,
		"storage.url":                      "",
		"log.level":                        "info",
		"log.file":                         "",
		"log.pretty":                       false,
	}
}

// Load layers defaults, the YAML file and environment variables, in that order.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, errors.Wrapf(err, "set default %s", key)
		}
	}

	path, err := resolveFile(opts.File)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s failed", path)
		}
	}

	existing := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		EnvironFunc: opts.Environ,
		TransformFunc: func(key, value string) (string, any) {
			if alias, ok := envAliases[key]; ok {
				return alias, value
			}
			if !strings.HasPrefix(key, envPrefix) {
				return "", nil
			}
			return canonicalizeEnvKey(strings.TrimPrefix(key, envPrefix), existing), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	cfg := new(Config)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "yaml",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	cfg.normalize()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Catalog.APIKey = strings.TrimSpace(c.Catalog.APIKey)
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	c.Auth.BaseURL = strings.TrimRight(strings.TrimSpace(c.Auth.BaseURL), "/")
	c.Storage.URL = strings.TrimSpace(c.Storage.URL)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

func (c *Config) CatalogConfig() service.CatalogConfig {
	return service.CatalogConfig{APIKey: c.Catalog.APIKey, BaseURL: c.Catalog.BaseURL}
}

func (c *Config) AuthConfig() service.AuthConfig {
	return service.AuthConfig{
		BaseURL:                     c.Auth.BaseURL,
		ExpiresInMins:               c.Auth.ExpiresInMins,
		OfflineRegistrationFallback: c.Auth.OfflineRegistrationFallback,
	}
}

func DefaultFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "os.UserConfigDir")
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

func resolveFile(explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrapf(err, "config file %s", explicit)
		}
		return explicit, nil
	}

	path, err := DefaultFile()
	if err != nil {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

// canonicalizeEnvKey maps CATALOG_API_KEY or CATALOG_APIKEY onto catalog.apiKey,
// joining underscore segments greedily against the keys already loaded.
func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	var segments []string
	for _, segment := range strings.Split(strings.ToLower(rawKey), "_") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	canonical := make([]string, 0, len(segments))
	current := existing
	for i := 0; i < len(segments); {
		matched, next, width := findExistingSegment(current, segments[i:])
		if width == 0 {
			canonical = append(canonical, segments[i])
			current = nil
			i++
			continue
		}
		canonical = append(canonical, matched)
		current = next
		i += width
	}

	return strings.Join(canonical, ".")
}

// findExistingSegment tries the longest run of segments first.
func findExistingSegment(current map[string]any, segments []string) (matched string, next map[string]any, width int) {
	if len(current) == 0 {
		return "", nil, 0
	}

	for n := len(segments); n > 0; n-- {
		needle := normalizeToken(strings.Join(segments[:n], ""))
		for key, value := range current {
			if normalizeToken(key) != needle {
				continue
			}
			child, _ := value.(map[string]any)
			return key, child, n
		}
	}
	return "", nil, 0
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
