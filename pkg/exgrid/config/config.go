// Package config loads command line settings and per-report formatting
// rules from TOML, YAML or JSON files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/rs/zerolog"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/export"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/logging"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// EnvPrefix marks environment overrides. Nested keys are separated by a
// double underscore: EXGRID_LOG__LEVEL=debug sets log.level.
const EnvPrefix = "EXGRID_"

// ErrUnsupportedFile indicates a config file extension without a parser.
var ErrUnsupportedFile = errors.New("unsupported config file type")

// Config holds the command line settings.
type Config struct {
	Log    logging.Config `koanf:"log"`
	Limits export.Limits  `koanf:"limits"`
	// Locale selects text collation for sorting.
	Locale string `koanf:"locale"`
	// LegacyDateCheck toggles the equals-filter date fallback.
	LegacyDateCheck *bool       `koanf:"legacy_date_check"`
	Mail            MailConfig  `koanf:"mail"`
	Prefs           PrefsConfig `koanf:"prefs"`
	PDF             PDFConfig   `koanf:"pdf"`
	CSV             CSVConfig   `koanf:"csv"`
}

// MailConfig configures the HTTP mail dispatcher.
type MailConfig struct {
	Endpoint  string `koanf:"endpoint"`
	PerMinute int    `koanf:"per_minute"`
	// Token is sent as a bearer token when set.
	Token string `koanf:"token"`
}

// PrefsConfig locates the column preference store.
type PrefsConfig struct {
	Path string `koanf:"path"`
}

// PDFConfig configures the PDF writer.
type PDFConfig struct {
	PageSize    string `koanf:"page_size"`
	Orientation string `koanf:"orientation"`
}

// CSVConfig configures the CSV writer.
type CSVConfig struct {
	Delimiter string `koanf:"delimiter"`
	BOM       bool   `koanf:"bom"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:    logging.Config{Level: "info"},
		Limits: export.DefaultLimits,
		Locale: "en",
		Mail:   MailConfig{PerMinute: 30},
		Prefs:  PrefsConfig{Path: "exgrid.db"},
		PDF:    PDFConfig{PageSize: "A4"},
		CSV:    CSVConfig{Delimiter: ","},
	}
}

func defaultMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"log.level":       d.Log.Level,
		"limits.pdf":      d.Limits.PDF,
		"limits.xlsx":     d.Limits.XLSX,
		"limits.csv":      d.Limits.CSV,
		"locale":          d.Locale,
		"mail.per_minute": d.Mail.PerMinute,
		"prefs.path":      d.Prefs.Path,
		"pdf.page_size":   d.PDF.PageSize,
		"csv.delimiter":   d.CSV.Delimiter,
	}
}

// parser picks a koanf parser from the file extension.
func parser(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
}

// envKey maps EXGRID_MAIL__PER_MINUTE to mail.per_minute.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Load reads settings from defaults, the optional file at path and then
// EXGRID_ environment variables, later sources winning.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		p, err := parser(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(file.Provider(path), p); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// DelimiterRune returns the delimiter as a rune; `\t` and "tab" mean a tab.
func (c CSVConfig) DelimiterRune() rune {
	switch c.Delimiter {
	case "":
		return ','
	case `\t`, "tab":
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// LoadRules reads formatting rules from path. An empty path yields empty
// rules. A missing file is an error; a file that cannot be parsed or
// decoded yields empty rules and a logged warning.
func LoadRules(path string, log zerolog.Logger) (models.FormattingRules, error) {
	if path == "" {
		return models.FormattingRules{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		return models.FormattingRules{}, fmt.Errorf("read rules: %w", err)
	}
	p, err := parser(path)
	if err != nil {
		return models.FormattingRules{}, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), p); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("malformed rules file; using empty rules")
		return models.FormattingRules{}, nil
	}
	var rules models.FormattingRules
	if err := k.Unmarshal("", &rules); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("invalid rules; using empty rules")
		return models.FormattingRules{}, nil
	}
	return rules, nil
}
