// Package logging builds the zerolog logger used by the command line tool
// and adapts it to the pipeline's announcement and counter hooks.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config defines the logger options.
type Config struct {
	// Level is the minimum level: "debug", "info", "warn" or "error".
	// Defaults to "info".
	Level string `koanf:"level"`

	// File is the log file path. When empty, logs go to stderr only.
	File string `koanf:"file"`

	// MaxSizeMB is the size in megabytes at which the log file is rotated.
	// Defaults to 10.
	MaxSizeMB int `koanf:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep. Defaults to 5.
	MaxBackups int `koanf:"max_backups"`

	// Compress gzips rotated files.
	Compress bool `koanf:"compress"`

	// Colorize enables the human readable console writer on stderr.
	Colorize bool `koanf:"colorize"`

	// FileOnly disables stderr output when File is set.
	FileOnly bool `koanf:"file_only"`
}

// ParseLevel maps a level name to a zerolog level. Unknown names yield info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	}
	return zerolog.InfoLevel
}

// Init builds a logger writing to stderr and, when configured, a rotating file.
func Init(cfg Config) zerolog.Logger {
	return InitWithWriter(cfg, os.Stderr)
}

// InitWithWriter is Init with an explicit console writer.
func InitWithWriter(cfg Config, console io.Writer) zerolog.Logger {
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}

	var writers []io.Writer
	if cfg.File == "" || !cfg.FileOnly {
		if cfg.Colorize {
			writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339})
		} else {
			writers = append(writers, console)
		}
	}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     28, // days
			Compress:   cfg.Compress,
		})
	}

	level := ParseLevel(cfg.Level)
	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp()
	if level == zerolog.DebugLevel {
		return ctx.Caller().Logger()
	}
	return ctx.Logger()
}

// Announcer logs view announcements at info level.
type Announcer struct {
	Logger zerolog.Logger
}

// Announce implements exgrid.Announcer.
func (a Announcer) Announce(message string) {
	a.Logger.Info().Str("component", "grid").Msg(message)
}

// Stats accumulates named counters and can flush them to a logger.
// The zero value is ready to use and it is safe for concurrent use.
type Stats struct {
	mu     sync.Mutex
	values map[string]int
}

// NewStats returns an empty counter set.
func NewStats() *Stats {
	return &Stats{values: make(map[string]int)}
}

// Add implements exgrid.Stats.
func (c *Stats) Add(name string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]int)
	}
	c.values[name] += delta
}

// Get returns the current value of name.
func (c *Stats) Get(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[name]
}

// Log writes all counters as one debug event.
func (c *Stats) Log(log zerolog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev := log.Debug()
	for k, v := range c.values {
		ev = ev.Int(k, v)
	}
	ev.Msg("pipeline counters")
}
