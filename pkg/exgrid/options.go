// Package exgrid derives grid views and export tables from schema-less rows.
package exgrid

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/layout"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// Options configures a Pipeline.
type Options struct {
	// Locale selects text collation, e.g. "en" or "de". Default "en".
	Locale string
	// LegacyDateCheck enables the equals-filter date fallback on columns that
	// look like dates by name or content.
	// If nil, defaults to true.
	LegacyDateCheck *bool
	// Metrics measures text for column widths.
	// If nil, layout.CellMetrics is used.
	Metrics layout.TextMetrics
	// Announcer receives view change messages. Optional.
	Announcer Announcer
	// Stats receives stage counters. Optional.
	Stats Stats
	// Logger defaults to a disabled logger.
	Logger zerolog.Logger
}

// DefaultOptions returns default pipeline options.
func DefaultOptions() Options {
	return Options{
		Locale: "en",
	}
}

// ShouldUseLegacyDateCheck returns whether the equals-filter date fallback is on.
func (o Options) ShouldUseLegacyDateCheck() bool {
	if o.LegacyDateCheck != nil {
		return *o.LegacyDateCheck
	}
	return true
}

// Language returns the collation language, English when Locale is empty or invalid.
func (o Options) Language() language.Tag {
	if o.Locale == "" {
		return language.English
	}
	tag, err := language.Parse(o.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// ParseViewport resolves a viewport name. Device names are accepted as
// aliases: mobile, tablet, desktop.
func ParseViewport(s string) (models.Viewport, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wide", "desktop":
		return models.ViewportWide, nil
	case "medium", "tablet":
		return models.ViewportMedium, nil
	case "narrow", "mobile":
		return models.ViewportNarrow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownViewport, s)
}
