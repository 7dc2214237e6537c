package models

import "slices"

// ColumnPrefs are the user's persisted per-report column customizations.
type ColumnPrefs struct {
	// Frozen lists the pinned column keys.
	Frozen []string `json:"frozen,omitempty"`
	// TreatAsText lists columns forced to the text type.
	TreatAsText []string `json:"treat_as_text,omitempty"`
}

// IsFrozen reports whether key is pinned.
func (p ColumnPrefs) IsFrozen(key string) bool { return slices.Contains(p.Frozen, key) }

// IsText reports whether key is forced to text.
func (p ColumnPrefs) IsText(key string) bool { return slices.Contains(p.TreatAsText, key) }
