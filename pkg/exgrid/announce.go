package exgrid

// Announcer receives short human-readable status messages when the view
// changes, e.g. for a screen reader live region.
type Announcer interface {
	Announce(message string)
}

// Stats receives counters from the pipeline.
type Stats interface {
	Add(name string, delta int)
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(message string)

// Announce calls f.
func (f AnnouncerFunc) Announce(message string) { f(message) }

type nopAnnouncer struct{}

func (nopAnnouncer) Announce(string) {}

type nopStats struct{}

func (nopStats) Add(string, int) {}
