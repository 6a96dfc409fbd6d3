// Package sorter orders tracks by release date.
//
// Platform release dates come in three precisions: year ("2005"), year-month
// ("2005-03"), and full date ("2005-03-14"). Partial dates normalize to the
// earliest day they could denote, so "2005" compares as 2005-01-01. Sorting
// is stable: tracks with equal normalized dates keep their original relative
// order, which matters because tracks from the same album share a date.
package sorter

import (
	"sort"
	"time"

	"github.com/desertthunder/sortify/internal/models"
)

const (
	layoutFull  = "2006-01-02"
	layoutMonth = "2006-01"
	layoutYear  = "2006"
)

// ReleaseDate is a release date normalized from a raw platform string.
type ReleaseDate struct {
	Raw  string    // Value as returned by the platform
	Time time.Time // Normalized to the earliest instant the raw value could denote
}

// ParseReleaseDate normalizes a raw release date string.
//
// Unparseable or empty values normalize to the zero time and therefore sort
// before any real date; the raw string is preserved for display.
func ParseReleaseDate(raw string) ReleaseDate {
	for _, layout := range []string{layoutFull, layoutMonth, layoutYear} {
		if t, err := time.Parse(layout, raw); err == nil {
			return ReleaseDate{Raw: raw, Time: t}
		}
	}
	return ReleaseDate{Raw: raw}
}

// Compare returns -1, 0, or 1 ordering d before, equal to, or after other.
func (d ReleaseDate) Compare(other ReleaseDate) int {
	return d.Time.Compare(other.Time)
}

// IsZero reports whether the date failed to parse or was absent.
func (d ReleaseDate) IsZero() bool {
	return d.Time.IsZero()
}

// Options configures a sort.
type Options struct {
	Reversed bool // Newest first instead of oldest first
}

type keyedTrack struct {
	track models.Track
	key   ReleaseDate
}

// ByReleaseDate stable-sorts tracks by normalized release date, ascending
// unless opts.Reversed. Returns a new slice; the input is not modified.
// Tracks with equal dates keep their input order in either direction.
func ByReleaseDate(tracks []models.Track, opts Options) []models.Track {
	keyed := make([]keyedTrack, len(tracks))
	for i, t := range tracks {
		keyed[i] = keyedTrack{track: t, key: ParseReleaseDate(t.ReleaseDate)}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		c := keyed[i].key.Compare(keyed[j].key)
		if opts.Reversed {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]models.Track, len(keyed))
	for i, kt := range keyed {
		sorted[i] = kt.track
	}
	return sorted
}
