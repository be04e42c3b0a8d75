package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparseable is reported when none of the known encodings match a date string.
var ErrUnparseable = errors.New("unparseable date")

// DateLayout is the plain calendar-date encoding used by the backend.
const DateLayout = "2006-01-02"

type attempt func(s string, loc *time.Location) (time.Time, bool)

// cascade is tried in order; the first attempt that succeeds wins.
var cascade = []attempt{
	parseFractional,
	parseDateOnly,
	parsePlain,
}

// Normalizer turns the backend's heterogeneous date strings into instants.
// The zero value interprets bare dates in time.Local.
type Normalizer struct {
	Location *time.Location
}

// NewNormalizer returns a Normalizer bound to loc (time.Local when nil).
func NewNormalizer(loc *time.Location) Normalizer {
	return Normalizer{Location: loc}
}

func (n Normalizer) location() *time.Location {
	if n.Location == nil {
		return time.Local
	}
	return n.Location
}

// Parse tries, in order: ISO-8601 with fractional seconds, YYYY-MM-DD as
// midnight in the normalizer's location, and ISO-8601 without fractional
// seconds. ok is false when all three fail.
func (n Normalizer) Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	loc := n.location()
	for _, try := range cascade {
		if t, ok := try(s, loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseE is Parse with an error wrapping ErrUnparseable.
func (n Normalizer) ParseE(s string) (time.Time, error) {
	t, ok := n.Parse(s)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	return t, nil
}

// Or parses s and returns fallback when s cannot be parsed.
func (n Normalizer) Or(s string, fallback time.Time) time.Time {
	if t, ok := n.Parse(s); ok {
		return t
	}
	return fallback
}

func parseFractional(s string, _ *time.Location) (time.Time, bool) {
	i := strings.IndexByte(s, 'T')
	if i < 0 || !strings.Contains(s[i:], ".") {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseDateOnly(s string, loc *time.Location) (time.Time, bool) {
	if len(s) != len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parsePlain(s string, _ *time.Location) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
