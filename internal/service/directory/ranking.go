// internal/service/directory/ranking.go

package directory

import (
	"sort"
	"time"

	"hackdir/internal/domain/event"
	"hackdir/internal/domain/geo"
	geosvc "hackdir/internal/service/geo"
)

// ChronoOrder selects the date ordering used when no location is set.
type ChronoOrder int

const (
	// ChronoAsc surfaces the soonest upcoming events first.
	ChronoAsc ChronoOrder = iota

	// ChronoDesc surfaces the most recent past events first.
	ChronoDesc
)

// RankedEvent pairs an event with its distance from the visitor, when
// one is known.
type RankedEvent struct {
	Event         event.Event `json:"event"`
	DistanceMiles *float64    `json:"distance_miles,omitempty"`
}

// rankKey carries the precomputed sort inputs for one event so the
// comparator never re-parses or re-measures.
type rankKey struct {
	start    time.Time
	startOK  bool
	distance float64
	distOK   bool
	pos      int
}

// Rank produces a deterministically ordered view of a bucket. With a
// located visitor it orders by ascending distance, events without a
// measurable distance after all others in their original relative
// order. Without one it orders by start date per the given intent.
// Ties break by event ID ascending. The input slice is not mutated.
func Rank(events []event.Event, loc geo.Location, order ChronoOrder) []RankedEvent {
	byProximity := loc.HasCoordinates()

	ranked := make([]RankedEvent, len(events))
	keys := make([]rankKey, len(events))

	for i, e := range events {
		ranked[i] = RankedEvent{Event: e}
		keys[i].pos = i

		if start, err := e.StartTime(); err == nil {
			keys[i].start = start
			keys[i].startOK = true
		}

		if byProximity && e.HasCoordinates() {
			d, err := geosvc.Distance(loc.Latitude, loc.Longitude, *e.Latitude, *e.Longitude)
			if err == nil {
				keys[i].distance = d.Miles
				keys[i].distOK = true
				miles := d.Miles
				ranked[i].DistanceMiles = &miles
			}
		}
	}

	less := func(i, j int) bool {
		a, b := keys[i], keys[j]

		if byProximity {
			switch {
			case a.distOK && b.distOK:
				if a.distance != b.distance {
					return a.distance < b.distance
				}
				return events[i].ID < events[j].ID
			case a.distOK:
				return true
			case b.distOK:
				return false
			default:
				// Both unknown: original relative order
				return a.pos < b.pos
			}
		}

		switch {
		case a.startOK && b.startOK:
			if !a.start.Equal(b.start) {
				if order == ChronoAsc {
					return a.start.Before(b.start)
				}
				return a.start.After(b.start)
			}
			return events[i].ID < events[j].ID
		case a.startOK:
			return true
		case b.startOK:
			return false
		default:
			return a.pos < b.pos
		}
	}

	idx := make([]int, len(events))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return less(idx[i], idx[j]) })

	out := make([]RankedEvent, len(events))
	for i, k := range idx {
		out[i] = ranked[k]
	}
	return out
}
