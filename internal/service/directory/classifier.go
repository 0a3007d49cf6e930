// internal/service/directory/classifier.go

package directory

import (
	"time"

	"hackdir/internal/domain/event"
)

// Bucket names for the two temporal partitions of the directory.
const (
	BucketFuture = "future"
	BucketPast   = "past"
)

// classificationGrace keeps in-progress events in the future bucket for
// a day past their start.
const classificationGrace = 24 * time.Hour

// Classification is the result of one classification pass: every event
// with a parseable start lands in exactly one bucket, relative order
// preserved. Records whose start cannot be parsed are counted, not
// propagated.
type Classification struct {
	Buckets   map[string][]event.Event
	Malformed int
}

// Classify partitions the snapshot against a single fixed "now". The
// boundary is inclusive: an event starting exactly at now minus the
// grace window is future.
func Classify(events []event.Event, now time.Time) Classification {
	boundary := now.Add(-classificationGrace)

	c := Classification{
		Buckets: map[string][]event.Event{
			BucketFuture: {},
			BucketPast:   {},
		},
	}

	for _, e := range events {
		start, err := e.StartTime()
		if err != nil {
			c.Malformed++
			continue
		}

		if !start.Before(boundary) {
			c.Buckets[BucketFuture] = append(c.Buckets[BucketFuture], e)
		} else {
			c.Buckets[BucketPast] = append(c.Buckets[BucketPast], e)
		}
	}

	return c
}

// ComputeStats derives the directory aggregate from the full snapshot.
// Distinct counts consider only events that carry the value.
func ComputeStats(events []event.Event, malformed int) event.DirectoryStats {
	states := make(map[string]struct{})
	countries := make(map[string]struct{})

	for _, e := range events {
		if e.State != nil && *e.State != "" {
			states[*e.State] = struct{}{}
		}
		if e.Country != nil && *e.Country != "" {
			countries[*e.Country] = struct{}{}
		}
	}

	return event.DirectoryStats{
		Total:     len(events),
		States:    len(states),
		Countries: len(countries),
		Malformed: malformed,
	}
}
