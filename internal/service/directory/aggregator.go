// internal/service/directory/aggregator.go

package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"hackdir/internal/domain/event"
	"hackdir/internal/domain/geo"
	geosvc "hackdir/internal/service/geo"
)

// ErrUnknownBucket is returned for a view request outside future/past.
var ErrUnknownBucket = errors.New("unknown bucket")

// FailedViewNotice labels a view that could not be built. The failure
// is isolated to its bucket; the rest of the directory stays up.
const FailedViewNotice = "Something went wrong, please reload the page"

// rankFn is indirected so the fail-soft view path stays exercisable.
var rankFn = Rank

// Snapshot holds the immutable artifacts computed once from the event
// feed: the raw events, the classified buckets, and the stats.
type Snapshot struct {
	Events  []event.Event
	Buckets map[string][]event.Event
	Stats   event.DirectoryStats
}

// BuildSnapshot classifies the feed against a fixed "now" and computes
// the directory aggregate.
func BuildSnapshot(events []event.Event, now time.Time) *Snapshot {
	c := Classify(events, now)
	return &Snapshot{
		Events:  events,
		Buckets: c.Buckets,
		Stats:   ComputeStats(events, c.Malformed),
	}
}

// View is one bucket of the directory as presented to the visitor.
type View struct {
	Bucket           string        `json:"bucket"`
	Proximity        bool          `json:"proximity"`
	FormattedAddress *string       `json:"formatted_address,omitempty"`
	Events           []RankedEvent `json:"events"`
	Failed           bool          `json:"failed,omitempty"`
	Notice           string        `json:"notice,omitempty"`
}

// Directory is the per-session aggregator. It shares the immutable
// snapshot with every other session and exclusively owns the session's
// Location; commitLocation is the only mutation path.
type Directory struct {
	snapshot *Snapshot
	resolver *geosvc.Resolver

	// Resolution completions for this session are announced on a NATS
	// subject so the websocket bridge can push them to the visitor.
	nc        *nats.Conn
	sessionID string

	mu         sync.Mutex
	loc        geo.Location
	completion uint64
	applied    uint64
	lastActive time.Time
}

// NewDirectory creates a session aggregator over a shared snapshot.
// nc may be nil when no push channel is configured.
func NewDirectory(snapshot *Snapshot, resolver *geosvc.Resolver, nc *nats.Conn, sessionID string) *Directory {
	return &Directory{
		snapshot:   snapshot,
		resolver:   resolver,
		nc:         nc,
		sessionID:  sessionID,
		loc:        geo.Cleared(),
		lastActive: time.Now(),
	}
}

// Stats returns the directory aggregate computed at snapshot load.
func (d *Directory) Stats() event.DirectoryStats {
	return d.snapshot.Stats
}

// Location returns the last committed visitor location.
func (d *Directory) Location() geo.Location {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loc
}

// CurrentView ranks the named bucket against the current location.
// A fault while building the view degrades to an empty, labeled view
// instead of propagating.
func (d *Directory) CurrentView(bucket string) (View, error) {
	events, ok := d.snapshot.Buckets[bucket]
	if !ok {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
	}

	loc := d.Location()

	view := View{
		Bucket:           bucket,
		Proximity:        loc.HasCoordinates(),
		FormattedAddress: loc.FormattedAddress,
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Recovered building %s view for session %s: %v", bucket, d.sessionID, r)
				view.Events = []RankedEvent{}
				view.Failed = true
				view.Notice = FailedViewNotice
			}
		}()

		order := ChronoAsc
		if bucket == BucketPast {
			order = ChronoDesc
		}
		view.Events = rankFn(events, loc, order)
	}()

	return view, nil
}

// SetLocation replaces the session location wholesale. It is the
// synchronous commit path; asynchronous resolutions go through
// commitLocation so supersession applies.
func (d *Directory) SetLocation(loc geo.Location) {
	d.mu.Lock()
	d.completion++
	d.applied = d.completion
	d.loc = loc
	d.mu.Unlock()
}

// commitLocation applies one completed resolution. Completions are
// stamped in arrival order under the lock; a stamp at or below the last
// applied one is stale and discarded, so the most recently completed
// resolution always wins regardless of start order.
func (d *Directory) commitLocation(loc geo.Location) {
	d.mu.Lock()
	d.completion++
	seq := d.completion
	if seq <= d.applied {
		d.mu.Unlock()
		return
	}
	d.applied = seq
	d.loc = loc
	d.mu.Unlock()

	d.publish(map[string]interface{}{
		"type":     "location",
		"location": loc,
		"time":     time.Now(),
	})
}

// TriggerDeviceLocation starts an asynchronous device resolution. The
// caller gets no value; the effect lands via commitLocation and the
// session's push channel when the round-trip finishes.
func (d *Directory) TriggerDeviceLocation(src geo.PositionSource) {
	go func() {
		loc, err := d.resolver.ResolveFromDevice(context.Background(), src)
		if err != nil {
			d.publishFailure(err)
			return
		}
		d.commitLocation(loc)
	}()
}

// SearchAddress starts an asynchronous address resolution. Empty text
// clears the location, reverting ranking to chronological order.
func (d *Directory) SearchAddress(text string) {
	go func() {
		loc, err := d.resolver.ResolveFromAddress(context.Background(), text)
		if err != nil {
			d.publishFailure(err)
			return
		}
		d.commitLocation(loc)
	}()
}

// publishFailure announces a failed resolution without touching the
// previously committed location.
func (d *Directory) publishFailure(err error) {
	notice := geosvc.LocationFailureNotice
	var failure *geo.Failure
	if errors.As(err, &failure) {
		notice = failure.Notice
	}
	log.Printf("Location resolution failed for session %s: %v", d.sessionID, err)

	d.publish(map[string]interface{}{
		"type":   "location_error",
		"notice": notice,
		"time":   time.Now(),
	})
}

func (d *Directory) publish(msg map[string]interface{}) {
	if d.nc == nil {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal session notice: %v", err)
		return
	}

	subject := LocationSubject(d.sessionID)
	if err := d.nc.Publish(subject, payload); err != nil {
		log.Printf("Failed to publish to %s: %v", subject, err)
	}
}

// LocationSubject is the NATS subject carrying resolution notices for
// one session.
func LocationSubject(sessionID string) string {
	return fmt.Sprintf("directory.session.%s.location", sessionID)
}

// touch records session activity for idle expiry.
func (d *Directory) touch() {
	d.mu.Lock()
	d.lastActive = time.Now()
	d.mu.Unlock()
}

func (d *Directory) idleSince() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastActive
}
