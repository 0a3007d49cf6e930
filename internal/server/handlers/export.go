// internal/server/handlers/export.go

package handlers

import (
	"net/http"

	ics "github.com/arran4/golang-ical"

	"hackdir/internal/domain/geo"
	"hackdir/internal/service/directory"
)

// ExportHandler serves the upcoming bucket as an iCalendar document so
// visitors can subscribe from their own calendar app.
type ExportHandler struct {
	sessions *directory.SessionManager
}

// NewExportHandler creates a new export handler.
func NewExportHandler(sessions *directory.SessionManager) *ExportHandler {
	return &ExportHandler{
		sessions: sessions,
	}
}

// GetCalendar writes the future bucket as an ICS feed, chronological
// regardless of any session location.
func (h *ExportHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	snapshot := h.sessions.Snapshot()
	ranked := directory.Rank(snapshot.Buckets[directory.BucketFuture], geo.Cleared(), directory.ChronoAsc)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//hackdir//Hackathon Directory//EN")

	for _, re := range ranked {
		e := re.Event

		start, err := e.StartTime()
		if err != nil {
			// Classification already counted it; skip quietly
			continue
		}

		vevent := cal.AddEvent(e.ID + "@hackdir")
		vevent.SetSummary(e.Name)
		vevent.SetAllDayStartAt(start)

		if end, err := e.EndTime(); err == nil && !end.Before(start) {
			// DTEND is exclusive for all-day events
			vevent.SetAllDayEndAt(end.AddDate(0, 0, 1))
		} else {
			vevent.SetAllDayEndAt(start.AddDate(0, 0, 1))
		}

		if e.Website != "" {
			vevent.SetURL(e.Website)
		}
		if label := locationLabel(e.City, e.State, e.Country); label != "" {
			vevent.SetLocation(label)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="hackathons.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(cal.Serialize()))
}

func locationLabel(parts ...*string) string {
	label := ""
	for _, p := range parts {
		if p == nil || *p == "" {
			continue
		}
		if label != "" {
			label += ", "
		}
		label += *p
	}
	return label
}
