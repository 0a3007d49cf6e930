// internal/server/handlers/location.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"hackdir/internal/domain/geo"
	"hackdir/internal/service/directory"
	geosvc "hackdir/internal/service/geo"
)

// LocationHandler exposes the two visitor-initiated actions: a device
// positioning fix and a free-text address search. Both are accepted
// and resolved asynchronously; the result reaches the session via its
// push channel and subsequent view requests.
type LocationHandler struct {
	sessions *directory.SessionManager
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(sessions *directory.SessionManager) *LocationHandler {
	return &LocationHandler{
		sessions: sessions,
	}
}

// devicePositionRequest is the browser's report of its positioning
// attempt: either a fix or the failure code the device produced.
type devicePositionRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     string   `json:"error"`
}

// clientPosition adapts the client-reported fix to the positioning
// collaborator contract.
type clientPosition struct {
	pos geo.Position
	err error
}

func (c clientPosition) CurrentPosition(ctx context.Context) (geo.Position, error) {
	return c.pos, c.err
}

// PostDevice starts a device-based resolution for the session.
func (h *LocationHandler) PostDevice(w http.ResponseWriter, r *http.Request) {
	var req devicePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	d := sessionFor(h.sessions, w, r)

	src := clientPosition{}
	switch {
	case req.Error == "permission_denied":
		src.err = geo.ErrPermissionDenied
	case req.Error == "unavailable":
		src.err = geo.ErrUnavailable
	case req.Latitude == nil || req.Longitude == nil:
		src.err = geo.ErrUnavailable
	case !geosvc.IsValidLatLng(*req.Latitude, *req.Longitude):
		respondWithError(w, http.StatusBadRequest, "Invalid coordinates", nil)
		return
	default:
		src.pos = geo.Position{Lat: *req.Latitude, Lng: *req.Longitude}
	}

	d.TriggerDeviceLocation(src)

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "resolving"})
}

// addressSearchRequest is the free-text search payload.
type addressSearchRequest struct {
	Address string `json:"address"`
}

// PostSearch starts an address-based resolution. An empty address
// clears the session location and reverts ranking to date order.
func (h *LocationHandler) PostSearch(w http.ResponseWriter, r *http.Request) {
	var req addressSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	d := sessionFor(h.sessions, w, r)
	d.SearchAddress(req.Address)

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "resolving"})
}

// GetLocation returns the session's last committed location.
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	d := sessionFor(h.sessions, w, r)
	respondWithJSON(w, http.StatusOK, d.Location())
}
