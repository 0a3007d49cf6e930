// internal/server/handlers/directory.go

package handlers

import (
	"errors"
	"net/http"

	"hackdir/internal/service/directory"
)

// DirectoryHandler serves the classified, ranked event views and the
// directory stats.
type DirectoryHandler struct {
	sessions *directory.SessionManager
}

// NewDirectoryHandler creates a new directory handler.
func NewDirectoryHandler(sessions *directory.SessionManager) *DirectoryHandler {
	return &DirectoryHandler{
		sessions: sessions,
	}
}

// GetEvents returns the ranked view of one bucket for the caller's
// session. Proximity ordering applies automatically once the session
// has a committed location.
func (h *DirectoryHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		bucket = directory.BucketFuture
	}

	d := sessionFor(h.sessions, w, r)

	view, err := d.CurrentView(bucket)
	if err != nil {
		if errors.Is(err, directory.ErrUnknownBucket) {
			respondWithError(w, http.StatusBadRequest, "Unknown bucket", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to build view", err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

// GetStats returns the snapshot-wide directory aggregate.
func (h *DirectoryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.sessions.Snapshot().Stats)
}
