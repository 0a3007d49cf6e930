// internal/server/handlers/helpers.go

package handlers

import (
	"encoding/json"
	"net/http"

	"hackdir/internal/service/directory"
)

// SessionHeader carries the visitor's session identifier; an unknown or
// absent value gets a fresh session, returned in the same header.
const SessionHeader = "X-Session-ID"

// sessionFor resolves the request's session, creating one when needed,
// and always echoes the ID back to the client.
func sessionFor(sessions *directory.SessionManager, w http.ResponseWriter, r *http.Request) *directory.Directory {
	id := r.Header.Get(SessionHeader)

	if id != "" {
		if d, ok := sessions.Get(id); ok {
			w.Header().Set(SessionHeader, id)
			return d
		}
	}

	id, d := sessions.Create()
	w.Header().Set(SessionHeader, id)
	return d
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}
	if err != nil {
		response["detail"] = err.Error()
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
