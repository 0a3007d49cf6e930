// internal/adapter/storage/file_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"hackdir/internal/domain/event"
)

// FileStore loads the event snapshot from a JSON document on disk, the
// same shape the upstream data feed publishes.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed snapshot source.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the full event list.
func (s *FileStore) Load(ctx context.Context) ([]event.Event, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Error closing snapshot file: %v", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var events []event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot file: %w", err)
	}

	return events, nil
}
