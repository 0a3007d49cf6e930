// internal/adapter/storage/event_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"hackdir/internal/domain/event"
)

// EventStore loads the event snapshot from Postgres.
type EventStore struct {
	db *pgxpool.Pool
}

// NewEventStore creates a database-backed snapshot source.
func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{db: db}
}

// Load reads the full event list. The directory never writes back;
// the table is maintained by the upstream importer.
func (s *EventStore) Load(ctx context.Context) ([]event.Event, error) {
	query := `
		SELECT id, name, website, start_at, end_at,
		       parsed_city, parsed_state, parsed_state_code,
		       parsed_country, parsed_country_code,
		       latitude, longitude,
		       banner, logo, mlh_associated
		FROM events
		ORDER BY id
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var e event.Event
		var banner, logo *string

		if err := rows.Scan(
			&e.ID, &e.Name, &e.Website, &e.Start, &e.End,
			&e.City, &e.State, &e.StateCode,
			&e.Country, &e.CountryCode,
			&e.Latitude, &e.Longitude,
			&banner, &logo, &e.MLHAssociated,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		if banner != nil {
			e.Banner = *banner
		}
		if logo != nil {
			e.Logo = *logo
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}
