package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

type sqlEventLogger struct {
	db *sql.DB
}

func NewSqlEventLogger(db *sql.DB) *sqlEventLogger {
	return &sqlEventLogger{
		db: db,
	}
}

func (el *sqlEventLogger) Save(ctx context.Context, e Event) error {
	jsonData, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	jsonMetadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return err
	}
	statement := `INSERT INTO events (id, event_type, trip_id, event_data, event_metadata, created_at)
				  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = el.db.ExecContext(ctx, statement, e.ID, e.Type, tripOrNil(e.TripID), jsonData, jsonMetadata, e.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

func (el *sqlEventLogger) GetByType(ctx context.Context, eventType string) ([]Event, error) {
	query := `SELECT id, event_type, COALESCE(trip_id, '00000000-0000-0000-0000-000000000000'),
			  event_data, event_metadata, created_at
			  FROM events WHERE event_type = $1 ORDER BY created_at DESC`
	result, err := el.db.QueryContext(ctx, query, eventType)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	events := make([]Event, 0)
	for result.Next() {
		var event Event
		var jsonData, jsonMetadata []byte
		if err := result.Scan(&event.ID, &event.Type, &event.TripID, &jsonData, &jsonMetadata, &event.CreatedAt); err != nil {
			return events, err
		}
		if len(jsonData) > 0 {
			var data any
			if err := json.Unmarshal(jsonData, &data); err == nil {
				event.Data = data
			}
		}
		var metadata map[string]string
		if err := json.Unmarshal(jsonMetadata, &metadata); err == nil {
			event.Metadata = metadata
		}

		events = append(events, event)
	}

	if err := result.Err(); err != nil {
		return events, err
	}

	return events, nil
}

func tripOrNil(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
