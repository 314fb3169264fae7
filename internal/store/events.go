// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/obuilder-go/internal/model"
)

// EventStore records and queries the audit event log.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates an EventStore on the given database.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// CreateEvent inserts one event record.
func (s *EventStore) CreateEvent(ctx context.Context, e model.Event) error {
	metadata := e.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)",
		e.Level, e.Category, e.Message, metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	return nil
}

// ListRecentEvents returns up to limit events, newest first.
func (s *EventStore) ListRecentEvents(ctx context.Context, limit int) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, level, category, message, metadata, created_at FROM events ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// PruneEventsBefore deletes events created before the cutoff and returns
// the number removed.
func (s *EventStore) PruneEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned events: %w", err)
	}
	return n, nil
}
