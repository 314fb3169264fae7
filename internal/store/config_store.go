// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/obuilder-go/internal/model"
)

// configDocumentKey is the documents-table key under which the whole
// configuration document lives.
const configDocumentKey = "site"

// ErrNoDocument is returned when the store holds no configuration
// document yet. Callers treat it as "fresh install", not as a fault.
var ErrNoDocument = errors.New("store: no configuration document")

// ConfigStore reads and writes the configuration document as a unit.
// A write replaces the stored document atomically; a failed write leaves
// the previous document in place.
type ConfigStore struct {
	db *sql.DB
}

// NewConfigStore creates a ConfigStore on the given database.
func NewConfigStore(db *sql.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// ReadConfig loads the configuration document. Returns ErrNoDocument if
// none has been written yet.
func (s *ConfigStore) ReadConfig(ctx context.Context) (*model.ConfigDocument, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM documents WHERE key = ?", configDocumentKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("reading configuration document: %w", err)
	}

	var doc model.ConfigDocument
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return nil, fmt.Errorf("decoding configuration document: %w", err)
	}
	return &doc, nil
}

// WriteConfig replaces the stored configuration document.
func (s *ConfigStore) WriteConfig(ctx context.Context, doc *model.ConfigDocument) error {
	value, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding configuration document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		configDocumentKey, string(value), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("writing configuration document: %w", err)
	}
	return nil
}
