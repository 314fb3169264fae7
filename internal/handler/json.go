// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the JSON API of the builder: the editor
// surface (templates, drafts, publishing, versions, sub-pages, links,
// uploads, copy assistance) and the public published-page endpoint.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/obuilder-go/internal/lifecycle"
)

// writeJSONError writes a JSON error response with the given status code.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeJSONSuccess writes a JSON success response with the given data.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	data["success"] = true
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes the request body into dst. On failure it writes a
// 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeOperationError maps a lifecycle operation error onto an HTTP
// status: validation failures are 422, missing entities 404 and storage
// failures 500. Storage failures are logged; the client message stays
// generic so internals do not leak.
func writeOperationError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		validationErr  *lifecycle.ValidationError
		notFoundErr    *lifecycle.NotFoundError
		persistenceErr *lifecycle.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, http.StatusUnprocessableEntity, validationErr.Error())
	case errors.As(err, &notFoundErr):
		writeJSONError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &persistenceErr):
		logger.Error("operation failed to persist", "op", persistenceErr.Op, "error", persistenceErr.Err)
		writeJSONError(w, http.StatusInternalServerError, "saving changes failed")
	default:
		logger.Error("operation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
