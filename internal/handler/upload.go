// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/obuilder-go/internal/imaging"
)

// maxUploadSize caps image uploads at 10 MB.
const maxUploadSize = 10 << 20

// UploadHandler serves image uploads for page components.
type UploadHandler struct {
	processor *imaging.Processor
	logger    *slog.Logger
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(processor *imaging.Processor, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{processor: processor, logger: logger}
}

// Create accepts a multipart image upload, stores the original and a
// bounded preview, and returns their paths.
// POST /api/uploads
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid upload: expected a multipart form under 10 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	id := uuid.NewString()
	res, err := h.processor.ProcessUpload(file, id, header.Filename)
	if err != nil {
		h.logger.Warn("image upload rejected", "category", "upload", "filename", header.Filename, "error", err)
		writeJSONError(w, http.StatusUnprocessableEntity, "unsupported or corrupt image")
		return
	}
	h.logger.Info("image uploaded", "category", "upload", "upload", id, "size", res.Size)

	data := map[string]any{
		"id":        id,
		"width":     res.Width,
		"height":    res.Height,
		"mime_type": res.MimeType,
		"size":      res.Size,
		"url":       "/uploads/originals/" + id + "/" + filepath.Base(res.FilePath),
	}
	if res.PreviewPath != "" {
		data["preview_url"] = "/uploads/previews/" + id + "/" + filepath.Base(res.PreviewPath)
	}
	writeJSONSuccess(w, data)
}

// Delete removes an uploaded image and its preview.
// DELETE /api/uploads/{uploadID}
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uploadID")
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, "/\\") {
		writeJSONError(w, http.StatusUnprocessableEntity, "invalid upload id")
		return
	}

	if err := h.processor.DeleteUpload(id); err != nil {
		h.logger.Error("deleting upload failed", "category", "upload", "upload", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "deleting upload failed")
		return
	}
	writeJSONSuccess(w, nil)
}
