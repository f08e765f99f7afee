// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package api

import (
	"net/http"
	"path/filepath"

	"github.com/handloom-labs/handloom/internal/logging"
	"github.com/handloom-labs/handloom/internal/objstore"
)

// maxUploadBytes caps a single media upload at 10 MiB.
const maxUploadBytes = 10 << 20

// MediaUploadResponse carries the stored key and a presigned URL for
// immediate display.
type MediaUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// MediaUpload handles POST /api/media/upload. The object key is scoped
// to the uploading subject, so one seller cannot overwrite another's
// images. Object storage faults are answered 502: the request was
// valid, the upstream was not.
func (h *Handler) MediaUpload(w http.ResponseWriter, r *http.Request) {
	subject, ok := mustSubject(w, r)
	if !ok {
		return
	}
	if h.media == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Media uploads are disabled")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		writeMessage(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	key := objstore.ObjectKey(subject.ID, filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.media.Put(r.Context(), key, file, contentType); err != nil {
		logging.CtxErr(r.Context(), err).Str("key", key).Msg("Object store put failed")
		writeMessage(w, http.StatusBadGateway, "Upload failed")
		return
	}

	url, err := h.media.PresignedURL(r.Context(), key)
	if err != nil {
		logging.CtxErr(r.Context(), err).Str("key", key).Msg("Presign failed")
		writeMessage(w, http.StatusBadGateway, "Upload stored but URL generation failed")
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("key", key).
		Str("subject_id", subject.ID).
		Msg("Media uploaded")
	writeJSON(w, http.StatusCreated, MediaUploadResponse{Key: key, URL: url})
}
