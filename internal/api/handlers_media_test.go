// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/handloom-labs/handloom/internal/auth"
	"github.com/handloom-labs/handloom/internal/models"
)

// fakeObjStore records puts and serves canned URLs.
type fakeObjStore struct {
	putKey  string
	putErr  error
	signErr error
}

func (f *fakeObjStore) Put(ctx context.Context, key string, r io.ReadSeeker, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.putKey = key
	return nil
}

func (f *fakeObjStore) PresignedURL(ctx context.Context, key string) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeObjStore) Delete(ctx context.Context, key string) error { return nil }

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func serveUpload(h *Handler, subject *auth.Subject, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("POST", "/api/media/upload", body)
	r.Header.Set("Content-Type", contentType)
	if subject != nil {
		r = r.WithContext(auth.ContextWithSubject(r.Context(), subject))
	}
	w := httptest.NewRecorder()
	h.MediaUpload(w, r)
	return w
}

func TestMediaUpload_KeyScopedToSubject(t *testing.T) {
	media := &fakeObjStore{}
	h := NewHandler(nil, nil, nil, nil, media, nil)

	body, ct := multipartUpload(t, "scarf.jpg", []byte("jpeg-bytes"))
	subject := &auth.Subject{ID: "artisan-1", Role: models.RoleArtisan, Email: "maker@example.com"}
	w := serveUpload(h, subject, body, ct)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(media.putKey, "media/artisan-1/") {
		t.Errorf("key = %q, want it scoped under media/artisan-1/", media.putKey)
	}
	if !strings.Contains(w.Body.String(), "https://cdn.example.com/") {
		t.Errorf("response missing presigned URL: %s", w.Body.String())
	}
}

func TestMediaUpload_StoreFaultIsBadGateway(t *testing.T) {
	media := &fakeObjStore{putErr: errors.New("connection refused")}
	h := NewHandler(nil, nil, nil, nil, media, nil)

	body, ct := multipartUpload(t, "scarf.jpg", []byte("jpeg-bytes"))
	subject := &auth.Subject{ID: "artisan-1", Role: models.RoleArtisan, Email: "maker@example.com"}
	w := serveUpload(h, subject, body, ct)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Error("response must not leak the upstream error")
	}
}

func TestMediaUpload_Disabled(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil, nil)

	body, ct := multipartUpload(t, "scarf.jpg", []byte("jpeg-bytes"))
	subject := &auth.Subject{ID: "artisan-1", Role: models.RoleArtisan, Email: "maker@example.com"}
	w := serveUpload(h, subject, body, ct)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestMediaUpload_MissingFileField(t *testing.T) {
	media := &fakeObjStore{}
	h := NewHandler(nil, nil, nil, nil, media, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("note", "no file here"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	mw.Close()

	subject := &auth.Subject{ID: "artisan-1", Role: models.RoleArtisan, Email: "maker@example.com"}
	w := serveUpload(h, subject, &buf, mw.FormDataContentType())

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
