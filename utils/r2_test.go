package utils

import (
	"bytes"
	"errors"
	"mime/multipart"
	"testing"
)

// newUploadHeader builds a parsed multipart file header the way fiber's
// c.FormFile would hand it to the service.
func newUploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("avatar", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(16 * 1024 * 1024)
	if err != nil {
		t.Fatalf("Failed to parse multipart form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["avatar"][0]
}

func TestUploadAvatarRejectsNonImage(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
	}{
		{"Plain Text", "notes.txt", []byte("definitely not an image")},
		{"Renamed Script", "avatar.png", []byte("#!/bin/sh\nrm -rf /\n")},
		{"PDF", "resume.pdf", []byte("%PDF-1.4 fake document body")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := newUploadHeader(t, tt.filename, tt.content)
			_, err := UploadAvatar(header)
			if !errors.Is(err, ErrAvatarNotImage) {
				t.Fatalf("Expected ErrAvatarNotImage, got %v", err)
			}
		})
	}
}

func TestUploadAvatarRejectsOversize(t *testing.T) {
	// A valid PNG signature does not save an upload over the cap; the
	// size check runs first and nothing is sniffed or sent.
	content := make([]byte, maxAvatarBytes+1)
	copy(content, []byte("\x89PNG\r\n\x1a\n"))

	header := newUploadHeader(t, "huge.png", content)
	if _, err := UploadAvatar(header); !errors.Is(err, ErrAvatarTooLarge) {
		t.Fatalf("Expected ErrAvatarTooLarge, got %v", err)
	}
}
