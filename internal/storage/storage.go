package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Store persists submission files under collision-free names.
type Store interface {
	// Put writes content under desiredName when that name is free, otherwise
	// under a derived timestamped name, and returns the name actually used.
	Put(ctx context.Context, desiredName, contentType string, content io.Reader) (string, error)
	// Get returns the stored bytes, errdefs.ErrNotFound if absent.
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete removes the object; a missing object is not an error.
	Delete(ctx context.Context, name string) error
}

const timestampLayout = "20060102150405"

// timestampName inserts suffix between the base name and its extension:
// report.pdf -> report_20240131235959.pdf. A name without an extension gets
// the suffix appended to the whole name.
func timestampName(name, suffix string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return name + "_" + suffix
	}
	return strings.TrimSuffix(name, ext) + "_" + suffix + ext
}
