// Package storage abstracts where uploaded files live.
//
// Two drivers are available:
//   - "local": a directory on disk, served by the API under STORAGE_URL
//   - "s3":    any S3-compatible bucket (AWS, MinIO, R2)
//
//	m, _ := storage.Connect(ctx)
//	_ = m.Default().Put(ctx, "messages/x.png", data, "image/png")
//	url := m.Default().URL("messages/x.png")
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotExist is returned by Get for a missing path.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is the driver contract.
type Disk interface {
	// Put writes content to p, replacing any existing file.
	Put(ctx context.Context, p string, content []byte, contentType string) error

	// Get returns the full content of p or ErrNotExist.
	Get(ctx context.Context, p string) ([]byte, error)

	Exists(ctx context.Context, p string) bool

	// Delete removes p. Deleting a missing file is not an error.
	Delete(ctx context.Context, p string) error

	// URL returns the public URL clients use to fetch p.
	URL(p string) string
}

// Clean normalises p to a relative slash path and rejects any ".." segment.
func Clean(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("storage: path %q escapes the disk root", p)
		}
	}
	c := strings.TrimPrefix(path.Clean("/"+p), "/")
	if c == "" {
		return "", fmt.Errorf("storage: empty path")
	}
	return c, nil
}
