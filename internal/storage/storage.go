// Package storage holds the content stores that keep file bytes and their
// derivatives
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("content not found")

// Store is a flat blob area addressed by path-like references.
type Store interface {
	// Root is the directory new content is written under
	Root() string
	// MkdirAll creates dir and its parents. Existing directories are not an error.
	MkdirAll(ctx context.Context, dir string) error
	// WriteFile replaces the content at ref
	WriteFile(ctx context.Context, ref string, data []byte) error
	// ReadFile returns ErrNotFound when nothing was written at ref
	ReadFile(ctx context.Context, ref string) ([]byte, error)
}
