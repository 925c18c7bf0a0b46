package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local keeps content on the local filesystem under root
type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: filepath.Clean(root)}
}

func (l *Local) Root() string {
	return l.root
}

func (l *Local) MkdirAll(_ context.Context, dir string) error {
	err := os.MkdirAll(dir, 0o750)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("failed to create directory %s, %w", dir, err)
	}

	return nil
}

// WriteFile writes to a temporary sibling and renames it over ref, so
// readers never observe a partially written file.
func (l *Local) WriteFile(_ context.Context, ref string, data []byte) error {
	tmp := ref + "." + uuid.NewString() + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("failed to create temporary file, %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write content, %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync content, %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close content file, %w", err)
	}

	if err := os.Rename(tmp, ref); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move content into place, %w", err)
	}

	return nil
}

func (l *Local) ReadFile(_ context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to read content %s, %w", ref, err)
	}

	return data, nil
}
