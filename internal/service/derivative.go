package service

import (
	"bitwise74/files-manager/db"
	"bitwise74/files-manager/internal/model"
	"bitwise74/files-manager/internal/queue"
	"bitwise74/files-manager/internal/storage"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type FileFinder interface {
	FindFile(ctx context.Context, id uint) (*model.File, error)
}

// DerivativeWorker builds the resized copies of uploaded images. It never
// touches the metadata store: a derivative exists when its blob does.
type DerivativeWorker struct {
	Files   FileFinder
	Content storage.Store
	Widths  []int
}

func NewDerivativeWorker(files FileFinder, content storage.Store, widths []int) *DerivativeWorker {
	if len(widths) == 0 {
		widths = DefaultWidths
	}

	return &DerivativeWorker{
		Files:   files,
		Content: content,
		Widths:  widths,
	}
}

// ProcessTask implements asynq.Handler. Either every width is written or the
// job fails as a whole; a retry regenerates all of them.
func (w *DerivativeWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	p, err := queue.ParseDerivatives(t)
	if err != nil {
		return err
	}

	file, err := w.Files.FindFile(ctx, p.FileID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("file %d not found: %w", p.FileID, asynq.SkipRetry)
		}

		return err
	}

	if file.UserID != p.OwnerID {
		return fmt.Errorf("file %d isn't owned by %s: %w", p.FileID, p.OwnerID, asynq.SkipRetry)
	}

	stored, ok := file.Content().(model.Stored)
	if !ok {
		return fmt.Errorf("file %d has no content: %w", p.FileID, asynq.SkipRetry)
	}

	original, err := w.Content.ReadFile(ctx, stored.LocalRef)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("content of file %d is missing: %w", p.FileID, asynq.SkipRetry)
		}

		return err
	}

	img, err := imaging.Decode(bytes.NewReader(original), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("file %d isn't a decodable image: %v: %w", p.FileID, err, asynq.SkipRetry)
	}

	format, err := imaging.FormatFromFilename(file.Name)
	if err != nil {
		format = imaging.PNG
	}

	for _, width := range w.Widths {
		data, err := Resize(img, width, format)
		if err != nil {
			return fmt.Errorf("failed to resize file %d to %dpx, %w", p.FileID, width, err)
		}

		if err := w.Content.WriteFile(ctx, DerivativeRef(stored.LocalRef, width), data); err != nil {
			return fmt.Errorf("failed to write %dpx derivative of file %d, %w", width, p.FileID, err)
		}
	}

	zap.L().Debug("Derivatives written", zap.Uint("file_id", p.FileID), zap.Ints("widths", w.Widths))
	return nil
}

// Resize scales img to width pixels keeping its aspect ratio. The output is
// a pure function of its inputs.
func Resize(img image.Image, width int, format imaging.Format) ([]byte, error) {
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
