// Package service contains the operations behind the HTTP API and the
// background job handlers
package service

import (
	"bitwise74/files-manager/db"
	"bitwise74/files-manager/internal/access"
	"bitwise74/files-manager/internal/metrics"
	"bitwise74/files-manager/internal/model"
	"bitwise74/files-manager/internal/storage"
	"context"
	"encoding/base64"
	"errors"
	"path"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const PageSize = 20

// DefaultWidths are the widths, in pixels, of the derivatives built for every image
var DefaultWidths = []int{500, 250, 100}

type FileRepository interface {
	FindFile(ctx context.Context, id uint) (*model.File, error)
	FindOwnedFile(ctx context.Context, id uint, userID string) (*model.File, error)
	ListFiles(ctx context.Context, f db.FileFilter, skip, limit int) ([]model.File, error)
	InsertFile(ctx context.Context, f *model.File) error
	SetFilePublic(ctx context.Context, id uint, userID string, public bool) (*model.File, error)
}

// Enqueuer hands jobs to the background workers
type Enqueuer interface {
	EnqueueDerivatives(ctx context.Context, ownerID string, fileID uint) error
	EnqueueWelcome(ctx context.Context, userID string) error
}

type FileService struct {
	signals

	Files   FileRepository
	Content storage.Store
	Jobs    Enqueuer
	Widths  []int
}

func NewFileService(files FileRepository, content storage.Store, jobs Enqueuer, widths []int) *FileService {
	if len(widths) == 0 {
		widths = DefaultWidths
	}

	return &FileService{
		Files:   files,
		Content: content,
		Jobs:    jobs,
		Widths:  widths,
	}
}

type UploadInput struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	// Data is the base64 encoded content, ignored for folders
	Data string
}

// Upload validates in, stores the decoded content for files and images and
// inserts the record. Images additionally get a derivative job once the
// record exists; failing to enqueue it doesn't fail the upload.
func (s *FileService) Upload(ctx context.Context, requester *model.User, in UploadInput) (*model.File, error) {
	if requester == nil {
		return nil, ErrUnauthorized
	}

	if in.Name == "" {
		return nil, ErrMissingName
	}

	t, ok := model.ParseFileType(in.Type)
	if !ok {
		return nil, ErrMissingType
	}

	if t.BearsContent() && in.Data == "" {
		return nil, ErrMissingData
	}

	// The parent may disappear between this check and the insert. Nothing
	// deletes records today, and a stale parent id is accepted if it does.
	parentID, err := s.resolveParent(ctx, requester.ID, in.ParentID)
	if err != nil {
		return nil, err
	}

	if t == model.TypeFolder {
		folder := model.NewFolder(requester.ID, in.Name, parentID, in.IsPublic)
		if err := s.Files.InsertFile(ctx, folder); err != nil {
			return nil, internal(err)
		}

		metrics.UploadsTotal.WithLabelValues(string(t)).Inc()
		return folder, nil
	}

	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return nil, ErrMissingData
	}

	ref, err := s.store(ctx, data)
	if err != nil {
		return nil, internal(err)
	}

	file, err := model.NewStored(requester.ID, in.Name, t, parentID, in.IsPublic, ref)
	if err != nil {
		return nil, internal(err)
	}

	if err := s.Files.InsertFile(ctx, file); err != nil {
		zap.L().Warn("Content written without a record", zap.String("ref", ref), zap.Error(err))
		return nil, internal(err)
	}

	metrics.UploadsTotal.WithLabelValues(string(t)).Inc()

	if t == model.TypeImage {
		ownerID, fileID := requester.ID, file.ID
		s.signal(ctx, "derivatives", func(ctx context.Context) error {
			return s.Jobs.EnqueueDerivatives(ctx, ownerID, fileID)
		})
	}

	return file, nil
}

func (s *FileService) resolveParent(ctx context.Context, userID, raw string) (uint, error) {
	if raw == "" || raw == "0" {
		return model.RootID, nil
	}

	id, ok := ParseID(raw)
	if !ok {
		return 0, ErrParentNotFound
	}

	parent, err := s.Files.FindOwnedFile(ctx, id, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return 0, ErrParentNotFound
		}

		return 0, internal(err)
	}

	if parent.Type != model.TypeFolder {
		return 0, ErrParentNotFolder
	}

	return id, nil
}

// store writes data under a fresh reference in the content root
func (s *FileService) store(ctx context.Context, data []byte) (string, error) {
	root := s.Content.Root()
	if err := s.Content.MkdirAll(ctx, root); err != nil {
		return "", err
	}

	ref := path.Join(root, uuid.NewString())
	if err := s.Content.WriteFile(ctx, ref, data); err != nil {
		return "", err
	}

	return ref, nil
}

// Show returns a record owned by the requester
func (s *FileService) Show(ctx context.Context, requester *model.User, id string) (*model.File, error) {
	if requester == nil {
		return nil, ErrUnauthorized
	}

	fileID, ok := ParseID(id)
	if !ok {
		return nil, ErrNotFound
	}

	file, err := s.Files.FindOwnedFile(ctx, fileID, requester.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, internal(err)
	}

	return file, nil
}

// List returns one page of the requester's records, newest first. An empty
// parentID lists every record, "0" lists the root.
func (s *FileService) List(ctx context.Context, requester *model.User, parentID string, page int) ([]model.File, error) {
	if requester == nil {
		return nil, ErrUnauthorized
	}

	if page < 0 {
		page = 0
	}

	filter := db.FileFilter{UserID: requester.ID}

	if parentID != "" {
		id := model.RootID
		if parentID != "0" {
			var ok bool
			if id, ok = ParseID(parentID); !ok {
				return []model.File{}, nil
			}
		}
		filter.ParentID = &id
	}

	files, err := s.Files.ListFiles(ctx, filter, PageSize*page, PageSize)
	if err != nil {
		return nil, internal(err)
	}

	return files, nil
}

// Publish sets isPublic on a record owned by the requester and returns the
// record as stored after the update.
func (s *FileService) Publish(ctx context.Context, requester *model.User, id string, public bool) (*model.File, error) {
	if requester == nil {
		return nil, ErrUnauthorized
	}

	fileID, ok := ParseID(id)
	if !ok {
		return nil, ErrNotFound
	}

	file, err := s.Files.SetFilePublic(ctx, fileID, requester.ID, public)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, internal(err)
	}

	return file, nil
}

type FileContent struct {
	Name        string
	ContentType string
	Data        []byte
}

// GetContent returns the bytes of a record, or of one of its derivatives when
// size is set. Requester may be nil. Denied reads report ErrNotFound.
func (s *FileService) GetContent(ctx context.Context, requester *model.User, id, size string) (*FileContent, error) {
	fileID, ok := ParseID(id)
	if !ok {
		return nil, ErrNotFound
	}

	file, err := s.Files.FindFile(ctx, fileID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, internal(err)
	}

	stored, ok := file.Content().(model.Stored)
	if !ok {
		return nil, ErrNoContent
	}

	if !access.CanRead(requester, file) {
		return nil, ErrNotFound
	}

	ref := stored.LocalRef
	if size != "" {
		width, err := strconv.Atoi(size)
		if err != nil || !slices.Contains(s.Widths, width) {
			return nil, ErrNotFound
		}

		ref = DerivativeRef(ref, width)
	}

	data, err := s.Content.ReadFile(ctx, ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, internal(err)
	}

	return &FileContent{
		Name:        file.Name,
		ContentType: ContentType(file.Name, data),
		Data:        data,
	}, nil
}

// DerivativeRef names the resized copy of the content at ref
func DerivativeRef(ref string, width int) string {
	return ref + "_" + strconv.Itoa(width)
}

// ParseID turns a client supplied identifier into a record id. Identifiers
// that can't name any record report false.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}
