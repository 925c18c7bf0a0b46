package db

import (
	"bitwise74/files-manager/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// FileFilter narrows a listing. A nil ParentID lists every record of the user.
type FileFilter struct {
	UserID   string
	ParentID *uint
}

func (s *Store) FindFile(ctx context.Context, id uint) (*model.File, error) {
	var file model.File

	err := s.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&file).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &file, nil
}

// FindOwnedFile looks a record up by id and owner in one query, so records
// of other users are indistinguishable from missing ones.
func (s *Store) FindOwnedFile(ctx context.Context, id uint, userID string) (*model.File, error) {
	var file model.File

	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&file).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &file, nil
}

// ListFiles returns at most limit records matching f, newest first
func (s *Store) ListFiles(ctx context.Context, f FileFilter, skip, limit int) ([]model.File, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", f.UserID)
	if f.ParentID != nil {
		q = q.Where("parent_id = ?", *f.ParentID)
	}

	entries := []model.File{}

	err := q.
		Order("id desc").
		Offset(skip).
		Limit(limit).
		Find(&entries).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list files, %w", err)
	}

	return entries, nil
}

func (s *Store) InsertFile(ctx context.Context, file *model.File) error {
	if err := s.DB.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("failed to insert file, %w", translate(err))
	}

	return nil
}

// SetFilePublic flips isPublic on the record owned by userID and returns the
// row as written. The update and the read are a single UPDATE ... RETURNING.
func (s *Store) SetFilePublic(ctx context.Context, id uint, userID string, public bool) (*model.File, error) {
	var updated []model.File

	r := s.DB.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_public", public)
	if r.Error != nil {
		return nil, fmt.Errorf("failed to update file visibility, %w", r.Error)
	}

	if r.RowsAffected == 0 || len(updated) == 0 {
		return nil, ErrNotFound
	}

	return &updated[0], nil
}

func (s *Store) CountFiles(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(model.File{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count files, %w", err)
	}

	return n, nil
}
