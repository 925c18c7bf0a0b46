// Package model defines database models
package model

import (
	"errors"

	"gorm.io/gorm"
)

type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

var (
	ErrFolderWithContent = errors.New("a folder can't reference content")
	ErrMissingContent    = errors.New("a file must reference content")
)

// ParseFileType returns the file type named by s. The second return value
// is false when s isn't one of folder, file or image.
func ParseFileType(s string) (FileType, bool) {
	switch t := FileType(s); t {
	case TypeFolder, TypeFile, TypeImage:
		return t, true
	}

	return "", false
}

// BearsContent reports whether records of this type hold bytes in the content store
func (t FileType) BearsContent() bool {
	return t == TypeFile || t == TypeImage
}

// File is a row of the files table. RootID as ParentID means the record
// sits at the top of its owner's tree.
type File struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string   `gorm:"index;not null" json:"userId"`
	Name      string   `gorm:"not null" json:"name"`
	Type      FileType `gorm:"not null" json:"type"`
	ParentID  uint     `gorm:"index;not null" json:"parentId"`
	IsPublic  bool     `gorm:"not null" json:"isPublic"`
	LocalRef  string   `json:"-"`
	CreatedAt int64    `gorm:"autoCreateTime" json:"-"`
}

const RootID uint = 0

// Content is what a record holds: either Folder or Stored.
type Content interface {
	content()
}

type Folder struct{}

// Stored points at the original bytes of a file or image.
type Stored struct {
	LocalRef string
}

func (Folder) content() {}
func (Stored) content() {}

// Content returns the typed view of the record. Folders never yield a Stored value
func (f *File) Content() Content {
	if f.Type.BearsContent() {
		return Stored{LocalRef: f.LocalRef}
	}

	return Folder{}
}

// NewFolder builds a folder record. Folders have no content reference.
func NewFolder(userID, name string, parentID uint, isPublic bool) *File {
	return &File{
		UserID:   userID,
		Name:     name,
		Type:     TypeFolder,
		ParentID: parentID,
		IsPublic: isPublic,
	}
}

// NewStored builds a file or image record backed by the content at ref
func NewStored(userID, name string, t FileType, parentID uint, isPublic bool, ref string) (*File, error) {
	if !t.BearsContent() {
		return nil, ErrFolderWithContent
	}

	if ref == "" {
		return nil, ErrMissingContent
	}

	return &File{
		UserID:   userID,
		Name:     name,
		Type:     t,
		ParentID: parentID,
		IsPublic: isPublic,
		LocalRef: ref,
	}, nil
}

// BeforeCreate refuses rows that break the folder/content split, whichever
// way they were built.
func (f *File) BeforeCreate(*gorm.DB) error {
	if f.Type == TypeFolder && f.LocalRef != "" {
		return ErrFolderWithContent
	}

	if f.Type.BearsContent() && f.LocalRef == "" {
		return ErrMissingContent
	}

	return nil
}
