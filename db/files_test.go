package db_test

import (
	"context"
	"fmt"
	"testing"

	"bitwise74/files-manager/db"
	"bitwise74/files-manager/db/dbtest"
	"bitwise74/files-manager/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insert(t *testing.T, s *db.Store, f *model.File) *model.File {
	t.Helper()
	require.NoError(t, s.InsertFile(context.Background(), f))
	return f
}

func stored(t *testing.T, userID, name string, parentID uint) *model.File {
	t.Helper()
	f, err := model.NewStored(userID, name, model.TypeFile, parentID, false, "/tmp/"+name)
	require.NoError(t, err)
	return f
}

func TestInsertAndFind(t *testing.T) {
	s := dbtest.New(t)
	ctx := context.Background()

	folder := insert(t, s, model.NewFolder("alice", "docs", model.RootID, false))
	assert.NotZero(t, folder.ID)

	file := insert(t, s, stored(t, "alice", "a.txt", folder.ID))
	assert.Greater(t, file.ID, folder.ID)

	got, err := s.FindFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.Name)
	assert.Equal(t, folder.ID, got.ParentID)
	assert.Equal(t, "/tmp/a.txt", got.LocalRef)

	_, err = s.FindFile(ctx, 9999)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestFindOwnedFile(t *testing.T) {
	s := dbtest.New(t)
	ctx := context.Background()

	f := insert(t, s, model.NewFolder("alice", "docs", model.RootID, false))

	got, err := s.FindOwnedFile(ctx, f.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)

	_, err = s.FindOwnedFile(ctx, f.ID, "bob")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestInsertRejectsFolderWithContent(t *testing.T) {
	s := dbtest.New(t)

	err := s.InsertFile(context.Background(), &model.File{
		UserID:   "alice",
		Name:     "docs",
		Type:     model.TypeFolder,
		LocalRef: "/tmp/x",
	})
	assert.ErrorIs(t, err, model.ErrFolderWithContent)
}

func TestListFilesPagination(t *testing.T) {
	s := dbtest.New(t)
	ctx := context.Background()

	for i := 1; i <= 45; i++ {
		insert(t, s, stored(t, "alice", fmt.Sprintf("f%02d", i), model.RootID))
	}
	insert(t, s, stored(t, "bob", "other", model.RootID))

	first, err := s.ListFiles(ctx, db.FileFilter{UserID: "alice"}, 0, 20)
	require.NoError(t, err)
	require.Len(t, first, 20)
	assert.Equal(t, "f45", first[0].Name)
	assert.Equal(t, "f26", first[19].Name)

	second, err := s.ListFiles(ctx, db.FileFilter{UserID: "alice"}, 20, 20)
	require.NoError(t, err)
	require.Len(t, second, 20)
	assert.Equal(t, "f25", second[0].Name)
	assert.Equal(t, "f06", second[19].Name)

	third, err := s.ListFiles(ctx, db.FileFilter{UserID: "alice"}, 40, 20)
	require.NoError(t, err)
	assert.Len(t, third, 5)

	past, err := s.ListFiles(ctx, db.FileFilter{UserID: "alice"}, 60, 20)
	require.NoError(t, err)
	assert.NotNil(t, past)
	assert.Empty(t, past)
}

func TestListFilesByParent(t *testing.T) {
	s := dbtest.New(t)
	ctx := context.Background()

	folder := insert(t, s, model.NewFolder("alice", "docs", model.RootID, false))
	insert(t, s, stored(t, "alice", "inside", folder.ID))
	insert(t, s, stored(t, "alice", "top", model.RootID))

	root := model.RootID
	top, err := s.ListFiles(ctx, db.FileFilter{UserID: "alice", ParentID: &root}, 0, 20)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "top", top[0].Name)
	assert.Equal(t, "docs", top[1].Name)

	inside, err := s.ListFiles(ctx, db.FileFilter{UserID: "alice", ParentID: &folder.ID}, 0, 20)
	require.NoError(t, err)
	require.Len(t, inside, 1)
	assert.Equal(t, "inside", inside[0].Name)

	all, err := s.ListFiles(ctx, db.FileFilter{UserID: "alice"}, 0, 20)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSetFilePublic(t *testing.T) {
	s := dbtest.New(t)
	ctx := context.Background()

	f := insert(t, s, stored(t, "alice", "a.txt", model.RootID))

	updated, err := s.SetFilePublic(ctx, f.ID, "alice", true)
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)
	assert.Equal(t, f.ID, updated.ID)
	assert.Equal(t, "a.txt", updated.Name)
	assert.Equal(t, "/tmp/a.txt", updated.LocalRef)

	got, err := s.FindFile(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublic)

	// setting the same value again still reports the record
	updated, err = s.SetFilePublic(ctx, f.ID, "alice", true)
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)

	updated, err = s.SetFilePublic(ctx, f.ID, "alice", false)
	require.NoError(t, err)
	assert.False(t, updated.IsPublic)

	_, err = s.SetFilePublic(ctx, f.ID, "bob", true)
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = s.SetFilePublic(ctx, 9999, "alice", true)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestCounts(t *testing.T) {
	s := dbtest.New(t)
	ctx := context.Background()

	insert(t, s, model.NewFolder("alice", "docs", model.RootID, false))
	insert(t, s, stored(t, "alice", "a", model.RootID))
	require.NoError(t, s.InsertUser(ctx, &model.User{ID: "alice", Email: "alice@example.com", PasswordHash: "x"}))

	files, err := s.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), files)

	users, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)

	assert.True(t, s.IsAlive(ctx))
}
