package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"sync"
	"testing"

	"bitwise74/files-manager/db"
	"bitwise74/files-manager/db/dbtest"
	"bitwise74/files-manager/internal/model"
	"bitwise74/files-manager/internal/service"
	"bitwise74/files-manager/internal/storage"

	"github.com/stretchr/testify/require"
)

type derivativeJob struct {
	OwnerID string
	FileID  uint
}

// recorder is an Enqueuer that remembers what it was given
type recorder struct {
	mu          sync.Mutex
	derivatives []derivativeJob
	welcomes    []string
	fail        bool
}

var errQueueDown = errors.New("queue down")

func (r *recorder) EnqueueDerivatives(_ context.Context, ownerID string, fileID uint) error {
	if r.fail {
		return errQueueDown
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.derivatives = append(r.derivatives, derivativeJob{ownerID, fileID})
	return nil
}

func (r *recorder) EnqueueWelcome(_ context.Context, userID string) error {
	if r.fail {
		return errQueueDown
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.welcomes = append(r.welcomes, userID)
	return nil
}

type fixture struct {
	store   *db.Store
	content *storage.Local
	jobs    *recorder
	files   *service.FileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:   dbtest.New(t),
		content: storage.NewLocal(t.TempDir()),
		jobs:    &recorder{},
	}
	f.files = service.NewFileService(f.store, f.content, f.jobs, nil)

	return f
}

func (f *fixture) upload(t *testing.T, u *model.User, in service.UploadInput) *model.File {
	t.Helper()

	file, err := f.files.Upload(context.Background(), u, in)
	require.NoError(t, err)
	return file
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

var (
	alice = &model.User{ID: "alice", Email: "alice@example.com"}
	bob   = &model.User{ID: "bob", Email: "bob@example.com"}
)
