package internal

import (
	"bitwise74/files-manager/db"
	"bitwise74/files-manager/internal/queue"
	"bitwise74/files-manager/internal/service"
	"bitwise74/files-manager/internal/session"
	"bitwise74/files-manager/internal/storage"
)

type Deps struct {
	DB       *db.Store
	Sessions *session.Store
	Content  storage.Store
	Queue    *queue.Client
	Files    *service.FileService
	Auth     *service.AuthService
}
