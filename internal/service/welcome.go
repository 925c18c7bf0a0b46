package service

import (
	"bitwise74/files-manager/db"
	"bitwise74/files-manager/internal/model"
	"bitwise74/files-manager/internal/queue"
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type UserFinder interface {
	FindUser(ctx context.Context, id string) (*model.User, error)
}

// Notifier delivers the welcome message. Deliveries may repeat when a job is retried.
type Notifier interface {
	Welcome(ctx context.Context, u *model.User) error
}

type WelcomeWorker struct {
	Users    UserFinder
	Notifier Notifier
}

func NewWelcomeWorker(users UserFinder, n Notifier) *WelcomeWorker {
	return &WelcomeWorker{Users: users, Notifier: n}
}

// ProcessTask implements asynq.Handler
func (w *WelcomeWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	p, err := queue.ParseWelcome(t)
	if err != nil {
		return err
	}

	user, err := w.Users.FindUser(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("user %s not found: %w", p.UserID, asynq.SkipRetry)
		}

		return err
	}

	if err := w.Notifier.Welcome(ctx, user); err != nil {
		return fmt.Errorf("failed to welcome user %s, %w", user.ID, err)
	}

	return nil
}

// LogNotifier only writes the welcome to the log
type LogNotifier struct{}

func (LogNotifier) Welcome(_ context.Context, u *model.User) error {
	zap.L().Info(fmt.Sprintf("Welcome %s!", u.Email), zap.String("user_id", u.ID))
	return nil
}
