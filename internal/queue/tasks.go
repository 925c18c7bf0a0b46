// Package queue carries background jobs through Redis using asynq. Each job
// kind has its own queue; delivery is at least once.
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeDerivatives = "file:derivatives"
	TypeWelcome     = "user:welcome"

	QueueFiles = "fileQueue"
	QueueUsers = "userQueue"
)

type DerivativesPayload struct {
	OwnerID string `json:"ownerId"`
	FileID  uint   `json:"fileId"`
}

type WelcomePayload struct {
	UserID string `json:"userId"`
}

func NewDerivativesTask(ownerID string, fileID uint) (*asynq.Task, error) {
	b, err := json.Marshal(DerivativesPayload{OwnerID: ownerID, FileID: fileID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeDerivatives, b), nil
}

func NewWelcomeTask(userID string) (*asynq.Task, error) {
	b, err := json.Marshal(WelcomePayload{UserID: userID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeWelcome, b), nil
}

// ParseDerivatives decodes a derivative job. Malformed payloads never become
// valid on retry, so the error wraps asynq.SkipRetry.
func ParseDerivatives(t *asynq.Task) (DerivativesPayload, error) {
	var p DerivativesPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("malformed %s payload: %v: %w", TypeDerivatives, err, asynq.SkipRetry)
	}

	if p.FileID == 0 {
		return p, fmt.Errorf("missing fileId: %w", asynq.SkipRetry)
	}

	if p.OwnerID == "" {
		return p, fmt.Errorf("missing ownerId: %w", asynq.SkipRetry)
	}

	return p, nil
}

func ParseWelcome(t *asynq.Task) (WelcomePayload, error) {
	var p WelcomePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("malformed %s payload: %v: %w", TypeWelcome, err, asynq.SkipRetry)
	}

	if p.UserID == "" {
		return p, fmt.Errorf("missing userId: %w", asynq.SkipRetry)
	}

	return p, nil
}
