package queue

import (
	"bitwise74/files-manager/internal/metrics"
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Concurrency int
	LogLevel    string
}

// NewServer builds the job server consuming both queues. Failed jobs are
// retried by asynq with exponential backoff and archived once MaxRetry is
// exhausted or the handler wraps asynq.SkipRetry.
func NewServer(opt asynq.RedisConnOpt, cfg ServerConfig) *asynq.Server {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	return asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueFiles: 2,
			QueueUsers: 1,
		},
		Logger:       zap.S(),
		LogLevel:     logLevel(cfg.LogLevel),
		ErrorHandler: asynq.ErrorHandlerFunc(reportFailure),
	})
}

// NewMux routes each job kind to its handler
func NewMux(derivatives, welcome asynq.Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(countResults)
	mux.Handle(TypeDerivatives, derivatives)
	mux.Handle(TypeWelcome, welcome)

	return mux
}

// Outcome classifies the result of one attempt: ok, retry, or dead once the
// job will not run again.
func Outcome(ctx context.Context, err error) string {
	if err == nil {
		return "ok"
	}

	if errors.Is(err, asynq.SkipRetry) {
		return "dead"
	}

	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	if retried >= maxRetry {
		return "dead"
	}

	return "retry"
}

func countResults(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		err := next.ProcessTask(ctx, t)
		metrics.JobsTotal.WithLabelValues(t.Type(), Outcome(ctx, err)).Inc()
		return err
	})
}

func reportFailure(ctx context.Context, t *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	id, _ := asynq.GetTaskID(ctx)

	zap.L().Error("Job failed",
		zap.String("type", t.Type()),
		zap.String("job_id", id),
		zap.Int("retried", retried),
		zap.Int("max_retry", maxRetry),
		zap.Error(err))
}

func logLevel(l string) asynq.LogLevel {
	switch l {
	case "debug":
		return asynq.DebugLevel
	case "warn":
		return asynq.WarnLevel
	case "error":
		return asynq.ErrorLevel
	case "fatal":
		return asynq.FatalLevel
	}

	return asynq.InfoLevel
}
