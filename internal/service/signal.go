package service

import (
	"bitwise74/files-manager/internal/metrics"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const signalTimeout = 10 * time.Second

// signals runs best-effort side effects after a write has been committed.
// They outlive the request that triggered them and their failures are only
// logged.
type signals struct {
	wg sync.WaitGroup
}

func (s *signals) signal(ctx context.Context, name string, fn func(context.Context) error) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), signalTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			metrics.EnqueueFailuresTotal.WithLabelValues(name).Inc()
			zap.L().Warn("Failed to enqueue background job", zap.String("job", name), zap.Error(err))
		}
	}()
}

// Wait blocks until every pending signal has been attempted
func (s *signals) Wait() {
	s.wg.Wait()
}
