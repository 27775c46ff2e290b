package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/spinlist/spinlist-server/internal/logger"
)

// sessionCleanupInterval is how often expired sessions are purged.
const sessionCleanupInterval = time.Hour

// SessionCleanupJob periodically deletes expired sessions from the store.
type SessionCleanupJob struct {
	store  *StoreHandle
	logger *logger.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

func (j *SessionCleanupJob) run(ctx context.Context) {
	defer close(j.done)

	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.cleanup(ctx)
		}
	}
}

func (j *SessionCleanupJob) cleanup(ctx context.Context) {
	deleted, err := j.store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		j.logger.Warn("Session cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		j.logger.Info("Deleted expired sessions", "count", deleted)
	}
}

// ProvideSessionCleanupJob provides and starts the session cleanup worker.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	job := &SessionCleanupJob{
		store:  storeHandle,
		logger: log,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	// Purge anything that expired while the server was down.
	job.cleanup(ctx)
	go job.run(ctx)

	return job, nil
}
