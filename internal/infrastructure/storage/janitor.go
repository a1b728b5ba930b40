package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const janitorBufferSize = 256

type remover interface {
	Remove(ctx context.Context, key string) error
}

// Janitor removes bytes of deleted catalog records in the background.
// Removal is best-effort: failures are logged and never retried.
type Janitor struct {
	log     *zap.Logger
	store   remover
	timeout time.Duration
	in      chan string

	mu      sync.Mutex
	stopped bool
}

func NewJanitor(logger *zap.Logger, store remover) *Janitor {
	return &Janitor{
		log:     logger,
		store:   store,
		timeout: 30 * time.Second,
		in:      make(chan string, janitorBufferSize),
	}
}

// Enqueue never blocks the request path; when the buffer is full the key is
// dropped and logged as an orphan.
func (j *Janitor) Enqueue(key string) {
	if key == "" {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopped {
		j.log.Warn("janitor stopped, orphaned object", zap.String("key", key))
		return
	}
	select {
	case j.in <- key:
	default:
		j.log.Warn("janitor queue full, orphaned object", zap.String("key", key))
	}
}

func (j *Janitor) Worker(ctx context.Context) {
	j.log.Info("starting storage janitor")

	defer func() {
		j.log.Info("storage janitor gracefully stopped")
	}()

	for {
		select {
		case key := <-j.in:
			j.remove(key)
		case <-ctx.Done():
			j.stop()
			return
		}
	}
}

// stop refuses further keys and removes what was already accepted.
func (j *Janitor) stop() {
	j.mu.Lock()
	j.stopped = true
	j.mu.Unlock()

	for {
		select {
		case key := <-j.in:
			j.remove(key)
		default:
			return
		}
	}
}

func (j *Janitor) remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.store.Remove(ctx, key); err != nil {
		j.log.Error("failed to remove object bytes", zap.String("key", key), zap.Error(err))
		return
	}
	j.log.Debug("object bytes removed", zap.String("key", key))
}
