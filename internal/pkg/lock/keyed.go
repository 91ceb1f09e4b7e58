package lock

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const guardTTL = 30 * time.Second

// Overridable in tests.
var (
	guardInterval = 100 * time.Millisecond
	guardWait     = 3 * time.Second
)

// Guard is the distributed half of a keyed lock, backed by Redis SetNX in
// production. A guard that always reports not-acquired degrades the lock
// to in-process only.
type Guard interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// Keyed serializes work per key: callers holding different keys proceed
// concurrently, callers sharing a key queue up. With a Guard attached the
// exclusion extends best-effort across process instances.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry

	guard  Guard
	logger *log.Logger
}

func NewKeyed(guard Guard, logger *log.Logger) *Keyed {
	return &Keyed{entries: make(map[string]*entry), guard: guard, logger: logger}
}

// Acquire blocks until the key's lock is held, then returns the release
// function. The caller must invoke release exactly once.
func (k *Keyed) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k.mu.Lock()
	e := k.entries[key]
	if e == nil {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	token := k.acquireGuard(ctx, key)

	release := func() {
		if token != "" {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = k.guard.Delete(releaseCtx, guardKey(key))
			cancel()
		}
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
	return release, nil
}

// acquireGuard polls the distributed guard for a bounded time. A guard
// that cannot be obtained does not fail the acquisition: the in-process
// mutex already holds, so the caller proceeds with local exclusion only.
func (k *Keyed) acquireGuard(ctx context.Context, key string) string {
	if k.guard == nil {
		return ""
	}

	token := uuid.NewString()
	deadline := time.Now().Add(guardWait)
	for {
		ok, err := k.guard.SetIfNotExists(ctx, guardKey(key), token, guardTTL)
		if err == nil && ok {
			return token
		}
		if ctx.Err() != nil || time.Now().After(deadline) {
			if k.logger != nil {
				k.logger.Printf("[Lock] distributed guard not acquired key=%s err=%v", key, err)
			}
			return ""
		}
		time.Sleep(guardInterval)
	}
}

func guardKey(key string) string {
	return "lock:" + key
}
