// Package resource manages transient handles to binary document views. A
// handle is live from Acquire until Release; rendering through a released
// handle fails.
package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrReleased is returned when a handle is used after Release.
var ErrReleased = errors.New("resource handle released")

// Handle references binary content held by a Manager.
type Handle struct {
	ID          string    `json:"id"`
	ContentType string    `json:"contentType"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Manager issues and revokes handles backed by a BlobStore.
type Manager struct {
	store  BlobStore
	ttl    time.Duration
	logger *slog.Logger

	mu   sync.Mutex
	live map[string]Handle
}

// NewManager creates a manager over store. ttl bounds how long the store keeps
// bytes for a handle that is never released.
func NewManager(store BlobStore, ttl time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		ttl:    ttl,
		logger: logger,
		live:   make(map[string]Handle),
	}
}

// Acquire stores binary and returns a live handle to it.
func (m *Manager) Acquire(ctx context.Context, binary []byte, contentType string) (Handle, error) {
	if len(binary) == 0 {
		return Handle{}, fmt.Errorf("acquire view: empty content")
	}
	h := Handle{
		ID:          uuid.NewString(),
		ContentType: contentType,
		Size:        len(binary),
		CreatedAt:   time.Now().UTC(),
	}
	if err := m.store.Put(ctx, h.ID, binary, m.ttl); err != nil {
		return Handle{}, fmt.Errorf("acquire view: %w", err)
	}

	m.mu.Lock()
	m.live[h.ID] = h
	n := len(m.live)
	m.mu.Unlock()

	m.logger.Debug("resource.acquire", "handle", h.ID, "content_type", contentType, "bytes", h.Size, "live", n)
	return h, nil
}

// Release revokes h. Releasing an unknown or already released handle is a no-op.
func (m *Manager) Release(ctx context.Context, h Handle) error {
	m.mu.Lock()
	_, ok := m.live[h.ID]
	delete(m.live, h.ID)
	n := len(m.live)
	m.mu.Unlock()
	if !ok {
		return nil
	}

	if err := m.store.Delete(ctx, h.ID); err != nil {
		// The handle is already revoked; the store TTL reclaims the bytes.
		m.logger.Warn("resource.release.store_failed", "handle", h.ID, "error", err)
	}
	m.logger.Debug("resource.release", "handle", h.ID, "live", n)
	return nil
}

// Open returns the bytes behind a live handle.
func (m *Manager) Open(ctx context.Context, h Handle) ([]byte, error) {
	m.mu.Lock()
	_, ok := m.live[h.ID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrReleased
	}

	data, err := m.store.Get(ctx, h.ID)
	if errors.Is(err, ErrBlobNotFound) {
		return nil, ErrReleased
	}
	if err != nil {
		return nil, fmt.Errorf("open view: %w", err)
	}
	return data, nil
}

// Live reports how many handles are currently acquired.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// IsLive reports whether h has not been released.
func (m *Manager) IsLive(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live[h.ID]
	return ok
}
