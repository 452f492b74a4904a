package history

import (
	"context"
	"sync"
)

// Backend is durable storage for the serialized history. Load returns
// nil, nil when nothing has been saved yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// MemoryBackend keeps the history in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
	// Saves counts successful Save calls.
	Saves int
}

func NewMemoryBackend(initial []byte) *MemoryBackend {
	return &MemoryBackend{data: clone(initial)}
}

func (m *MemoryBackend) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.data), nil
}

func (m *MemoryBackend) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = clone(data)
	m.Saves++
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
