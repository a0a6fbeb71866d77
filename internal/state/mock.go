// internal/state/mock.go
package state

import "sync"

// Mock is a test double for Manager.
type Mock struct {
	mu     sync.Mutex
	pos    *Position
	saved  []Position
	closed bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SavePosition(pos Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, pos)
	m.pos = &pos
}

func (m *Mock) GetPosition() (*Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos, nil
}

func (m *Mock) Flush() error { return nil }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetPosition(pos *Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = pos
}

// Saved returns every position passed to SavePosition.
func (m *Mock) Saved() []Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Position(nil), m.saved...)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
