package tokenstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"tixgate/internal/models"
)

// Memory keeps the serialized record in process memory. It round-trips
// through JSON like the persistent backends so corrupt-data behavior is
// identical across implementations.
type Memory struct {
	mu   sync.Mutex
	data []byte
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Save(_ context.Context, rec models.SessionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Load(_ context.Context) *models.SessionRecord {
	m.mu.Lock()
	raw := m.data
	m.mu.Unlock()
	return decode(raw, m.now())
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}

// SetRaw overwrites the stored bytes directly. Used by tests to simulate
// tampered storage.
func (m *Memory) SetRaw(raw []byte) {
	m.mu.Lock()
	m.data = raw
	m.mu.Unlock()
}

// decode is the shared corrupt/expired handling for all backends.
func decode(raw []byte, now time.Time) *models.SessionRecord {
	if len(raw) == 0 {
		return nil
	}
	var rec models.SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil
	}
	if expired(&rec, now) {
		return nil
	}
	return &rec
}
