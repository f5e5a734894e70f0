package audit

import (
	"context"
	"sync"
)

// MemoryEventLogger collects events in process, for tests and local runs.
type MemoryEventLogger struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryEventLogger() *MemoryEventLogger {
	return &MemoryEventLogger{}
}

func (el *MemoryEventLogger) Save(ctx context.Context, e Event) error {
	el.mu.Lock()
	defer el.mu.Unlock()

	el.events = append(el.events, e)
	return nil
}

func (el *MemoryEventLogger) GetByType(ctx context.Context, eventType string) ([]Event, error) {
	el.mu.Lock()
	defer el.mu.Unlock()

	out := make([]Event, 0)
	for _, e := range el.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}
