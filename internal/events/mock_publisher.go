package events

import (
	"context"
	"log/slog"
	"sync"
)

// MockEventPublisher records events in memory. Used in tests and as a
// fallback when no brokers are configured.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
	topics []string
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (p *MockEventPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, *event)
	p.topics = append(p.topics, topic)
	p.logger.Debug("Event recorded",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", topic)
	return nil
}

func (p *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of every recorded event.
func (p *MockEventPublisher) GetPublishedEvents() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// GetEventsByTopic returns the recorded events published to the given topic.
func (p *MockEventPublisher) GetEventsByTopic(topic string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []Event
	for i, t := range p.topics {
		if t == topic {
			out = append(out, p.events[i])
		}
	}
	return out
}

// ClearEvents drops all recorded events.
func (p *MockEventPublisher) ClearEvents() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
	p.topics = nil
}
