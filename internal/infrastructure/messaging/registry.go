// Package messaging delivers phase review events to external channels. The
// phase transition is already committed remotely when an event goes out, so
// delivery failures are reported but never roll anything back.
package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/phasetrack/internal/domain/events"
)

// Adapter sends event notifications to one external channel.
type Adapter interface {
	Send(ctx context.Context, event *events.Event) error
	Name() string
	Type() string
}

// AdapterConfig defines configuration for a messaging adapter.
type AdapterConfig struct {
	Name         string   `yaml:"name" json:"name"`
	Type         string   `yaml:"type" json:"type"` // "webhook", "slack"
	URL          string   `yaml:"url" json:"url"`
	EventFilters []string `yaml:"event_filters,omitempty" json:"event_filters,omitempty"`
	Enabled      bool     `yaml:"enabled" json:"enabled"`
}

// Registry creates messaging adapters from configuration and fans events out
// to all of them.
type Registry struct {
	adapters   []Adapter
	deadLetter *DeadLetterStore
}

// NewRegistry creates adapters from configuration. Disabled entries are
// skipped; an unknown adapter type is a configuration error.
func NewRegistry(configs []AdapterConfig) (*Registry, error) {
	var adapters []Adapter
	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		adapter, err := createAdapter(cfg)
		if err != nil {
			return nil, fmt.Errorf("create adapter %q: %w", cfg.Name, err)
		}
		adapters = append(adapters, adapter)
	}
	return &Registry{adapters: adapters}, nil
}

// WithDeadLetter records failed deliveries in the given store.
func (r *Registry) WithDeadLetter(store *DeadLetterStore) *Registry {
	r.deadLetter = store
	return r
}

// Adapters returns all active adapters.
func (r *Registry) Adapters() []Adapter {
	return r.adapters
}

// Broadcast sends the event to every adapter whose filters accept it and
// returns the delivery errors, one per failing adapter.
func (r *Registry) Broadcast(ctx context.Context, event *events.Event) []error {
	var errs []error
	for _, adapter := range r.adapters {
		err := adapter.Send(ctx, event)
		if err == nil {
			continue
		}
		errs = append(errs, fmt.Errorf("adapter %s: %w", adapter.Name(), err))
		if r.deadLetter != nil {
			_ = r.deadLetter.Append(DeadLetter{
				Adapter:    adapter.Name(),
				Event:      event,
				Error:      err.Error(),
				RecordedAt: time.Now().UTC(),
			})
		}
	}
	return errs
}

// Publish implements the application notifier: best-effort broadcast.
func (r *Registry) Publish(ctx context.Context, event *events.Event) {
	_ = r.Broadcast(ctx, event)
}

func createAdapter(cfg AdapterConfig) (Adapter, error) {
	switch cfg.Type {
	case "webhook":
		return NewWebhookAdapter(cfg), nil
	case "slack":
		return NewSlackAdapter(cfg), nil
	default:
		return nil, fmt.Errorf("unknown adapter type: %s", cfg.Type)
	}
}

// accepts reports whether the config's filters allow the event type. An empty
// filter list allows everything.
func accepts(cfg AdapterConfig, eventType string) bool {
	if len(cfg.EventFilters) == 0 {
		return true
	}
	for _, f := range cfg.EventFilters {
		if f == eventType {
			return true
		}
	}
	return false
}
