// Package wiring assembles the application services from configuration.
package wiring

import (
	"fmt"

	"github.com/felixgeelhaar/mcp-go/client"

	"github.com/campushub/phasetrack/internal/application"
	"github.com/campushub/phasetrack/internal/infrastructure/backend"
	"github.com/campushub/phasetrack/internal/infrastructure/config"
	"github.com/campushub/phasetrack/internal/infrastructure/messaging"
)

// AppServices exposes the application layer wired to the dispatch backend.
type AppServices struct {
	Config    *config.Config
	Backend   *backend.Client
	Messaging *messaging.Registry
	Phases    *application.PhaseService
	Revisions *application.RevisionService
	Analytics *application.AnalyticsService
}

// BuildAppServices loads configuration, connects the backend transport and
// constructs the services. Close releases the transport.
func BuildAppServices(configPath string) (*AppServices, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	transport, err := client.NewStdioTransport(cfg.Backend.Command, cfg.Backend.Args...)
	if err != nil {
		return nil, fmt.Errorf("backend transport: %w", err)
	}

	be := backend.NewClient(transport,
		backend.WithTimeout(cfg.Backend.Timeout()),
		backend.WithRetry(cfg.Backend.MaxAttempts, cfg.Backend.InitialDelay()),
	)

	registry, err := messaging.NewRegistry(cfg.Messaging)
	if err != nil {
		return nil, err
	}
	if cfg.DeadLetterFile != "" {
		registry.WithDeadLetter(messaging.NewDeadLetterStore(cfg.DeadLetterFile))
	}

	return NewAppServices(cfg, be, registry), nil
}

// NewAppServices wires services onto an already-constructed backend. Tests
// use this with a mock transport.
func NewAppServices(cfg *config.Config, be *backend.Client, registry *messaging.Registry) *AppServices {
	return &AppServices{
		Config:    cfg,
		Backend:   be,
		Messaging: registry,
		Phases:    application.NewPhaseService(be, registry),
		Revisions: application.NewRevisionService(be, registry),
		Analytics: application.NewAnalyticsService(be),
	}
}

// Close releases the backend transport.
func (s *AppServices) Close() error {
	if s.Backend == nil {
		return nil
	}
	return s.Backend.Close()
}
