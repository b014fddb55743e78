package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/campushub/phasetrack/internal/application"
	"github.com/campushub/phasetrack/internal/domain"
	"github.com/campushub/phasetrack/internal/infrastructure/wiring"
)

// loadServices builds the wired services, connects the backend and returns a
// cleanup func.
func loadServices(ctx context.Context) (*wiring.AppServices, func(), error) {
	services, err := wiring.BuildAppServices(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	if err := services.Backend.Connect(ctx); err != nil {
		_ = services.Close()
		return nil, nil, MapError(err)
	}
	return services, func() { _ = services.Close() }, nil
}

// currentActor resolves the acting user from flags, falling back to $USER for
// the id. The role has no fallback: the core never infers capability.
func currentActor() (domain.Actor, error) {
	id := flagActorID
	if id == "" {
		id = os.Getenv("USER")
	}
	if id == "" {
		return domain.Actor{}, fmt.Errorf("acting user unknown: pass --actor")
	}

	role, err := domain.ParseRole(flagRole)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w (pass --role)", err)
	}
	return domain.Actor{ID: id, Role: role}, nil
}

// phaseRef builds the instance locator from the template/project flags.
func phaseRef(templateID, projectID string) (application.Ref, error) {
	if templateID == "" || projectID == "" {
		return application.Ref{}, fmt.Errorf("both --template and --project are required")
	}
	return application.Ref{TemplateID: templateID, ProjectID: projectID}, nil
}
