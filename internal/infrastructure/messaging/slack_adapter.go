package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/campushub/phasetrack/internal/domain/events"
)

// SlackAdapter sends events to a Slack incoming webhook URL.
type SlackAdapter struct {
	config AdapterConfig
	client *http.Client
}

// NewSlackAdapter creates a Slack adapter from config.
func NewSlackAdapter(config AdapterConfig) *SlackAdapter {
	return &SlackAdapter{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *SlackAdapter) Name() string { return a.config.Name }
func (a *SlackAdapter) Type() string { return "slack" }

func (a *SlackAdapter) Send(ctx context.Context, event *events.Event) error {
	if !accepts(a.config, event.Type) {
		return nil
	}

	text := formatSlackMessage(event)

	payload := map[string]any{
		"text": text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": text,
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}

	return nil
}

func formatSlackMessage(event *events.Event) string {
	switch event.Type {
	case events.TypePhaseStarted:
		return fmt.Sprintf(":arrow_forward: Phase started: %s", event.InstanceID)
	case events.TypePhaseSentToReview:
		return fmt.Sprintf(":mag: Phase sent to review: %s", event.InstanceID)
	case events.TypePhaseApproved:
		return fmt.Sprintf(":white_check_mark: Phase approved: %s", event.InstanceID)
	case events.TypePhaseDeclined:
		return fmt.Sprintf(":x: Phase declined: %s", event.InstanceID)
	case events.TypeRevisionRequested:
		return fmt.Sprintf(":pencil2: Revision requested on phase %s", event.InstanceID)
	case events.TypeRevisionAnswered:
		return fmt.Sprintf(":inbox_tray: Revision answered on phase %s", event.InstanceID)
	default:
		return fmt.Sprintf("PhaseTrack event: %s", event.Type)
	}
}
