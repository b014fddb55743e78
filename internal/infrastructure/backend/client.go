// Package backend implements the remote operation-dispatch client for the
// persistence/notification backend. Every exchange is one operation tag plus a
// JSON payload; the backend answers with a status and a message. Transport
// failures surface as ErrUnavailable and leave no local state behind.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/felixgeelhaar/mcp-go/client"
)

// Operation tags understood by the backend.
const (
	opStartPhase     = "phase.start"
	opPhaseDetail    = "phase.detail"
	opSendToReview   = "phase.send_to_review"
	opApprovePhase   = "phase.approve"
	opCreateRevision = "revision.create"
	opAppendRevision = "revision.append_status"
	opAnswerRevision = "revision.answer"
	opListRevisions  = "revision.list"
	opPostDiscussion = "discussion.post"
	opUploadFile     = "attachment.upload"
	opListTasks      = "task.list"
)

// Client is the typed dispatch client. It implements domain.ReviewBackend.
type Client struct {
	mcp      *client.Client
	retryCfg retry.Config
	timeout  time.Duration
}

// NewClient wraps the given transport.
func NewClient(transport client.Transport, opts ...Option) *Client {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Client{
		mcp:     client.New(transport, client.WithTimeout(o.timeout)),
		timeout: o.timeout,
		retryCfg: retry.Config{
			MaxAttempts:   o.maxAttempts,
			InitialDelay:  o.initialDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Connect performs the dispatch handshake.
func (c *Client) Connect(ctx context.Context) error {
	if _, err := c.mcp.Initialize(ctx); err != nil {
		return fmt.Errorf("backend handshake: %w", ErrUnavailable)
	}
	return nil
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.mcp.Close()
}

// callRead dispatches a side-effect-free operation with retry and timeout.
func (c *Client) callRead(ctx context.Context, op string, args map[string]any) (*client.ToolResult, error) {
	r := retry.New[*client.ToolResult](c.retryCfg)
	return c.withTimeout(ctx, op, func(ctx context.Context) (*client.ToolResult, error) {
		return r.Do(ctx, func(ctx context.Context) (*client.ToolResult, error) {
			return c.dispatch(ctx, op, args)
		})
	})
}

// callWrite dispatches a mutating operation with a single attempt. Writes are
// not idempotent (the backend appends records), so retrying after a transport
// failure stays at the caller's discretion.
func (c *Client) callWrite(ctx context.Context, op string, args map[string]any) (*client.ToolResult, error) {
	return c.withTimeout(ctx, op, func(ctx context.Context) (*client.ToolResult, error) {
		return c.dispatch(ctx, op, args)
	})
}

func (c *Client) withTimeout(ctx context.Context, op string, fn func(context.Context) (*client.ToolResult, error)) (*client.ToolResult, error) {
	t := timeout.New[*client.ToolResult](timeout.Config{DefaultTimeout: c.timeout})
	result, err := t.Execute(ctx, c.timeout, fn)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// dispatch performs one exchange and converts error results to typed errors.
func (c *Client) dispatch(ctx context.Context, op string, args map[string]any) (*client.ToolResult, error) {
	result, err := c.mcp.CallTool(ctx, op, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, ErrUnavailable)
	}
	if result.IsError {
		return nil, decodeOpError(op, resultText(result))
	}
	return result, nil
}

// resultText extracts the payload text of a result, empty when absent.
func resultText(result *client.ToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	return result.Content[0].Text
}

// decodePayload validates the payload against its schema and unmarshals it.
func decodePayload[T any](op string, result *client.ToolResult, schema *payloadSchema) (*T, error) {
	text := resultText(result)
	if text == "" {
		return nil, fmt.Errorf("%s: empty payload", op)
	}
	if err := schema.validate(text); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("%s: unmarshal payload: %w", op, err)
	}
	return &v, nil
}
