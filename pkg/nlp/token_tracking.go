package nlp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/soundprediction/forge/pkg/telemetry"
	"github.com/soundprediction/forge/pkg/types"
)

// TokenTrackingClient wraps a Client to record token usage per call.
type TokenTrackingClient struct {
	client    Client
	tracker   *telemetry.TokenTracker
	operation string
	logger    *slog.Logger
}

// NewTokenTrackingClient creates a wrapper client that logs usage from each
// chat call under the given operation name.
func NewTokenTrackingClient(client Client, tracker *telemetry.TokenTracker, operation string, logger *slog.Logger) *TokenTrackingClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenTrackingClient{
		client:    client,
		tracker:   tracker,
		operation: operation,
		logger:    logger,
	}
}

// Chat implements Client
func (c *TokenTrackingClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	resp, err := c.client.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}

	if resp.TokensUsed != nil && c.tracker != nil {
		model := resp.Model
		if model == "" {
			model = "unknown"
		}
		if err := c.tracker.AddUsage(resp.TokensUsed, model, c.operation); err != nil {
			c.logger.Warn("failed to log token usage", "error", err)
		}
	}

	return resp, nil
}

// Close flushes any buffered usage records and closes the wrapped client.
func (c *TokenTrackingClient) Close() error {
	var trackerErr error
	if c.tracker != nil {
		trackerErr = c.tracker.Close()
	}
	return errors.Join(trackerErr, c.client.Close())
}
