package nlp

import (
	"context"

	"github.com/soundprediction/forge/pkg/types"
)

// DisabledClient is the Client used when no generation backend is configured.
// Every call fails with ErrGenerationUnavailable: extraction degrades to its
// heuristic fallback, and query surfaces the error to the caller.
type DisabledClient struct{}

// NewDisabledClient returns a client with no backend.
func NewDisabledClient() *DisabledClient { return &DisabledClient{} }

// Chat always fails with ErrGenerationUnavailable.
func (c *DisabledClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	return nil, types.ErrGenerationUnavailable
}

// Close is a no-op.
func (c *DisabledClient) Close() error { return nil }
