// Package telemetry persists token usage stats from generation calls to
// Parquet files for offline analysis.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/soundprediction/forge/pkg/types"
)

// TokenUsageRecord is a single log entry for token usage.
type TokenUsageRecord struct {
	ID               string    `parquet:"id"`
	Timestamp        time.Time `parquet:"timestamp"`
	Model            string    `parquet:"model"`
	Operation        string    `parquet:"operation"`
	TotalTokens      int       `parquet:"total_tokens"`
	PromptTokens     int       `parquet:"prompt_tokens"`
	CompletionTokens int       `parquet:"completion_tokens"`
}

// TokenTracker buffers token usage records and flushes them to Parquet files
// in batches. Safe for concurrent use.
type TokenTracker struct {
	outputDir string
	mu        sync.Mutex
	buffer    []TokenUsageRecord
	batchSize int
}

// NewTokenTracker creates a token tracker writing to outputDir, creating the
// directory if needed.
func NewTokenTracker(outputDir string) (*TokenTracker, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create token tracking directory: %w", err)
	}
	return &TokenTracker{
		outputDir: outputDir,
		buffer:    make([]TokenUsageRecord, 0, 100),
		batchSize: 100,
	}, nil
}

// AddUsage records one generation call. Nil usage is ignored.
func (t *TokenTracker) AddUsage(usage *types.TokenUsage, model, operation string) error {
	if usage == nil {
		return nil
	}

	record := TokenUsageRecord{
		ID:               uuid.New().String(),
		Timestamp:        time.Now().UTC(),
		Model:            model,
		Operation:        operation,
		TotalTokens:      usage.TotalTokens,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.buffer = append(t.buffer, record)
	if len(t.buffer) >= t.batchSize {
		return t.flush()
	}
	return nil
}

// Flush writes any buffered records to a new Parquet file.
func (t *TokenTracker) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flush()
}

// Close flushes remaining records.
func (t *TokenTracker) Close() error {
	return t.Flush()
}

// flush writes the buffer to a new Parquet file. Caller must hold the lock.
func (t *TokenTracker) flush() error {
	if len(t.buffer) == 0 {
		return nil
	}

	filename := fmt.Sprintf("token_usage_%s_%d.parquet", time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(t.outputDir, filename)

	if err := parquet.WriteFile(path, t.buffer); err != nil {
		return fmt.Errorf("write token usage parquet file: %w", err)
	}

	t.buffer = t.buffer[:0]
	return nil
}
