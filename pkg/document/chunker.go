// Package document parses source files into text fragments for indexing.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soundprediction/forge/pkg/types"
)

// DefaultTargetTokens is the default fragment size in words.
const DefaultTargetTokens = 512

// Chunker splits documents into fragments of roughly targetTokens words.
// Fragment ids are numbered by a running counter, so ids stay unique across
// every file chunked by the same Chunker. Not safe for concurrent use.
type Chunker struct {
	targetTokens int
	overlap      int
	counter      int
}

// NewChunker creates a chunker. Non-positive targetTokens falls back to the
// default; a negative overlap is treated as zero.
func NewChunker(targetTokens, overlap int) *Chunker {
	if targetTokens <= 0 {
		targetTokens = DefaultTargetTokens
	}
	if overlap < 0 {
		overlap = 0
	}
	// Clamp below the fragment size so chunking always advances.
	if overlap >= targetTokens {
		overlap = targetTokens - 1
	}
	return &Chunker{targetTokens: targetTokens, overlap: overlap}
}

// SupportedExtension reports whether files with the given extension (without
// the leading dot, case-insensitive) can be parsed.
func SupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case "txt", "text", "md", "markdown":
		return true
	}
	return false
}

// ParseFile reads the file at path and chunks its text. Unknown extensions
// fail with ErrUnsupportedFormat.
func (c *Chunker) ParseFile(path string) ([]types.Fragment, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if !SupportedExtension(ext) {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return c.ChunkText(string(data), path), nil
}

// ChunkText splits text on whitespace into fragments of targetTokens words,
// stepping back by the configured overlap between fragments. The token
// estimate of each fragment is its word count. Empty text yields no
// fragments.
func (c *Chunker) ChunkText(text, sourcePath string) []types.Fragment {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var fragments []types.Fragment
	start := 0
	for start < len(words) {
		end := start + c.targetTokens
		if end > len(words) {
			end = len(words)
		}

		fragments = append(fragments, types.Fragment{
			ID:            fmt.Sprintf("chunk-%d", c.counter),
			Text:          strings.Join(words[start:end], " "),
			TokenEstimate: end - start,
			SourcePath:    sourcePath,
		})
		c.counter++

		if end == len(words) {
			break
		}
		back := c.overlap
		if back > end-start {
			back = end - start
		}
		start = end - back
	}
	return fragments
}
