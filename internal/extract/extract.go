// Package extract converts uploaded Word documents into plain text.
package extract

import (
	"context"
	"strings"
)

// Extractor converts a document file into UTF-8 plain text.
// Implementations read the file at path and honor ctx cancellation.
type Extractor interface {
	Text(ctx context.Context, path string) (string, error)
}

// WordCount reports the number of whitespace-delimited tokens in s after
// trimming. Runs of whitespace count as a single boundary; empty text is 0.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
