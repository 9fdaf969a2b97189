package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/engrave/pkg/score"
)

// Parse decodes and validates the score document. The context is
// accepted for symmetry with the other stages; parsing does no I/O.
func Parse(ctx context.Context, opts Options) (*score.Document, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	doc, err := score.Parse(opts.Score)
	if err != nil {
		return nil, fmt.Errorf("parse score: %w", err)
	}
	return doc, nil
}
