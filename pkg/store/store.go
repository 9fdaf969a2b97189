// Package store persists rendered layouts as documents so the HTTP
// service can serve them back by id. Two backends exist:
//   - memory: in-process storage for development and tests
//   - mongo: MongoDB-backed storage for deployments
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/engrave/pkg/layout"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
)

// Document wraps a layout with identity and bookkeeping fields. The bson
// tags map onto the MongoDB collection schema.
type Document struct {
	ID        string        `json:"id" bson:"_id"`
	Title     string        `json:"title,omitempty" bson:"title,omitempty"`
	ScoreHash string        `json:"score_hash" bson:"score_hash"`
	Layout    layout.Layout `json:"layout" bson:"layout"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// NewDocument wraps a layout in a document with a fresh id.
func NewDocument(scoreHash string, l layout.Layout) *Document {
	return &Document{
		ID:        uuid.NewString(),
		Title:     l.Title,
		ScoreHash: scoreHash,
		Layout:    l,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for layout document storage backends.
type Store interface {
	// Put stores a document, replacing any existing one with the same id.
	Put(ctx context.Context, doc *Document) error

	// Get retrieves a document by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Document, error)

	// List returns up to limit documents, newest first.
	List(ctx context.Context, limit int) ([]*Document, error)

	// Delete removes a document. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// DefaultListLimit bounds List when the caller passes limit <= 0.
const DefaultListLimit = 50
