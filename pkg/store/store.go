// Package store provides persistence for parsed diagrams.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for server deployments
//
// A stored Document carries the original source together with the parsed IR
// and, when computed, the layout, so the API can serve either without
// re-running the pipeline.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/layout"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a diagram does not exist.
	ErrNotFound = errors.New("not found")
)

// Document is one stored diagram.
type Document struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name" bson:"name"`
	Dialect   ir.DiagramType `json:"dialect" bson:"dialect"`
	Source    string         `json:"source" bson:"source"`
	IR        *ir.Diagram    `json:"ir,omitempty" bson:"ir,omitempty"`
	Layout    *layout.Layout `json:"layout,omitempty" bson:"layout,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// New creates a document for a parsed diagram with a fresh id.
func New(name, source string, parsed *ir.Diagram) *Document {
	now := time.Now().UTC()
	doc := &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    source,
		IR:        parsed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if parsed != nil {
		doc.Dialect = parsed.Type
	}
	return doc
}

// Touch bumps the update timestamp.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now().UTC()
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Get retrieves a document by id.
	// Returns ErrNotFound if the document doesn't exist.
	Get(ctx context.Context, id string) (*Document, error)

	// Put stores a document, replacing any previous version.
	Put(ctx context.Context, doc *Document) error

	// Delete removes a document. Deleting a missing document is not an
	// error.
	Delete(ctx context.Context, id string) error

	// List returns up to limit documents, newest first. A non-positive
	// limit returns everything.
	List(ctx context.Context, limit int) ([]*Document, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
