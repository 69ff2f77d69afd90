package storage

import (
	"context"
	"errors"

	"styledoc/internal/styleguide"
)

// ErrNotFound is returned when no document has been saved yet.
var ErrNotFound = errors.New("no style guide stored")

// Store persists built style guide documents.
type Store interface {
	// SaveDocument replaces the stored snapshot with doc.
	SaveDocument(ctx context.Context, doc *styleguide.Document) error

	// LoadDocument reads the stored snapshot.
	LoadDocument(ctx context.Context) (*styleguide.Document, error)

	// FindSections returns stored sections at or below position, in position
	// order. It returns ErrNotFound when no document has been saved.
	FindSections(ctx context.Context, position string) ([]styleguide.Section, error)

	Close() error
}
