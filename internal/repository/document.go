// Package repository contains data access abstractions for document records.
// Implementations live in subpackages (memory, postgres).
package repository

import (
	"context"
	"errors"

	"github.com/LocialWang/coze-word-upload-plugin/internal/model"
)

// ErrNotFound is returned when no record exists for the given identifier.
var ErrNotFound = errors.New("document record not found")

// DocumentRepository defines persistence for document records. No business
// logic here, strictly store operations. Listing follows insertion order;
// that ordering is a convenience of the implementations, not a contract.
type DocumentRepository interface {
	// Insert adds a new record. The caller provides all fields including ID.
	Insert(ctx context.Context, doc *model.Document) error

	// FindByID returns the record for id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns every record in insertion order.
	List(ctx context.Context) ([]model.Document, error)

	// Delete removes the record for id. Missing records are not an error.
	Delete(ctx context.Context, id string) error
}
