// Package memory provides the default process-local document store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/LocialWang/coze-word-upload-plugin/internal/model"
	"github.com/LocialWang/coze-word-upload-plugin/internal/repository"
)

// DocumentMemory is an in-memory repository.DocumentRepository. It is
// unbounded and volatile: every record vanishes on process restart. A mutex
// guards the map so concurrent handlers never corrupt it; operations on the
// same id serialize on the lock.
type DocumentMemory struct {
	mu    sync.RWMutex
	docs  map[string]model.Document
	order []string
}

// NewDocumentMemory creates an empty in-memory repository.
func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{docs: make(map[string]model.Document)}
}

var _ repository.DocumentRepository = (*DocumentMemory)(nil)

// Insert stores a copy of doc. Duplicate ids are rejected; with 128-bit
// random identifiers that path is effectively unreachable.
func (r *DocumentMemory) Insert(_ context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[doc.ID]; exists {
		return fmt.Errorf("duplicate document id %q", doc.ID)
	}
	r.docs[doc.ID] = *doc
	r.order = append(r.order, doc.ID)
	return nil
}

// FindByID returns a copy of the record for id, or repository.ErrNotFound.
func (r *DocumentMemory) FindByID(_ context.Context, id string) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

// List returns all records in insertion order.
func (r *DocumentMemory) List(_ context.Context) ([]model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Document, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.docs[id])
	}
	return out, nil
}

// Delete removes the record for id; missing records are a no-op.
func (r *DocumentMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return nil
	}
	delete(r.docs, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports the number of stored records.
func (r *DocumentMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
