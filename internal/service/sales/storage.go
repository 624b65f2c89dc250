package sales

import (
	"context"
	"sort"
	"sync"

	"github.com/Mimoh123/saleTracker/internal/domain/models"
)

// Store is the entry-store contract the action layer depends on. FindAll
// must return entries sorted by createdAt descending; Update and Delete are
// idempotent with respect to missing ids.
type Store interface {
	FindAll(ctx context.Context) ([]models.SaleEntry, error)
	Insert(ctx context.Context, entry models.SaleEntry) error
	Update(ctx context.Context, id, productName string, amount float64, paymentType models.PaymentType) error
	Delete(ctx context.Context, id string) error
}

// LocalStore provides an in-memory Store implementation, used in tests and
// handy for running the server without a database.
type LocalStore struct {
	mu sync.Mutex
	m  map[string]models.SaleEntry
}

// NewLocalStore instantiates an empty in-memory store.
func NewLocalStore() *LocalStore {
	return &LocalStore{m: map[string]models.SaleEntry{}}
}

// FindAll returns all entries sorted by createdAt descending.
func (l *LocalStore) FindAll(ctx context.Context) ([]models.SaleEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]models.SaleEntry, 0, len(l.m))
	for _, e := range l.m {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt > entries[j].CreatedAt
	})
	return entries, nil
}

// Insert stores one entry keyed by its id.
func (l *LocalStore) Insert(ctx context.Context, entry models.SaleEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[entry.ID] = entry
	return nil
}

// Update mutates only the three editable fields; missing ids are ignored.
func (l *LocalStore) Update(ctx context.Context, id, productName string, amount float64, paymentType models.PaymentType) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.m[id]
	if !ok {
		return nil
	}
	e.ProductName = productName
	e.Amount = amount
	e.PaymentType = paymentType
	l.m[id] = e
	return nil
}

// Delete removes the entry with the given id, if present.
func (l *LocalStore) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.m, id)
	return nil
}
