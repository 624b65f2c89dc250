package sales

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Mimoh123/saleTracker/internal/domain/models"
)

// failingStore returns the configured error from every operation.
type failingStore struct {
	err error
}

func (f *failingStore) FindAll(ctx context.Context) ([]models.SaleEntry, error) { return nil, f.err }
func (f *failingStore) Insert(ctx context.Context, entry models.SaleEntry) error {
	return f.err
}
func (f *failingStore) Update(ctx context.Context, id, productName string, amount float64, paymentType models.PaymentType) error {
	return f.err
}
func (f *failingStore) Delete(ctx context.Context, id string) error { return f.err }

// insertFailingStore lets listings succeed while inserts fail, to exercise
// the best-effort re-read fallback.
type insertFailingStore struct {
	*LocalStore
	insertErr error
}

func (s *insertFailingStore) Insert(ctx context.Context, entry models.SaleEntry) error {
	return s.insertErr
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	return NewService(store, nil, zaptest.NewLogger(t))
}

func TestAddThenListContainsNewEntry(t *testing.T) {
	store := NewLocalStore()
	svc := newTestService(t, store)

	fixed := time.Date(2024, 5, 17, 14, 30, 0, 0, time.Local)
	svc.now = func() time.Time { return fixed }

	result := svc.Add(context.Background(), "  Coffee Beans  ", 12.5, "qr")
	require.True(t, result.Success)
	require.Empty(t, result.Error)
	require.Len(t, result.Entries, 1)

	entry := result.Entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Coffee Beans", entry.ProductName, "product name should be trimmed")
	assert.Equal(t, 12.5, entry.Amount)
	assert.Equal(t, models.PaymentQR, entry.PaymentType)
	assert.Equal(t, "2024-05-17", entry.Date)
	assert.Equal(t, fixed.UnixMilli(), entry.CreatedAt)
}

func TestAddDefaultsPaymentTypeToCash(t *testing.T) {
	svc := newTestService(t, NewLocalStore())

	for _, pt := range []string{"", "card", "bitcoin"} {
		result := svc.Add(context.Background(), "Tea", 3, pt)
		require.True(t, result.Success)
		assert.Equal(t, models.PaymentCash, result.Entries[0].PaymentType)
	}
}

func TestAddCreatedAtMonotonic(t *testing.T) {
	svc := newTestService(t, NewLocalStore())

	first := svc.Add(context.Background(), "a", 1, "cash")
	require.True(t, first.Success)
	second := svc.Add(context.Background(), "b", 2, "cash")
	require.True(t, second.Success)

	// Entries are createdAt-desc, so the newest is first.
	require.Len(t, second.Entries, 2)
	assert.GreaterOrEqual(t, second.Entries[0].CreatedAt, second.Entries[1].CreatedAt)
}

func TestAddRejectsNonPositiveAmount(t *testing.T) {
	store := NewLocalStore()
	svc := newTestService(t, store)

	seeded := svc.Add(context.Background(), "existing", 10, "cash")
	require.True(t, seeded.Success)

	for _, amount := range []float64{0, -5} {
		result := svc.Add(context.Background(), "bad", amount, "cash")
		assert.False(t, result.Success)
		assert.Equal(t, "Amount must be greater than 0", result.Error)
		assert.Len(t, result.Entries, 1, "store must not be mutated by a rejected add")
	}

	after, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestListOrderedByCreatedAtDescending(t *testing.T) {
	store := NewLocalStore()
	for _, ts := range []int64{100, 300, 200} {
		require.NoError(t, store.Insert(context.Background(), models.SaleEntry{
			ID:        fmt.Sprintf("id-%d", ts),
			CreatedAt: ts,
		}))
	}

	svc := newTestService(t, store)
	res := svc.List(context.Background())
	require.Empty(t, res.Error)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, int64(300), res.Entries[0].CreatedAt)
	assert.Equal(t, int64(200), res.Entries[1].CreatedAt)
	assert.Equal(t, int64(100), res.Entries[2].CreatedAt)
}

func TestDeleteRemovesOnlyTargetAndIsIdempotent(t *testing.T) {
	svc := newTestService(t, NewLocalStore())

	a := svc.Add(context.Background(), "keep", 1, "cash")
	require.True(t, a.Success)
	b := svc.Add(context.Background(), "remove", 2, "cash")
	require.True(t, b.Success)

	var targetID string
	for _, e := range b.Entries {
		if e.ProductName == "remove" {
			targetID = e.ID
		}
	}
	require.NotEmpty(t, targetID)

	first := svc.Delete(context.Background(), targetID)
	require.True(t, first.Success)
	require.Empty(t, first.Error)
	require.Len(t, first.Entries, 1)
	assert.Equal(t, "keep", first.Entries[0].ProductName)

	second := svc.Delete(context.Background(), targetID)
	assert.True(t, second.Success, "deleting a missing id is not an error")
	assert.Empty(t, second.Error)
	assert.Len(t, second.Entries, 1)
}

func TestUpdateMutatesOnlyEditableFields(t *testing.T) {
	svc := newTestService(t, NewLocalStore())

	fixed := time.Date(2024, 5, 17, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return fixed }

	created := svc.Add(context.Background(), "Old Name", 5, "cash")
	require.True(t, created.Success)
	before := created.Entries[0]

	svc.now = time.Now
	updated := svc.Update(context.Background(), before.ID, " New Name ", 9.75, "loan")
	require.True(t, updated.Success)
	require.Len(t, updated.Entries, 1)

	after := updated.Entries[0]
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "New Name", after.ProductName)
	assert.Equal(t, 9.75, after.Amount)
	assert.Equal(t, models.PaymentLoan, after.PaymentType)
	assert.Equal(t, before.Date, after.Date, "date must be preserved")
	assert.Equal(t, before.CreatedAt, after.CreatedAt, "createdAt must be preserved")
}

func TestUpdateRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(t, NewLocalStore())

	created := svc.Add(context.Background(), "item", 5, "cash")
	require.True(t, created.Success)
	id := created.Entries[0].ID

	result := svc.Update(context.Background(), id, "item", 0, "cash")
	assert.False(t, result.Success)
	assert.Equal(t, "Amount must be greater than 0", result.Error)
	assert.Equal(t, 5.0, result.Entries[0].Amount, "store must not be mutated")
}

func TestUpdateMissingIDLooksLikeSuccess(t *testing.T) {
	svc := newTestService(t, NewLocalStore())

	result := svc.Update(context.Background(), "no-such-id", "x", 1, "cash")
	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
}

func TestListUnreachableStoreYieldsActionableMessage(t *testing.T) {
	unreachable := fmt.Errorf("%w: connection refused", models.ErrStoreUnreachable)
	svc := newTestService(t, &failingStore{err: unreachable})

	res := svc.List(context.Background())
	assert.Empty(t, res.Entries)
	assert.Equal(t,
		"Could not connect to MongoDB. Make sure MongoDB is running and MONGODB_URI is correct.",
		res.Error)
}

func TestListGenericStoreErrorSurfacesItsMessage(t *testing.T) {
	svc := newTestService(t, &failingStore{err: errors.New("index corrupted")})

	res := svc.List(context.Background())
	assert.Empty(t, res.Entries)
	assert.Equal(t, "index corrupted", res.Error)

	unreachableRes := newTestService(t, &failingStore{
		err: fmt.Errorf("%w: dial tcp", models.ErrStoreUnreachable),
	}).List(context.Background())
	assert.NotEqual(t, res.Error, unreachableRes.Error,
		"connection failures must be detectably different from generic ones")
}

func TestAddInsertFailureReturnsBestEffortList(t *testing.T) {
	base := NewLocalStore()
	require.NoError(t, base.Insert(context.Background(), models.SaleEntry{ID: "prior", CreatedAt: 1}))

	svc := newTestService(t, &insertFailingStore{LocalStore: base, insertErr: errors.New("write concern failed")})

	result := svc.Add(context.Background(), "doomed", 4, "cash")
	assert.False(t, result.Success)
	assert.Equal(t, "write concern failed", result.Error)
	require.Len(t, result.Entries, 1, "entries should come from the fallback re-read")
	assert.Equal(t, "prior", result.Entries[0].ID)
}

func TestDeleteStoreFailure(t *testing.T) {
	svc := newTestService(t, &failingStore{err: errors.New("boom")})

	result := svc.Delete(context.Background(), "any")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Entries)
}

func TestCoerceAmount(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"numeric string", "19.99", 19.99},
		{"comma decimal string", "19,99", 19.99},
		{"padded string", " 3 ", 3},
		{"unparseable string", "abc", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CoerceAmount(tc.in))
		})
	}
}

// recordingNotifier captures notified entries for assertions.
type recordingNotifier struct {
	ch chan models.SaleEntry
}

func (r *recordingNotifier) NotifySaleRecorded(ctx context.Context, entry models.SaleEntry) error {
	r.ch <- entry
	return nil
}

func TestAddNotifiesWebhookOnSuccess(t *testing.T) {
	notifier := &recordingNotifier{ch: make(chan models.SaleEntry, 1)}
	svc := NewService(NewLocalStore(), notifier, zaptest.NewLogger(t))

	result := svc.Add(context.Background(), "notify me", 2, "cash")
	require.True(t, result.Success)

	select {
	case got := <-notifier.ch:
		assert.Equal(t, "notify me", got.ProductName)
	case <-time.After(2 * time.Second):
		t.Fatal("webhook notification was never sent")
	}
}

func TestAddRejectedDoesNotNotify(t *testing.T) {
	notifier := &recordingNotifier{ch: make(chan models.SaleEntry, 1)}
	svc := NewService(NewLocalStore(), notifier, zaptest.NewLogger(t))

	result := svc.Add(context.Background(), "nope", 0, "cash")
	require.False(t, result.Success)

	select {
	case <-notifier.ch:
		t.Fatal("rejected add must not emit a webhook event")
	case <-time.After(50 * time.Millisecond):
	}
}
