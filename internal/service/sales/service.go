package sales

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mimoh123/saleTracker/internal/domain/models"
	"github.com/Mimoh123/saleTracker/pkg/clients/webhook"
)

const dateLayout = "2006-01-02"

// User-facing error strings. Store-level failures never escape the action
// layer as Go errors; they are converted into these messages.
const (
	msgUnreachable  = "Could not connect to MongoDB. Make sure MongoDB is running and MONGODB_URI is correct."
	msgAmount       = "Amount must be greater than 0"
	msgLoadFailed   = "Failed to load sales"
	msgAddFailed    = "Failed to add sale"
	msgUpdateFailed = "Failed to update sale"
	msgDeleteFailed = "Failed to delete sale"
)

// ListResult is the snapshot returned by List: the complete entry list plus
// an optional user-facing error.
type ListResult struct {
	Entries []models.SaleEntry `json:"entries"`
	Error   string             `json:"error,omitempty"`
}

// MutationResult is returned by Add, Update and Delete. Entries always holds
// a freshly re-read snapshot (best-effort on the failure path) so the caller
// can replace its state wholesale instead of patching deltas.
type MutationResult struct {
	Success bool               `json:"success"`
	Entries []models.SaleEntry `json:"entries"`
	Error   string             `json:"error,omitempty"`
}

// Service implements the sales actions on top of a Store.
type Service struct {
	store    Store
	notifier webhook.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new Service. notifier may be nil, in which case no
// outbound sale events are sent.
func NewService(store Store, notifier webhook.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Now exposes the service clock so consumers derive summaries against the
// same notion of "today" that Add stamps onto entries.
func (s *Service) Now() time.Time {
	return s.now()
}

// List fetches the full entry list, most recent first. On failure it returns
// an empty list and a message that distinguishes an unreachable store from
// other errors.
func (s *Service) List(ctx context.Context) ListResult {
	entries, err := s.store.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to list sales", zap.Error(err))
		return ListResult{Entries: []models.SaleEntry{}, Error: messageFor(err, msgLoadFailed)}
	}
	return ListResult{Entries: entries}
}

// Add validates and records a new sale, then returns the refreshed list.
// Validation happens before any write: a non-positive (or unparseable,
// coerced to 0) amount is rejected and the store is left untouched.
func (s *Service) Add(ctx context.Context, productName string, amount float64, paymentType string) MutationResult {
	if amount <= 0 {
		res := s.List(ctx)
		return MutationResult{Success: false, Entries: res.Entries, Error: msgAmount}
	}

	now := s.now()
	entry := models.SaleEntry{
		ID:          uuid.NewString(),
		ProductName: strings.TrimSpace(productName),
		Amount:      amount,
		PaymentType: models.NormalizePaymentType(paymentType),
		Date:        now.Format(dateLayout),
		CreatedAt:   now.UnixMilli(),
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		s.logger.Error("failed to add sale", zap.String("sale_id", entry.ID), zap.Error(err))
		return s.failureResult(ctx, err, msgAddFailed)
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", entry.ID),
		zap.Float64("amount", entry.Amount),
		zap.String("payment_type", string(entry.PaymentType)))

	if s.notifier != nil {
		// Fire-and-forget: webhook delivery must never delay or fail the add.
		go func(e models.SaleEntry) {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			if err := s.notifier.NotifySaleRecorded(notifyCtx, e); err != nil {
				s.logger.Warn("sale webhook delivery failed", zap.String("sale_id", e.ID), zap.Error(err))
			}
		}(entry)
	}

	res := s.List(ctx)
	return MutationResult{Success: true, Entries: res.Entries}
}

// Update applies the same validation as Add and then mutates only
// productName, amount and paymentType of the matching entry. A non-existent
// id is indistinguishable from success.
func (s *Service) Update(ctx context.Context, id, productName string, amount float64, paymentType string) MutationResult {
	if amount <= 0 {
		res := s.List(ctx)
		return MutationResult{Success: false, Entries: res.Entries, Error: msgAmount}
	}

	err := s.store.Update(ctx, id, strings.TrimSpace(productName), amount, models.NormalizePaymentType(paymentType))
	if err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", id), zap.Error(err))
		return s.failureResult(ctx, err, msgUpdateFailed)
	}

	res := s.List(ctx)
	return MutationResult{Success: true, Entries: res.Entries}
}

// Delete removes the matching entry. Deleting an id that does not exist is
// idempotent and still succeeds.
func (s *Service) Delete(ctx context.Context, id string) MutationResult {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete sale", zap.String("sale_id", id), zap.Error(err))
		return s.failureResult(ctx, err, msgDeleteFailed)
	}

	res := s.List(ctx)
	return MutationResult{Success: true, Entries: res.Entries}
}

// failureResult re-reads the list best-effort and surfaces the triggering
// error, falling back to the re-read's own error, then to a generic message.
func (s *Service) failureResult(ctx context.Context, err error, fallback string) MutationResult {
	res := s.List(ctx)
	msg := messageFor(err, "")
	if msg == "" {
		msg = res.Error
	}
	if msg == "" {
		msg = fallback
	}
	return MutationResult{Success: false, Entries: res.Entries, Error: msg}
}

func messageFor(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrStoreUnreachable):
		return msgUnreachable
	case err.Error() != "":
		return err.Error()
	default:
		return fallback
	}
}

// CoerceAmount converts loosely-typed amount input to a float64, returning 0
// for anything unparseable so that validation rejects it. Numeric strings may
// use a comma as the decimal separator.
func CoerceAmount(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", "."), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
