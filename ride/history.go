package ride

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/semanticallynull/campusride/internal/notify"
)

const (
	msgHistoryFailed = "Failed to load ride history."
	msgDetailsFailed = "Failed to load ride details."
)

type Backend interface {
	History(ctx context.Context) ([]Record, error)
	Ride(ctx context.Context, id string) (Receipt, error)
}

// History holds the rider's past rides for one visit of the history screen.
type History struct {
	backend  Backend
	notifier notify.Notifier
	logger   *slog.Logger

	mu      sync.Mutex
	records []Record
	loading bool
}

func NewHistory(backend Backend, notifier notify.Notifier, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	return &History{backend: backend, notifier: notifier, logger: logger}
}

// Load fetches the history. A failed fetch leaves the list empty.
func (h *History) Load(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	records, err := h.backend.History(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false
	if err != nil {
		h.records = nil
		h.logger.ErrorContext(ctx, "failed to fetch history", "error", err)
		h.notifier.Error(msgHistoryFailed)
		return fmt.Errorf("load history: %w", err)
	}
	h.records = slices.Clone(records)
	return nil
}

func (h *History) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

func (h *History) Records() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.records)
}

// Filter returns the rides whose scooter name contains query, ignoring case.
// Rides without a scooter name never match, even for an empty query.
func (h *History) Filter(query string) []Record {
	q := strings.ToLower(query)
	return lo.Filter(h.Records(), func(r Record, _ int) bool {
		return r.Scooter != nil && strings.Contains(strings.ToLower(r.Scooter.Name), q)
	})
}

// Details fetches the receipt for one ride.
func (h *History) Details(ctx context.Context, id string) (Receipt, error) {
	receipt, err := h.backend.Ride(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to fetch ride", "rideId", id, "error", err)
		h.notifier.Error(notify.MessageFrom(err, msgDetailsFailed))
		return Receipt{}, fmt.Errorf("load ride %s: %w", id, err)
	}
	return receipt, nil
}
