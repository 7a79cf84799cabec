package scooter

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/semanticallynull/campusride/internal/notify"
)

const (
	msgLoadFailed  = "Failed to load scooters. Please try again."
	msgBookFailed  = "Booking failed"
	msgBookSuccess = "Successfully booked %s!"
)

// Backend is the part of the campus API the booking screen needs.
type Backend interface {
	ListScooters(ctx context.Context) ([]Scooter, error)
	BookScooter(ctx context.Context, id string) (Booking, error)
}

// View holds the scooter list for one visit of the booking screen. It is
// discarded with the screen; nothing is persisted.
//
// Load and Book may complete in any order. Each completion writes the shared
// list under a lock, so the last one to finish wins.
type View struct {
	backend  Backend
	notifier notify.Notifier
	logger   *slog.Logger
	rng      *rand.Rand

	mu       sync.Mutex
	scooters []Scooter
	markers  []Marker
	loading  bool
	actions  map[string]Action
}

type Option func(*View)

func WithLogger(l *slog.Logger) Option {
	return func(v *View) { v.logger = l }
}

// WithRand sets the source used to spread stacked map markers.
func WithRand(r *rand.Rand) Option {
	return func(v *View) { v.rng = r }
}

func NewView(backend Backend, notifier notify.Notifier, opts ...Option) *View {
	v := &View{
		backend:  backend,
		notifier: notifier,
		logger:   slog.Default(),
		actions:  make(map[string]Action),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.rng == nil {
		v.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return v
}

// Load replaces the list with a fresh copy from the backend. On failure the
// current list is kept and the user is notified; the error is returned for
// callers that care. Loading is false once Load returns.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()

	scooters, err := v.backend.ListScooters(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		v.logger.ErrorContext(ctx, "failed to fetch scooters", "error", err)
		v.notifier.Error(msgLoadFailed)
		return fmt.Errorf("load scooters: %w", err)
	}

	v.scooters = slices.Clone(scooters)
	v.markers = Markers(scooters, v.rng)
	return nil
}

func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Scooters returns a copy of the current list in backend order.
func (v *View) Scooters() []Scooter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.scooters)
}

// Visible is what the screen renders: the list narrowed by query, then
// ordered with available scooters first.
func (v *View) Visible(query string) []Scooter {
	return Order(Filter(v.Scooters(), query))
}

// Markers returns the map markers for the scooters matching query.
func (v *View) Markers(query string) []Marker {
	visible := v.Visible(query)
	ids := make(map[string]struct{}, len(visible))
	for _, s := range visible {
		ids[s.ID] = struct{}{}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Marker, 0, len(visible))
	for _, m := range v.markers {
		if _, ok := ids[m.ScooterID]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Get returns the scooter with id from the current list.
func (v *View) Get(id string) (Scooter, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.index(id)
	if i < 0 {
		return Scooter{}, ErrNotFound
	}
	return v.scooters[i], nil
}

// Action returns the state of the latest booking attempt for id.
func (v *View) Action(id string) Action {
	v.mu.Lock()
	defer v.mu.Unlock()
	if a, ok := v.actions[id]; ok {
		return a
	}
	return Action{ScooterID: id, State: Idle}
}

// Book asks the backend to reserve the scooter. The local copy is marked
// In Use only once the backend has confirmed; a rejected booking leaves the
// list untouched. The client does no locking of its own: the backend decides
// whether a second booking of the same scooter is allowed.
func (v *View) Book(ctx context.Context, id string) error {
	v.mu.Lock()
	v.actions[id] = Action{ScooterID: id, State: Pending}
	v.mu.Unlock()

	_, err := v.backend.BookScooter(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.actions[id] = Action{ScooterID: id, State: Failed, Err: err}
		v.logger.WarnContext(ctx, "booking failed", "scooterId", id, "error", err)
		v.notifier.Error(notify.MessageFrom(err, msgBookFailed))
		return fmt.Errorf("book scooter %s: %w", id, err)
	}

	v.actions[id] = Action{ScooterID: id, State: Committed}
	name := id
	if i := v.index(id); i >= 0 {
		v.scooters[i].Status = InUse
		name = v.scooters[i].Name
		for j := range v.markers {
			if v.markers[j].ScooterID == id {
				v.markers[j].Available = false
			}
		}
	}
	v.notifier.Success(fmt.Sprintf(msgBookSuccess, name))
	return nil
}

func (v *View) index(id string) int {
	return slices.IndexFunc(v.scooters, func(s Scooter) bool { return s.ID == id })
}
