package devserver

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/semanticallynull/campusride/scooter"
)

var ErrRideNotFound = errors.New("ride not found")

// Ride is one booking of a scooter by a user.
type Ride struct {
	ID            string     `db:"id"`
	ScooterID     string     `db:"scooter_id"`
	ScooterName   string     `db:"scooter_name"`
	UserID        string     `db:"user_id"`
	StartLocation string     `db:"start_location"`
	EndLocation   *string    `db:"end_location"`
	StartedAt     time.Time  `db:"started_at"`
	EndedAt       *time.Time `db:"ended_at"`
}

// Inventory owns scooter availability. Book is the only way a scooter leaves
// Available, and it must refuse a scooter that is already taken even under
// concurrent requests.
type Inventory interface {
	Scooters(ctx context.Context) ([]scooter.Scooter, error)
	Book(ctx context.Context, scooterID, userID string) (scooter.Scooter, Ride, error)
	Rides(ctx context.Context, userID string) ([]Ride, error)
	Ride(ctx context.Context, userID, rideID string) (Ride, error)
}

// Fleet is the default campus fleet. Two scooters share the Engineering gate
// so clients have overlapping markers to spread.
func Fleet() []scooter.Scooter {
	at := func(name string, lat, lng float64) scooter.Location {
		return scooter.Location{Name: name, Coordinates: []float64{lat, lng}}
	}
	return []scooter.Scooter{
		{ID: "sc-001", Name: "Blue Comet", Status: scooter.Available, Location: at("Main Gate", 31.041779, 31.357201)},
		{ID: "sc-002", Name: "Red Arrow", Status: scooter.Available, Location: at("Faculty of Engineering", 31.043842, 31.353617)},
		{ID: "sc-003", Name: "Green Leaf", Status: scooter.Available, Location: at("Faculty of Engineering", 31.043842, 31.353617)},
		{ID: "sc-004", Name: "Yellow Bolt", Status: scooter.Available, Location: at("Central Library", 31.040512, 31.355981)},
		{ID: "sc-005", Name: "Night Owl", Status: scooter.InUse, Location: at("Student Dorms", 31.038427, 31.359244)},
		{ID: "sc-006", Name: "Silver Fox", Status: scooter.Available, Location: at("Sports Complex", 31.045103, 31.360417)},
	}
}

type MemoryInventory struct {
	mu       sync.Mutex
	scooters []scooter.Scooter
	rides    []Ride
	now      func() time.Time
}

func NewMemoryInventory(fleet []scooter.Scooter) *MemoryInventory {
	inv := &MemoryInventory{now: time.Now}
	for _, s := range fleet {
		inv.scooters = append(inv.scooters, cloneScooter(s))
	}
	return inv
}

func (m *MemoryInventory) Scooters(ctx context.Context) ([]scooter.Scooter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]scooter.Scooter, 0, len(m.scooters))
	for _, s := range m.scooters {
		out = append(out, cloneScooter(s))
	}
	return out, nil
}

func (m *MemoryInventory) Book(ctx context.Context, scooterID, userID string) (scooter.Scooter, Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.scooters, func(s scooter.Scooter) bool { return s.ID == scooterID })
	if i < 0 {
		return scooter.Scooter{}, Ride{}, scooter.ErrNotFound
	}
	s := &m.scooters[i]
	if !s.Status.Bookable() {
		return scooter.Scooter{}, Ride{}, scooter.ErrNotAvailable
	}
	s.Status = scooter.InUse

	r := Ride{
		ID:            uuid.NewString(),
		ScooterID:     s.ID,
		ScooterName:   s.Name,
		UserID:        userID,
		StartLocation: s.Location.Name,
		StartedAt:     m.now().UTC(),
	}
	m.rides = append(m.rides, r)
	return cloneScooter(*s), r, nil
}

// Rides returns the user's rides, most recent first.
func (m *MemoryInventory) Rides(ctx context.Context, userID string) ([]Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Ride
	for i := len(m.rides) - 1; i >= 0; i-- {
		if m.rides[i].UserID == userID {
			out = append(out, m.rides[i])
		}
	}
	return out, nil
}

func (m *MemoryInventory) Ride(ctx context.Context, userID, rideID string) (Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rides {
		if r.ID == rideID && r.UserID == userID {
			return r, nil
		}
	}
	return Ride{}, ErrRideNotFound
}

func cloneScooter(s scooter.Scooter) scooter.Scooter {
	s.Location.Coordinates = slices.Clone(s.Location.Coordinates)
	return s
}
