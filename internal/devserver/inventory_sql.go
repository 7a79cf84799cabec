package devserver

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/semanticallynull/campusride/scooter"
)

// SQLInventory keeps the fleet and its rides in Postgres.
type SQLInventory struct {
	db *sqlx.DB
}

func NewSQLInventory(db *sqlx.DB) *SQLInventory {
	return &SQLInventory{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS scooters (
	id            text PRIMARY KEY,
	name          text NOT NULL,
	status        text NOT NULL DEFAULT 'Available',
	location_name text NOT NULL DEFAULT '',
	lat           double precision,
	lng           double precision
);

CREATE TABLE IF NOT EXISTS rides (
	id             uuid PRIMARY KEY,
	scooter_id     text NOT NULL REFERENCES scooters (id),
	user_id        text NOT NULL,
	start_location text NOT NULL DEFAULT '',
	end_location   text,
	started_at     timestamptz NOT NULL DEFAULT now(),
	ended_at       timestamptz
);

CREATE INDEX IF NOT EXISTS rides_user_id_idx ON rides (user_id, started_at DESC);
`

// EnsureSchema creates the tables and inserts any scooter of fleet that is
// not stored yet. Existing rows keep their status.
func (r *SQLInventory) EnsureSchema(ctx context.Context, fleet []scooter.Scooter) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	for _, s := range fleet {
		row := toScooterRow(s)
		if _, err := r.db.NamedExecContext(ctx, seedScooter, row); err != nil {
			return err
		}
	}
	return nil
}

const seedScooter = `
INSERT INTO scooters (id, name, status, location_name, lat, lng)
VALUES (:id, :name, :status, :location_name, :lat, :lng)
ON CONFLICT (id) DO NOTHING
`

type scooterRow struct {
	ID           string   `db:"id"`
	Name         string   `db:"name"`
	Status       string   `db:"status"`
	LocationName string   `db:"location_name"`
	Lat          *float64 `db:"lat"`
	Lng          *float64 `db:"lng"`
}

func toScooterRow(s scooter.Scooter) scooterRow {
	row := scooterRow{
		ID:           s.ID,
		Name:         s.Name,
		Status:       string(s.Status),
		LocationName: s.Location.Name,
	}
	if p, ok := s.Location.Point(); ok {
		row.Lat, row.Lng = &p.Lat, &p.Lng
	}
	return row
}

func (row scooterRow) toScooter() scooter.Scooter {
	s := scooter.Scooter{
		ID:       row.ID,
		Name:     row.Name,
		Status:   scooter.Status(row.Status),
		Location: scooter.Location{Name: row.LocationName},
	}
	if row.Lat != nil && row.Lng != nil {
		s.Location.Coordinates = []float64{*row.Lat, *row.Lng}
	}
	return s
}

func (r *SQLInventory) Scooters(ctx context.Context) ([]scooter.Scooter, error) {
	var rows []scooterRow
	if err := r.db.SelectContext(ctx, &rows, getScooters); err != nil {
		return nil, err
	}
	out := make([]scooter.Scooter, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toScooter())
	}
	return out, nil
}

const getScooters = `SELECT * FROM scooters ORDER BY id`

// Book locks the scooter row so concurrent bookings of the same scooter are
// serialized and only the first one succeeds.
func (r *SQLInventory) Book(ctx context.Context, scooterID, userID string) (scooter.Scooter, Ride, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return scooter.Scooter{}, Ride{}, err
	}
	defer tx.Rollback()

	var row scooterRow
	err = tx.GetContext(ctx, &row, book_lockScooter, scooterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scooter.Scooter{}, Ride{}, scooter.ErrNotFound
		}
		return scooter.Scooter{}, Ride{}, err
	}
	if !scooter.Status(row.Status).Bookable() {
		return scooter.Scooter{}, Ride{}, scooter.ErrNotAvailable
	}

	if _, err = tx.ExecContext(ctx, book_markInUse, scooterID, string(scooter.InUse)); err != nil {
		return scooter.Scooter{}, Ride{}, err
	}
	row.Status = string(scooter.InUse)

	var ride Ride
	err = tx.GetContext(ctx, &ride, book_startRide, uuid.New(), scooterID, userID, row.LocationName)
	if err != nil {
		return scooter.Scooter{}, Ride{}, err
	}
	ride.ScooterName = row.Name

	if err = tx.Commit(); err != nil {
		return scooter.Scooter{}, Ride{}, err
	}
	return row.toScooter(), ride, nil
}

const book_lockScooter = `SELECT * FROM scooters WHERE id = $1 FOR UPDATE`
const book_markInUse = `UPDATE scooters SET status = $2 WHERE id = $1`
const book_startRide = `
INSERT INTO rides (id, scooter_id, user_id, start_location, started_at)
VALUES ($1, $2, $3, $4, now())
RETURNING id, scooter_id, '' AS scooter_name, user_id, start_location, end_location, started_at, ended_at
`

func (r *SQLInventory) Rides(ctx context.Context, userID string) ([]Ride, error) {
	var rides []Ride
	err := r.db.SelectContext(ctx, &rides, getRides, userID)
	return rides, err
}

const getRides = `
SELECT r.id, r.scooter_id, COALESCE(s.name, '') AS scooter_name, r.user_id,
       r.start_location, r.end_location, r.started_at, r.ended_at
FROM rides r
LEFT JOIN scooters s ON s.id = r.scooter_id
WHERE r.user_id = $1
ORDER BY r.started_at DESC
`

func (r *SQLInventory) Ride(ctx context.Context, userID, rideID string) (Ride, error) {
	if _, err := uuid.Parse(rideID); err != nil {
		return Ride{}, ErrRideNotFound
	}

	var ride Ride
	err := r.db.GetContext(ctx, &ride, getRide, rideID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ride, ErrRideNotFound
	}
	return ride, err
}

const getRide = `
SELECT r.id, r.scooter_id, COALESCE(s.name, '') AS scooter_name, r.user_id,
       r.start_location, r.end_location, r.started_at, r.ended_at
FROM rides r
LEFT JOIN scooters s ON s.id = r.scooter_id
WHERE r.id = $1 AND r.user_id = $2
`
