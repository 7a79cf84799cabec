// Package scooter is the view-model behind the booking screen: it fetches
// scooter availability, narrows and orders it for display, and books a
// scooter on the user's behalf.
package scooter

import "errors"

var (
	ErrNotFound     = errors.New("scooter not found")
	ErrNotAvailable = errors.New("scooter not available")
)

type Status string

const (
	Available Status = "Available"
	InUse     Status = "In Use"
)

// Bookable reports whether a scooter in this status may be booked. Anything
// other than Available, including unknown values, is not bookable.
func (s Status) Bookable() bool {
	return s == Available
}

// Scooter as surfaced to the client. The backend is the source of truth;
// a fetched list is a read-mostly copy valid until the next fetch.
type Scooter struct {
	ID       string   `json:"_id"`
	Name     string   `json:"scooterName"`
	Status   Status   `json:"status"`
	Location Location `json:"location"`
}

type Location struct {
	Name string `json:"locationName"`
	// Coordinates is [latitude, longitude] as sent by the backend.
	Coordinates []float64 `json:"coordinates,omitempty"`
}

type Point struct {
	Lat float64
	Lng float64
}

// Point returns the location as a Point. ok is false when the backend sent
// no usable coordinates.
func (l Location) Point() (p Point, ok bool) {
	if len(l.Coordinates) != 2 {
		return Point{}, false
	}
	return Point{Lat: l.Coordinates[0], Lng: l.Coordinates[1]}, true
}

// Booking is the backend's confirmation of a successful booking.
type Booking struct {
	Message string   `json:"message,omitempty"`
	Scooter *Scooter `json:"scooter,omitempty"`
}
