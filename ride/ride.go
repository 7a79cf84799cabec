// Package ride backs the ride history and ride receipt screens.
package ride

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("ride not found")

// Record is one entry of the rider's history.
type Record struct {
	ID            string         `json:"_id"`
	Scooter       *ScooterRef    `json:"scooterId,omitempty"`
	StartLocation *StartLocation `json:"startLocation,omitempty"`
	EndLocation   *EndLocation   `json:"endLocation,omitempty"`
	StartedAt     *time.Time     `json:"startTime,omitempty"`
	EndedAt       *time.Time     `json:"endTime,omitempty"`
	// Cost is in the wallet's currency.
	Cost *float64 `json:"cost,omitempty"`
}

type ScooterRef struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"scooterName"`
}

type StartLocation struct {
	Name string `json:"startLocationName"`
}

type EndLocation struct {
	Name string `json:"endLocationName"`
}

func (r Record) ScooterName() string {
	if r.Scooter == nil || r.Scooter.Name == "" {
		return "Unknown Scooter"
	}
	return r.Scooter.Name
}

func (r Record) From() string {
	if r.StartLocation == nil || r.StartLocation.Name == "" {
		return "Unknown"
	}
	return r.StartLocation.Name
}

func (r Record) To() string {
	if r.EndLocation == nil || r.EndLocation.Name == "" {
		return "Unknown"
	}
	return r.EndLocation.Name
}

// Receipt is the ride detail screen. Values arrive preformatted by the
// backend ("3.2 km", "$2.80").
type Receipt struct {
	Status        string           `json:"status"`
	PaymentStatus string           `json:"paymentStatus"`
	Date          string           `json:"date"`
	TimeRange     string           `json:"timeRange"`
	Distance      string           `json:"distance"`
	Duration      string           `json:"duration"`
	AvgSpeed      string           `json:"avgSpeed"`
	BatteryUsed   string           `json:"batteryUsed"`
	TotalCost     string           `json:"totalCost"`
	StartLocation string           `json:"startLocation"`
	EndLocation   string           `json:"endLocation"`
	Scooter       ReceiptScooter   `json:"scooter"`
	Breakdown     ReceiptBreakdown `json:"breakdown"`
}

type ReceiptScooter struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	BatteryLevel string `json:"batteryLevel"`
}

type ReceiptBreakdown struct {
	BaseFare     string `json:"baseFare"`
	DistanceFare string `json:"distanceFare"`
	TimeFare     string `json:"timeFare"`
}
