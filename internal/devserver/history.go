package devserver

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/semanticallynull/campusride/ride"
)

// Campus tariff.
const (
	baseFare      = 1.00
	perMinuteFare = 0.15
	perKmFare     = 0.25
	averageKmh    = 12.0
)

func (s *Server) historyHandler(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	rides, err := s.inventory.Rides(c, id)
	if err != nil {
		internalError(c, "failed to list rides", err)
		return
	}

	records := make([]ride.Record, 0, len(rides))
	for _, r := range rides {
		records = append(records, toRecord(r))
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) rideHandler(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	r, err := s.inventory.Ride(c, id, c.Param("id"))
	if errors.Is(err, ErrRideNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Ride not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to get ride", err)
		return
	}
	c.JSON(http.StatusOK, toReceipt(r, time.Now()))
}

func toRecord(r Ride) ride.Record {
	started := r.StartedAt
	rec := ride.Record{
		ID:            r.ID,
		Scooter:       &ride.ScooterRef{ID: r.ScooterID, Name: r.ScooterName},
		StartLocation: &ride.StartLocation{Name: r.StartLocation},
		StartedAt:     &started,
	}
	if r.EndLocation != nil {
		rec.EndLocation = &ride.EndLocation{Name: *r.EndLocation}
	}
	if r.EndedAt != nil {
		ended := *r.EndedAt
		rec.EndedAt = &ended
		cost := fare(ended.Sub(started)).total()
		rec.Cost = &cost
	}
	return rec
}

type fareBreakdown struct {
	km       float64
	base     float64
	distance float64
	time     float64
}

func (f fareBreakdown) total() float64 {
	return math.Round((f.base+f.distance+f.time)*100) / 100
}

// fare prices a ride of duration d. Distance is estimated from the campus
// average speed.
func fare(d time.Duration) fareBreakdown {
	minutes := math.Ceil(d.Minutes())
	km := d.Hours() * averageKmh
	return fareBreakdown{
		km:       km,
		base:     baseFare,
		distance: km * perKmFare,
		time:     minutes * perMinuteFare,
	}
}

// toReceipt formats r for the receipt screen. A ride still in progress is
// priced up to now.
func toReceipt(r Ride, now time.Time) ride.Receipt {
	end := now
	status, payment := "In Progress", "Pending"
	if r.EndedAt != nil {
		end = *r.EndedAt
		status, payment = "Completed", "Paid"
	}
	d := end.Sub(r.StartedAt)
	f := fare(d)

	endLocation := "In transit"
	if r.EndLocation != nil {
		endLocation = *r.EndLocation
	}

	avgSpeed := "0 km/h"
	if d > 0 {
		avgSpeed = fmt.Sprintf("%.0f km/h", averageKmh)
	}

	return ride.Receipt{
		Status:        status,
		PaymentStatus: payment,
		Date:          r.StartedAt.Format("January 2, 2006"),
		TimeRange:     r.StartedAt.Format("3:04 PM") + " - " + end.Format("3:04 PM"),
		Distance:      fmt.Sprintf("%.1f km", f.km),
		Duration:      fmt.Sprintf("%d min", int(math.Ceil(d.Minutes()))),
		AvgSpeed:      avgSpeed,
		BatteryUsed:   fmt.Sprintf("%.0f%%", math.Ceil(f.km*4)),
		TotalCost:     money(f.total()),
		StartLocation: r.StartLocation,
		EndLocation:   endLocation,
		Scooter: ride.ReceiptScooter{
			ID:           r.ScooterID,
			Model:        r.ScooterName,
			BatteryLevel: fmt.Sprintf("%.0f%%", math.Max(0, 100-math.Ceil(f.km*4))),
		},
		Breakdown: ride.ReceiptBreakdown{
			BaseFare:     money(f.base),
			DistanceFare: money(f.distance),
			TimeFare:     money(f.time),
		},
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
