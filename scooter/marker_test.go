package scooter

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkers_SpreadsOnlyStackedScooters(t *testing.T) {
	l := []Scooter{
		{ID: "A", Status: Available, Location: Location{Coordinates: []float64{31.041779, 31.357201}}},
		{ID: "B", Status: InUse, Location: Location{Coordinates: []float64{31.041779, 31.357201}}},
		{ID: "C", Status: Available, Location: Location{Coordinates: []float64{31.05, 31.36}}},
		{ID: "D", Status: Available, Location: Location{Name: "nowhere"}},
	}

	markers := Markers(l, rand.New(rand.NewPCG(7, 7)))
	require.Len(t, markers, 3, "scooters without coordinates get no marker")

	for _, m := range markers[:2] {
		assert.LessOrEqual(t, math.Abs(m.Point.Lat-31.041779), markerSpread/2)
		assert.LessOrEqual(t, math.Abs(m.Point.Lng-31.357201), markerSpread/2)
	}
	assert.NotEqual(t, markers[0].Point, markers[1].Point)
	assert.Equal(t, Point{Lat: 31.05, Lng: 31.36}, markers[2].Point, "unique coordinates are untouched")

	assert.True(t, markers[0].Available)
	assert.False(t, markers[1].Available)

	// The scooters themselves keep their real coordinates.
	assert.Equal(t, []float64{31.041779, 31.357201}, l[0].Location.Coordinates)
	assert.Equal(t, []float64{31.041779, 31.357201}, l[1].Location.Coordinates)
}

func TestLocation_Point(t *testing.T) {
	_, ok := Location{Coordinates: []float64{1}}.Point()
	assert.False(t, ok)

	p, ok := Location{Coordinates: []float64{1, 2}}.Point()
	assert.True(t, ok)
	assert.Equal(t, Point{Lat: 1, Lng: 2}, p)
}

func TestMarkers_NilRand(t *testing.T) {
	l := []Scooter{
		{ID: "A", Location: Location{Coordinates: []float64{31.041779, 31.357201}}},
		{ID: "B", Location: Location{Coordinates: []float64{31.041779, 31.357201}}},
	}

	var markers []Marker
	require.NotPanics(t, func() { markers = Markers(l, nil) })
	require.Len(t, markers, 2)
	assert.NotEqual(t, markers[0].Point, markers[1].Point)
}
