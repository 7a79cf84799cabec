package scooter

import "math/rand/v2"

// markerSpread is the full width of the random offset, in degrees, applied to
// stacked markers. 0.0001° is roughly 10 meters.
const markerSpread = 0.0001

// Marker is where a scooter is drawn on the map. Its Point may be nudged away
// from the scooter's real coordinates so that scooters parked at the same
// spot do not hide each other. Markers are for rendering only: never send
// them to the backend or use them for distance math.
type Marker struct {
	ScooterID string
	Name      string
	Point     Point
	Available bool
}

// Markers builds one marker per scooter with coordinates. Scooters sharing
// exactly the same coordinates with another scooter get an independent
// offset in [-spread/2, spread/2) on each axis. A nil rng uses a randomly
// seeded source.
func Markers(list []Scooter, rng *rand.Rand) []Marker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	seen := make(map[Point]int, len(list))
	for _, s := range list {
		if p, ok := s.Location.Point(); ok {
			seen[p]++
		}
	}

	markers := make([]Marker, 0, len(list))
	for _, s := range list {
		p, ok := s.Location.Point()
		if !ok {
			continue
		}
		if seen[p] > 1 {
			p.Lat += (rng.Float64() - 0.5) * markerSpread
			p.Lng += (rng.Float64() - 0.5) * markerSpread
		}
		markers = append(markers, Marker{
			ScooterID: s.ID,
			Name:      s.Name,
			Point:     p,
			Available: s.Status.Bookable(),
		})
	}
	return markers
}
