package scooter

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Filter returns the scooters whose name or location name contains query,
// ignoring case. An empty query returns list itself.
func Filter(list []Scooter, query string) []Scooter {
	if query == "" {
		return list
	}
	q := strings.ToLower(query)
	return lo.Filter(list, func(s Scooter, _ int) bool {
		return strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.Location.Name), q)
	})
}

// Order returns a copy of list with Available scooters first. The sort is
// stable and has no secondary key.
func Order(list []Scooter) []Scooter {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b Scooter) int {
		switch {
		case a.Status.Bookable() && !b.Status.Bookable():
			return -1
		case !a.Status.Bookable() && b.Status.Bookable():
			return 1
		}
		return 0
	})
	return out
}
