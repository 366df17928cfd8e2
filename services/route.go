package services

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"verdantly.com/plant-care-backend/models"
)

const (
	RouteTypeGPS      = "gps"
	RouteTypeLocation = "location"
	RouteTypeUnsorted = "unsorted"
)

// OptimizedRoute is a visit order over the plants currently due for
// watering, plus a rough time estimate.
type OptimizedRoute struct {
	Plants           []*models.Plant
	RouteType        string
	TotalDistanceKm  float64
	EstimatedMinutes float64
}

// OptimizeRoute picks a strategy from the location data available:
// nearest-neighbor over GPS coordinates when any plant has them, a
// section/aisle/shelf sort otherwise, and input order as the fallback.
func OptimizeRoute(plants []*models.Plant) OptimizedRoute {
	if len(plants) == 0 {
		return OptimizedRoute{Plants: plants, RouteType: RouteTypeUnsorted}
	}

	for _, p := range plants {
		if p.Location.HasGPS() {
			return nearestNeighborRoute(plants)
		}
	}

	for _, p := range plants {
		if p.Location != nil && (p.Location.Section != "" || p.Location.Aisle != "" || p.Location.ShelfNumber != "") {
			return locationCodeRoute(plants)
		}
	}

	return OptimizedRoute{
		Plants:           plants,
		RouteType:        RouteTypeUnsorted,
		EstimatedMinutes: float64(len(plants)) * 2,
	}
}

// nearestNeighborRoute greedily walks from the first due plant to the
// closest unvisited one. Plants without GPS are appended at the end in
// input order. O(n^2), fine at per-business due counts.
func nearestNeighborRoute(plants []*models.Plant) OptimizedRoute {
	var withGPS, without []*models.Plant
	for _, p := range plants {
		if p.Location.HasGPS() {
			withGPS = append(withGPS, p)
		} else {
			without = append(without, p)
		}
	}

	route := make([]*models.Plant, 0, len(plants))
	visited := make([]bool, len(withGPS))

	current := 0
	route = append(route, withGPS[0])
	visited[0] = true
	totalKm := 0.0

	for len(route) < len(withGPS) {
		best := -1
		bestDist := 0.0
		for i, p := range withGPS {
			if visited[i] {
				continue
			}
			d := haversineKm(withGPS[current], p)
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		visited[best] = true
		route = append(route, withGPS[best])
		totalKm += bestDist
		current = best
	}

	route = append(route, without...)

	return OptimizedRoute{
		Plants:           route,
		RouteType:        RouteTypeGPS,
		TotalDistanceKm:  totalKm,
		EstimatedMinutes: estimateGPSMinutes(len(route), totalKm),
	}
}

func haversineKm(a, b *models.Plant) float64 {
	pa := orb.Point{a.Location.GPS.Longitude, a.Location.GPS.Latitude}
	pb := orb.Point{b.Location.GPS.Longitude, b.Location.GPS.Latitude}
	return geo.DistanceHaversine(pa, pb) / 1000
}

// locationCodeRoute sorts by (section, aisle, shelf) ascending, missing
// values sorting last.
func locationCodeRoute(plants []*models.Plant) OptimizedRoute {
	route := make([]*models.Plant, len(plants))
	copy(route, plants)

	sort.SliceStable(route, func(i, j int) bool {
		ki, kj := locationKey(route[i]), locationKey(route[j])
		if ki.section != kj.section {
			return ki.section < kj.section
		}
		if ki.aisle != kj.aisle {
			return ki.aisle < kj.aisle
		}
		return ki.shelf < kj.shelf
	})

	return OptimizedRoute{
		Plants:           route,
		RouteType:        RouteTypeLocation,
		EstimatedMinutes: estimateLocationMinutes(len(route)),
	}
}

type locKey struct {
	section, aisle, shelf string
}

const missingLocation = "999"

func locationKey(p *models.Plant) locKey {
	k := locKey{missingLocation, missingLocation, missingLocation}
	if p.Location == nil {
		return k
	}
	if p.Location.Section != "" {
		k.section = p.Location.Section
	}
	if p.Location.Aisle != "" {
		k.aisle = p.Location.Aisle
	}
	if p.Location.ShelfNumber != "" {
		k.shelf = p.Location.ShelfNumber
	}
	return k
}

// Fixed handling time per plant plus per-hop travel time.
func estimateLocationMinutes(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(n)*2 + float64(n-1)*0.5
}

func estimateGPSMinutes(n int, totalKm float64) float64 {
	return float64(n)*2 + totalKm*3
}
