package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verdantly.com/plant-care-backend/models"
)

func gpsPlant(id string, lat, lon float64) *models.Plant {
	return &models.Plant{
		ID: id,
		Location: &models.Location{
			GPS: &models.GPSCoordinates{Latitude: lat, Longitude: lon},
		},
	}
}

func shelfPlant(id, section, aisle, shelf string) *models.Plant {
	return &models.Plant{
		ID: id,
		Location: &models.Location{
			Section: section, Aisle: aisle, ShelfNumber: shelf,
		},
	}
}

func routeIDs(route OptimizedRoute) []string {
	ids := make([]string, 0, len(route.Plants))
	for _, p := range route.Plants {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestOptimizeRouteEmpty(t *testing.T) {
	route := OptimizeRoute(nil)
	assert.Equal(t, RouteTypeUnsorted, route.RouteType)
	assert.Empty(t, route.Plants)
	assert.Zero(t, route.EstimatedMinutes)
}

func TestOptimizeRouteNearestNeighbor(t *testing.T) {
	// a at origin, c is closer to a than b.
	a := gpsPlant("a", 50.000, 14.000)
	b := gpsPlant("b", 50.010, 14.010)
	c := gpsPlant("c", 50.001, 14.001)

	route := OptimizeRoute([]*models.Plant{a, b, c})

	assert.Equal(t, RouteTypeGPS, route.RouteType)
	assert.Equal(t, []string{"a", "c", "b"}, routeIDs(route))
	assert.Greater(t, route.TotalDistanceKm, 0.0)
}

func TestOptimizeRouteDeterministic(t *testing.T) {
	plants := []*models.Plant{
		gpsPlant("a", 50.000, 14.000),
		gpsPlant("b", 50.005, 14.005),
		gpsPlant("c", 50.001, 14.001),
		gpsPlant("d", 50.002, 14.003),
	}

	first := OptimizeRoute(plants)
	for i := 0; i < 5; i++ {
		again := OptimizeRoute(plants)
		assert.Equal(t, routeIDs(first), routeIDs(again))
	}
}

func TestOptimizeRouteTiesBreakByInputOrder(t *testing.T) {
	// b and c are equidistant from a; b comes first in the input.
	a := gpsPlant("a", 50.000, 14.000)
	b := gpsPlant("b", 50.002, 14.000)
	c := gpsPlant("c", 49.998, 14.000)

	route := OptimizeRoute([]*models.Plant{a, b, c})
	assert.Equal(t, "b", route.Plants[1].ID)
}

func TestOptimizeRouteMixedGPSAppendsOthersLast(t *testing.T) {
	a := gpsPlant("a", 50.000, 14.000)
	noLoc := &models.Plant{ID: "x"}
	b := gpsPlant("b", 50.001, 14.001)

	route := OptimizeRoute([]*models.Plant{a, noLoc, b})

	assert.Equal(t, RouteTypeGPS, route.RouteType)
	assert.Equal(t, []string{"a", "b", "x"}, routeIDs(route))
}

func TestOptimizeRouteLocationCodes(t *testing.T) {
	p1 := shelfPlant("p1", "B", "1", "2")
	p2 := shelfPlant("p2", "A", "2", "1")
	p3 := shelfPlant("p3", "A", "1", "3")
	missing := &models.Plant{ID: "p4", Location: &models.Location{Section: ""}}
	missing.Location.Aisle = "1"

	route := OptimizeRoute([]*models.Plant{p1, p2, p3, missing})

	require.Equal(t, RouteTypeLocation, route.RouteType)
	// Missing section sorts as "999", i.e. last.
	assert.Equal(t, []string{"p3", "p2", "p1", "p4"}, routeIDs(route))
}

func TestOptimizeRouteFallbackKeepsInputOrder(t *testing.T) {
	plants := []*models.Plant{{ID: "x"}, {ID: "y"}, {ID: "z"}}

	route := OptimizeRoute(plants)

	assert.Equal(t, RouteTypeUnsorted, route.RouteType)
	assert.Equal(t, []string{"x", "y", "z"}, routeIDs(route))
	assert.Equal(t, 6.0, route.EstimatedMinutes)
}

func TestEstimateLocationMinutes(t *testing.T) {
	assert.Equal(t, 0.0, estimateLocationMinutes(0))
	assert.Equal(t, 2.0, estimateLocationMinutes(1))
	// n*2 + (n-1)*0.5
	assert.Equal(t, 11.5, estimateLocationMinutes(5))
}

func TestEstimateGPSMinutes(t *testing.T) {
	// n*2 + km*3
	assert.Equal(t, 10.0, estimateGPSMinutes(2, 2))
}

func TestHaversineKnownDistance(t *testing.T) {
	// Prague to Brno is roughly 185 km.
	prague := gpsPlant("prague", 50.0755, 14.4378)
	brno := gpsPlant("brno", 49.1951, 16.6068)

	d := haversineKm(prague, brno)
	assert.InDelta(t, 185, d, 10)
}
