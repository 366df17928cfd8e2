package handlers

import (
	"database/sql"
	"log"
	"math"
	"net/http"

	"verdantly.com/plant-care-backend/models"
	"verdantly.com/plant-care-backend/services"
)

// OptimizeWateringRoute orders the business's currently-due plants into a
// visit route with a time estimate.
func OptimizeWateringRoute(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := businessIDFromRequest(r)
		if businessID == "" {
			writeError(w, http.StatusBadRequest, "Missing businessId")
			return
		}

		store := &services.PlantStore{DB: db}
		plants, err := store.ListByBusiness(businessID)
		if err != nil {
			log.Printf("[Route] Query failed for business %s: %v", businessID, err)
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}

		var due []*models.Plant
		for _, p := range plants {
			if services.IsDue(p) {
				due = append(due, p)
			}
		}

		route := services.OptimizeRoute(due)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"route":         routePlants(route.Plants),
			"routeType":     route.RouteType,
			"totalPlants":   len(route.Plants),
			"estimatedTime": math.Round(route.EstimatedMinutes),
		})
	}
}

func routePlants(plants []*models.Plant) []*models.Plant {
	if plants == nil {
		return []*models.Plant{}
	}
	return plants
}
