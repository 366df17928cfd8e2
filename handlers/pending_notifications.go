package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"verdantly.com/plant-care-backend/services"
)

// GetPendingNotifications is the on-demand business digest: what would be
// pushed right now, without sending anything.
func GetPendingNotifications(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := businessIDFromRequest(r)
		if businessID == "" {
			writeError(w, http.StatusBadRequest, "Missing business identifier")
			return
		}

		store := &services.PlantStore{DB: db}
		plants, needsWatering, err := store.Checklist(businessID)
		if err != nil {
			log.Printf("[Pending] Query failed for business %s: %v", businessID, err)
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().UTC()
		notifications := []map[string]interface{}{}

		for _, p := range plants {
			if !services.IsDue(p) {
				continue
			}
			notifications = append(notifications, map[string]interface{}{
				"plantId":         p.ID,
				"plantName":       p.Name,
				"type":            "watering_due",
				"weatherAffected": p.WeatherAffected,
				"lastWatered":     p.LastWatered,
			})
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"notifications":    notifications,
			"hasNotifications": len(notifications) > 0,
			"summary": map[string]interface{}{
				"totalPlants":        len(plants),
				"needsWateringCount": needsWatering,
				"generatedAt":        now.Format(time.RFC3339),
			},
		})
	}
}
