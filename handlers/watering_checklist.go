package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"verdantly.com/plant-care-backend/models"
	"verdantly.com/plant-care-backend/services"
)

type checklistItem struct {
	*models.Plant
	NeedsWatering   bool   `json:"needsWatering"`
	NextWateringDue string `json:"nextWateringDue"`
}

type markWateredRequest struct {
	PlantID     string                 `json:"plantId"`
	Method      string                 `json:"method"`
	Coordinates *models.GPSCoordinates `json:"coordinates,omitempty"`
}

// GetWateringChecklist returns the business's current due-state, sorted
// due-first. Pure read: no decay happens here.
func GetWateringChecklist(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := businessIDFromRequest(r)
		if businessID == "" {
			writeError(w, http.StatusBadRequest, "Missing businessId")
			return
		}

		store := &services.PlantStore{DB: db}
		plants, needsWatering, err := store.Checklist(businessID)
		if err != nil {
			log.Printf("[Checklist] Query failed for business %s: %v", businessID, err)
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().UTC()
		items := make([]checklistItem, 0, len(plants))
		for _, p := range plants {
			items = append(items, checklistItem{
				Plant:           p,
				NeedsWatering:   services.IsDue(p),
				NextWateringDue: services.NextWateringDue(p, now),
			})
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"checklist":          items,
			"totalCount":         len(items),
			"needsWateringCount": needsWatering,
			"timestamp":          now.Format(time.RFC3339),
		})
	}
}

// MarkPlantWatered applies the manual or GPS watering transition directly,
// bypassing the scheduler.
func MarkPlantWatered(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := businessIDFromRequest(r)
		if businessID == "" {
			writeError(w, http.StatusBadRequest, "Missing businessId")
			return
		}

		var req markWateredRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.PlantID == "" {
			writeError(w, http.StatusBadRequest, "Missing plantId")
			return
		}

		store := &services.PlantStore{DB: db}
		now := time.Now().UTC()

		plant, err := store.MarkWatered(businessID, req.PlantID, req.Method, req.Coordinates, now)
		if err != nil {
			switch err {
			case services.ErrInvalidMethod:
				writeError(w, http.StatusBadRequest, "Invalid method, must be manual or gps")
			case services.ErrPlantNotFound:
				writeError(w, http.StatusNotFound, "Plant not found")
			default:
				log.Printf("[Checklist] Mark watered failed for plant %s: %v", req.PlantID, err)
				writeError(w, http.StatusInternalServerError, "Database error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"plant":   plant,
		})
	}
}

// GetBusinessWateringChecklist is the business-app variant of the
// checklist read; it also accepts the owner from the X-User-Email header.
func GetBusinessWateringChecklist(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := businessOwnerFromRequest(r)
		if businessID == "" {
			writeError(w, http.StatusBadRequest, "Missing business identifier")
			return
		}

		store := &services.PlantStore{DB: db}
		plants, needsWatering, err := store.Checklist(businessID)
		if err != nil {
			log.Printf("[BusinessChecklist] Query failed for %s: %v", businessID, err)
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().UTC()
		items := make([]checklistItem, 0, len(plants))
		for _, p := range plants {
			items = append(items, checklistItem{
				Plant:           p,
				NeedsWatering:   services.IsDue(p),
				NextWateringDue: services.NextWateringDue(p, now),
			})
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"checklist":          items,
			"totalCount":         len(items),
			"needsWateringCount": needsWatering,
			"timestamp":          now.Format(time.RFC3339),
		})
	}
}

// MarkBusinessPlantWatered is the business-app variant of the watered
// transition; the response carries the audit fields instead of the full
// plant document.
func MarkBusinessPlantWatered(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := businessOwnerFromRequest(r)
		if businessID == "" {
			writeError(w, http.StatusBadRequest, "Missing business identifier")
			return
		}

		var req markWateredRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.PlantID == "" {
			writeError(w, http.StatusBadRequest, "Missing plantId")
			return
		}

		store := &services.PlantStore{DB: db}
		now := time.Now().UTC()

		plant, err := store.MarkWatered(businessID, req.PlantID, req.Method, req.Coordinates, now)
		if err != nil {
			switch err {
			case services.ErrInvalidMethod:
				writeError(w, http.StatusBadRequest, "Invalid method, must be manual or gps")
			case services.ErrPlantNotFound:
				writeError(w, http.StatusNotFound, "Plant not found")
			default:
				log.Printf("[BusinessChecklist] Mark watered failed for plant %s: %v", req.PlantID, err)
				writeError(w, http.StatusInternalServerError, "Database error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":         true,
			"plantId":         plant.ID,
			"wateredAt":       plant.WateredAt.Format(time.RFC3339),
			"method":          plant.WateredBy,
			"nextWateringDue": services.NextWateringDue(plant, now),
		})
	}
}

func businessIDFromRequest(r *http.Request) string {
	if id := r.URL.Query().Get("businessId"); id != "" {
		return id
	}
	return r.Header.Get("X-Business-ID")
}

func businessOwnerFromRequest(r *http.Request) string {
	if id := r.URL.Query().Get("businessId"); id != "" {
		return id
	}
	if email := r.Header.Get("X-User-Email"); email != "" {
		return email
	}
	return r.Header.Get("X-Business-ID")
}
