package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"verdantly.com/plant-care-backend/services"
)

type careChecklistItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NextWater string `json:"next_water,omitempty"`
	NextFeed  string `json:"next_feed,omitempty"`
	NextRepot string `json:"next_repot,omitempty"`
	WaterDue  bool   `json:"waterDue"`
	FeedDue   bool   `json:"feedDue"`
	RepotDue  bool   `json:"repotDue"`
}

// GetCareChecklist is the consumer counterpart of the watering checklist:
// per-plant due flags computed from the absolute next-due dates.
func GetCareChecklist(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := consumerFromRequest(r)
		if email == "" {
			writeError(w, http.StatusBadRequest, "Missing userEmail")
			return
		}

		store := &services.UserPlantStore{DB: db}
		plants, err := store.ListByEmail(email)
		if err != nil {
			log.Printf("[CareChecklist] Query failed for %s: %v", email, err)
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().UTC()
		items := make([]careChecklistItem, 0, len(plants))
		dueCount := 0

		for _, p := range plants {
			item := careChecklistItem{
				ID:        p.ID,
				Name:      p.Name,
				NextWater: p.NextWater,
				NextFeed:  p.NextFeed,
				NextRepot: p.NextRepot,
				WaterDue:  dateDue(p.NextWater, now),
				FeedDue:   dateDue(p.NextFeed, now),
				RepotDue:  dateDue(p.NextRepot, now),
			}
			if item.WaterDue || item.FeedDue || item.RepotDue {
				dueCount++
			}
			items = append(items, item)
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"checklist":  items,
			"totalCount": len(items),
			"dueCount":   dueCount,
			"timestamp":  now.Format(time.RFC3339),
		})
	}
}

// MarkUserPlantCared advances the consumer plant's schedule after a care
// action. The next date moves forward from its previous value, not from
// today, so the original rhythm is preserved.
func MarkUserPlantCared(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := consumerFromRequest(r)
		if email == "" {
			writeError(w, http.StatusBadRequest, "Missing userEmail")
			return
		}

		var req struct {
			PlantID string `json:"plantId"`
			Action  string `json:"action"` // water or feed
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.PlantID == "" {
			writeError(w, http.StatusBadRequest, "Missing plantId")
			return
		}

		store := &services.UserPlantStore{DB: db}
		now := time.Now().UTC()

		plant, err := store.Get(email, req.PlantID)
		if err != nil {
			if err == services.ErrPlantNotFound {
				writeError(w, http.StatusNotFound, "Plant not found")
			} else {
				log.Printf("[CareChecklist] Lookup failed for plant %s: %v", req.PlantID, err)
				writeError(w, http.StatusInternalServerError, "Database error")
			}
			return
		}

		switch req.Action {
		case "water":
			services.AdvanceAfterWatering(plant, now)
		case "feed":
			services.AdvanceAfterFeeding(plant, now)
		default:
			writeError(w, http.StatusBadRequest, "Invalid action, must be water or feed")
			return
		}

		if err := store.Save(plant); err != nil {
			log.Printf("[CareChecklist] Save failed for plant %s: %v", req.PlantID, err)
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"plantId":    plant.ID,
			"next_water": plant.NextWater,
			"next_feed":  plant.NextFeed,
		})
	}
}

func consumerFromRequest(r *http.Request) string {
	if email := r.URL.Query().Get("userEmail"); email != "" {
		return email
	}
	return r.Header.Get("X-User-Email")
}
