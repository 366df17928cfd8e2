package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"verdantly.com/plant-care-backend/models"
	"verdantly.com/plant-care-backend/services"
)

type settingsRequest struct {
	NotificationTime  *string `json:"notificationTime"`
	WateringReminders *bool   `json:"wateringReminders"`
	CareReminders     *bool   `json:"careReminders"`
	DailyTipsEnabled  *bool   `json:"dailyTipsEnabled"`
}

// NotificationSettingsHandler serves GET/POST/DELETE for one owner type.
// Absent settings read back as defaults; DELETE resets to defaults.
func NotificationSettingsHandler(db *sql.DB, ownerType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := settingsOwnerFromRequest(r, ownerType)
		if ownerID == "" {
			writeError(w, http.StatusBadRequest, "Missing owner identifier")
			return
		}

		store := &services.SettingsStore{DB: db}

		switch r.Method {
		case http.MethodGet:
			settings, err := store.Get(ownerID, ownerType)
			if err != nil {
				log.Printf("[Settings] Read failed for %s/%s: %v", ownerType, ownerID, err)
				writeError(w, http.StatusInternalServerError, "Database error")
				return
			}
			writeJSON(w, http.StatusOK, settings)

		case http.MethodPost:
			var req settingsRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			settings, err := store.Get(ownerID, ownerType)
			if err != nil {
				log.Printf("[Settings] Read failed for %s/%s: %v", ownerType, ownerID, err)
				writeError(w, http.StatusInternalServerError, "Database error")
				return
			}

			if req.NotificationTime != nil {
				if !services.ValidNotificationTime(*req.NotificationTime) {
					writeError(w, http.StatusBadRequest, "notificationTime must be HH:MM")
					return
				}
				settings.NotificationTime = *req.NotificationTime
			}
			if req.WateringReminders != nil {
				settings.WateringReminders = *req.WateringReminders
			}
			if req.CareReminders != nil {
				settings.CareReminders = *req.CareReminders
			}
			if req.DailyTipsEnabled != nil {
				settings.DailyTipsEnabled = *req.DailyTipsEnabled
			}

			if err := store.Save(settings); err != nil {
				log.Printf("[Settings] Save failed for %s/%s: %v", ownerType, ownerID, err)
				writeError(w, http.StatusInternalServerError, "Database error")
				return
			}
			writeJSON(w, http.StatusOK, settings)

		case http.MethodDelete:
			if err := store.Delete(ownerID, ownerType); err != nil {
				log.Printf("[Settings] Delete failed for %s/%s: %v", ownerType, ownerID, err)
				writeError(w, http.StatusInternalServerError, "Database error")
				return
			}
			writeJSON(w, http.StatusOK, models.DefaultNotificationSettings(ownerID, ownerType))

		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func settingsOwnerFromRequest(r *http.Request, ownerType string) string {
	if ownerType == models.OwnerTypeConsumer {
		if email := r.URL.Query().Get("userEmail"); email != "" {
			return email
		}
		return r.Header.Get("X-User-Email")
	}
	return businessIDFromRequest(r)
}
