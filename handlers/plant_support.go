package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"verdantly.com/plant-care-backend/models"
	"verdantly.com/plant-care-backend/services"
)

// Plants this many days past their water date get the stronger nudge.
const supportOverdueDays = 3

// SendPlantSupportReminders is the consumer follow-up sweep: plants whose
// water date slipped by several days get a second, more urgent push. Same
// FCM-only channel as the daily care reminder.
func SendPlantSupportReminders(db *sql.DB, gateway *services.PushGateway) {
	now := time.Now().UTC()
	log.Printf("[PlantSupport] Job started at %v UTC", now)

	userPlants := &services.UserPlantStore{DB: db}
	tokens := &services.TokenStore{DB: db}
	settings := &services.SettingsStore{DB: db}

	all, err := userPlants.ListAll()
	if err != nil {
		log.Printf("[PlantSupport] Failed to load user plants: %v", err)
		return
	}

	byUser := GroupOverduePlants(all, now, supportOverdueDays)

	var processed, sent int

	for email, names := range byUser {
		userSettings, err := settings.Get(email, models.OwnerTypeConsumer)
		if err != nil {
			log.Printf("[PlantSupport] Settings lookup failed for %s: %v", email, err)
			continue
		}
		if !userSettings.CareReminders {
			continue
		}

		deviceTokens, err := tokens.FetchTokensForUser(email, models.ProviderFCM, models.ProviderAPNS)
		if err != nil {
			log.Printf("[PlantSupport] Token fetch failed for %s: %v", email, err)
			continue
		}
		if len(deviceTokens) == 0 {
			continue
		}

		shown := names
		if len(shown) > 3 {
			shown = shown[:3]
		}

		body := fmt.Sprintf("%d of your plants have been waiting for water for %d+ days: %s",
			len(names), supportOverdueDays, strings.Join(shown, ", "))

		result := gateway.SendMulticast(deviceTokens, "Your plants need you 🥀", body, map[string]string{
			"type": "plant_support",
		})

		processed++
		sent += result.SuccessCount

		log.Printf("[PlantSupport] User %s → %d sent, %d failed", email,
			result.SuccessCount, result.FailureCount)
	}

	log.Printf("[PlantSupport] Job finished | Processed %d users, sent %d notifications",
		processed, sent)
}

// GroupOverduePlants buckets names of plants at least overdueDays past
// their next_water date, per owner.
func GroupOverduePlants(plants []*models.UserPlant, today time.Time, overdueDays int) map[string][]string {
	byUser := make(map[string][]string)
	cutoff := today.AddDate(0, 0, -overdueDays)

	for _, p := range plants {
		if p.NextWater == "" {
			continue
		}
		due, err := time.Parse(services.DateLayout, p.NextWater)
		if err != nil {
			continue
		}
		if due.After(cutoff) {
			continue
		}
		byUser[p.Email] = append(byUser[p.Email], p.Name)
	}

	return byUser
}
