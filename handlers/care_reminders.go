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

// CareDueItems is one consumer's plants due per care category today.
type CareDueItems struct {
	Water []string
	Feed  []string
	Repot []string
}

func (c CareDueItems) Empty() bool {
	return len(c.Water) == 0 && len(c.Feed) == 0 && len(c.Repot) == 0
}

// SendCareReminderNotifications is the consumer daily-care sweep: every
// user plant across every user, due-ness per category by absolute-date
// comparison, one summary push per user. This path fans out over FCM
// only; Expo tokens are not loaded.
func SendCareReminderNotifications(db *sql.DB, gateway *services.PushGateway) {
	now := time.Now().UTC()
	log.Printf("[CareReminder] Job started at %v UTC", now)

	userPlants := &services.UserPlantStore{DB: db}
	tokens := &services.TokenStore{DB: db}
	settings := &services.SettingsStore{DB: db}

	all, err := userPlants.ListAll()
	if err != nil {
		log.Printf("[CareReminder] Failed to load user plants: %v", err)
		return
	}

	byUser := GroupCareDue(all, now)

	var processed, sent int

	for email, due := range byUser {
		if due.Empty() {
			continue
		}

		userSettings, err := settings.Get(email, models.OwnerTypeConsumer)
		if err != nil {
			log.Printf("[CareReminder] Settings lookup failed for %s: %v", email, err)
			continue
		}
		if !userSettings.CareReminders {
			continue
		}

		deviceTokens, err := tokens.FetchTokensForUser(email, models.ProviderFCM, models.ProviderAPNS)
		if err != nil {
			log.Printf("[CareReminder] Token fetch failed for %s: %v", email, err)
			continue
		}
		if len(deviceTokens) == 0 {
			continue
		}

		title, body := ComposeCareMessage(due)

		result := gateway.SendMulticast(deviceTokens, title, body, map[string]string{
			"type": "care_reminder",
		})

		processed++
		sent += result.SuccessCount

		log.Printf("[CareReminder] User %s → %d sent, %d failed", email,
			result.SuccessCount, result.FailureCount)
	}

	log.Printf("[CareReminder] Job finished | Processed %d users, sent %d notifications",
		processed, sent)
}

// GroupCareDue buckets due plant names per owner and category.
func GroupCareDue(plants []*models.UserPlant, today time.Time) map[string]CareDueItems {
	byUser := make(map[string]CareDueItems)

	for _, p := range plants {
		due := byUser[p.Email]
		if dateDue(p.NextWater, today) {
			due.Water = append(due.Water, p.Name)
		}
		if dateDue(p.NextFeed, today) {
			due.Feed = append(due.Feed, p.Name)
		}
		if dateDue(p.NextRepot, today) {
			due.Repot = append(due.Repot, p.Name)
		}
		byUser[p.Email] = due
	}

	return byUser
}

func dateDue(dateStr string, today time.Time) bool {
	state := services.AbsoluteDue{NextDue: dateStr}
	return state.IsDue(today)
}

// ComposeCareMessage summarizes category counts with up to three plant
// names per category.
func ComposeCareMessage(due CareDueItems) (title, body string) {
	title = "Plant care reminder 🌱"

	var parts []string
	if len(due.Water) > 0 {
		parts = append(parts, categoryLine(len(due.Water), "to water", due.Water))
	}
	if len(due.Feed) > 0 {
		parts = append(parts, categoryLine(len(due.Feed), "to feed", due.Feed))
	}
	if len(due.Repot) > 0 {
		parts = append(parts, categoryLine(len(due.Repot), "to repot", due.Repot))
	}

	body = strings.Join(parts, " · ")
	return title, body
}

func categoryLine(count int, verb string, names []string) string {
	shown := names
	if len(shown) > 3 {
		shown = shown[:3]
	}
	return fmt.Sprintf("%d %s (%s)", count, verb, strings.Join(shown, ", "))
}
