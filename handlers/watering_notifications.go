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

// NotificationWindow is how far a recipient's configured HH:MM may be from
// "now" for this run to pick them up. Runs are expected every 15-30 min.
const NotificationWindow = 30 * time.Minute

// SendWateringNotifications pushes one aggregated watering reminder per
// business whose notification time falls inside the current window. A
// business already notified within the window is skipped, so a doubled
// timer fire cannot double-send.
func SendWateringNotifications(db *sql.DB, gateway *services.PushGateway) {
	now := time.Now().UTC()
	log.Printf("[WateringNotify] Job started at %v UTC", now)

	plants := &services.PlantStore{DB: db}
	settings := &services.SettingsStore{DB: db}
	tokens := &services.TokenStore{DB: db}

	recipients, err := settings.ListDue(models.OwnerTypeBusiness, now, NotificationWindow)
	if err != nil {
		log.Printf("[WateringNotify] Failed to list due recipients: %v", err)
		return
	}

	var notified, sent int

	for _, recipient := range recipients {
		businessID := recipient.OwnerID

		checklist, needsWatering, err := plants.Checklist(businessID)
		if err != nil {
			log.Printf("[WateringNotify] Checklist failed for business %s: %v", businessID, err)
			continue
		}
		if needsWatering == 0 {
			continue
		}

		due := make([]*models.Plant, 0, needsWatering)
		for _, p := range checklist {
			if services.IsDue(p) {
				due = append(due, p)
			}
		}

		deviceTokens, err := tokens.FetchTokensForUser(businessID)
		if err != nil {
			log.Printf("[WateringNotify] Token fetch failed for business %s: %v", businessID, err)
			continue
		}
		if len(deviceTokens) == 0 {
			log.Printf("[WateringNotify] No tokens registered for business %s", businessID)
			continue
		}

		title, body := ComposeWateringMessage(due)

		result := gateway.SendMulticast(deviceTokens, title, body, map[string]string{
			"type":       "watering_reminder",
			"businessId": businessID,
			"dueCount":   fmt.Sprintf("%d", len(due)),
		})

		success := result.SuccessCount > 0
		if err := settings.RecordNotification(businessID, models.OwnerTypeBusiness, success, now); err != nil {
			log.Printf("[WateringNotify] Audit write failed for business %s: %v", businessID, err)
		}

		notified++
		sent += result.SuccessCount

		log.Printf("[WateringNotify] Business %s → %d sent, %d failed, %d invalid",
			businessID, result.SuccessCount, result.FailureCount, len(result.InvalidTokens))
	}

	log.Printf("[WateringNotify] Job finished | notified %d businesses, sent %d notifications",
		notified, sent)
}

// ComposeWateringMessage builds the aggregate business reminder: a count
// plus up to three plant names.
func ComposeWateringMessage(due []*models.Plant) (title, body string) {
	title = "Plants need watering 💧"

	names := make([]string, 0, 3)
	for _, p := range due {
		if len(names) == 3 {
			break
		}
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}

	suffix := ""
	if len(due) > len(names) && len(names) > 0 {
		suffix = fmt.Sprintf(" and %d more", len(due)-len(names))
	}

	if len(names) == 0 {
		body = fmt.Sprintf("%d plants need watering today", len(due))
	} else if len(due) == 1 {
		body = fmt.Sprintf("%s needs watering today", names[0])
	} else {
		body = fmt.Sprintf("%d plants need watering: %s%s", len(due), strings.Join(names, ", "), suffix)
	}
	return title, body
}
