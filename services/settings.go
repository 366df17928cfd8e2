package services

import (
	"database/sql"
	"log"
	"time"

	"verdantly.com/plant-care-backend/models"
)

// SettingsStore persists per-recipient notification settings. A missing
// row is not an error: readers get the defaults.
type SettingsStore struct {
	DB *sql.DB
}

func (s *SettingsStore) Get(ownerID, ownerType string) (models.NotificationSettings, error) {
	var set models.NotificationSettings
	var lastSent, lastNotified sql.NullTime
	var lastSuccess sql.NullBool

	err := s.DB.QueryRow(`
		SELECT owner_id, owner_type, notification_time, watering_reminders,
			care_reminders, daily_tips_enabled,
			last_notification_sent, last_notification_success, last_notified_at
		FROM notification_settings
		WHERE owner_id = $1 AND owner_type = $2`, ownerID, ownerType,
	).Scan(&set.OwnerID, &set.OwnerType, &set.NotificationTime, &set.WateringReminders,
		&set.CareReminders, &set.DailyTipsEnabled, &lastSent, &lastSuccess, &lastNotified)

	if err == sql.ErrNoRows {
		return models.DefaultNotificationSettings(ownerID, ownerType), nil
	}
	if err != nil {
		return set, err
	}

	if lastSent.Valid {
		t := lastSent.Time
		set.LastNotificationSent = &t
	}
	if lastSuccess.Valid {
		b := lastSuccess.Bool
		set.LastNotificationSuccess = &b
	}
	if lastNotified.Valid {
		t := lastNotified.Time
		set.LastNotifiedAt = &t
	}
	return set, nil
}

func (s *SettingsStore) Save(set models.NotificationSettings) error {
	_, err := s.DB.Exec(`
		INSERT INTO notification_settings
			(owner_id, owner_type, notification_time, watering_reminders,
			 care_reminders, daily_tips_enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (owner_id, owner_type) DO UPDATE SET
			notification_time = EXCLUDED.notification_time,
			watering_reminders = EXCLUDED.watering_reminders,
			care_reminders = EXCLUDED.care_reminders,
			daily_tips_enabled = EXCLUDED.daily_tips_enabled,
			updated_at = NOW()`,
		set.OwnerID, set.OwnerType, set.NotificationTime, set.WateringReminders,
		set.CareReminders, set.DailyTipsEnabled)
	return err
}

// Delete resets the recipient to defaults by removing the stored row.
func (s *SettingsStore) Delete(ownerID, ownerType string) error {
	_, err := s.DB.Exec(`
		DELETE FROM notification_settings
		WHERE owner_id = $1 AND owner_type = $2`, ownerID, ownerType)
	return err
}

// ListDue returns businesses whose configured notification time falls
// within the window around now and that have not already been notified
// inside this window. The last_notified_at guard is a hard precondition,
// not just an audit field: a retried timer run must not double-send.
func (s *SettingsStore) ListDue(ownerType string, now time.Time, window time.Duration) ([]models.NotificationSettings, error) {
	rows, err := s.DB.Query(`
		SELECT owner_id, owner_type, notification_time, watering_reminders,
			care_reminders, daily_tips_enabled,
			last_notification_sent, last_notification_success, last_notified_at
		FROM notification_settings
		WHERE owner_type = $1 AND watering_reminders = TRUE`, ownerType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []models.NotificationSettings
	for rows.Next() {
		var set models.NotificationSettings
		var lastSent, lastNotified sql.NullTime
		var lastSuccess sql.NullBool
		if err := rows.Scan(&set.OwnerID, &set.OwnerType, &set.NotificationTime,
			&set.WateringReminders, &set.CareReminders, &set.DailyTipsEnabled,
			&lastSent, &lastSuccess, &lastNotified); err != nil {
			log.Printf("[Settings] Scan error listing due recipients: %v", err)
			continue
		}

		if !WithinWindow(set.NotificationTime, now, window) {
			continue
		}
		if lastNotified.Valid && now.Sub(lastNotified.Time) < window {
			continue // already notified this window
		}

		if lastSent.Valid {
			t := lastSent.Time
			set.LastNotificationSent = &t
		}
		if lastSuccess.Valid {
			b := lastSuccess.Bool
			set.LastNotificationSuccess = &b
		}
		if lastNotified.Valid {
			t := lastNotified.Time
			set.LastNotifiedAt = &t
		}
		due = append(due, set)
	}
	return due, rows.Err()
}

// RecordNotification stamps the audit fields and the dedupe guard after a
// delivery attempt.
func (s *SettingsStore) RecordNotification(ownerID, ownerType string, success bool, at time.Time) error {
	_, err := s.DB.Exec(`
		UPDATE notification_settings
		SET last_notification_sent = $3, last_notification_success = $4, last_notified_at = $3
		WHERE owner_id = $1 AND owner_type = $2`,
		ownerID, ownerType, at, success)
	return err
}

// ValidNotificationTime checks an HH:MM wall-clock string.
func ValidNotificationTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// WithinWindow reports whether an HH:MM notification time is within the
// given distance of now, on either side.
func WithinWindow(notificationTime string, now time.Time, window time.Duration) bool {
	target, err := time.Parse("15:04", notificationTime)
	if err != nil {
		return false
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	targetMinutes := target.Hour()*60 + target.Minute()

	diff := nowMinutes - targetMinutes
	if diff < 0 {
		diff = -diff
	}
	// Wrap around midnight: 23:50 is 20 minutes from 00:10.
	if wrapped := 24*60 - diff; wrapped < diff {
		diff = wrapped
	}

	return float64(diff) <= window.Minutes()
}
