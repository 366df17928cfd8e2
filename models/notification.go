package models

import "time"

// DeviceToken is one registered push token. Tokens are soft-invalidated
// when a provider reports them dead, never deleted.
type DeviceToken struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Token         string     `json:"token"`
	Platform      string     `json:"platform"` // android, ios, web
	Provider      string     `json:"provider"` // expo, fcm, apns
	Valid         bool       `json:"valid"`
	LastSeenAt    time.Time  `json:"lastSeenAt"`
	InvalidatedAt *time.Time `json:"invalidatedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

const (
	ProviderExpo = "expo"
	ProviderFCM  = "fcm"
	ProviderAPNS = "apns"
)

const (
	OwnerTypeBusiness = "business"
	OwnerTypeConsumer = "consumer"
)

// NotificationSettings gates whether and when a recipient is notified.
// NotificationTime is local HH:MM; the sender matches it against "now"
// with a 30-minute window.
type NotificationSettings struct {
	OwnerID                 string     `json:"ownerId"`
	OwnerType               string     `json:"ownerType"`
	NotificationTime        string     `json:"notificationTime"`
	WateringReminders       bool       `json:"wateringReminders"`
	CareReminders           bool       `json:"careReminders"`
	DailyTipsEnabled        bool       `json:"dailyTipsEnabled"`
	LastNotificationSent    *time.Time `json:"lastNotificationSent,omitempty"`
	LastNotificationSuccess *bool      `json:"lastNotificationSuccess,omitempty"`
	LastNotifiedAt          *time.Time `json:"lastNotifiedAt,omitempty"`
}

// DefaultNotificationSettings is what a recipient gets before saving
// anything. Missing settings are not an error.
func DefaultNotificationSettings(ownerID, ownerType string) NotificationSettings {
	return NotificationSettings{
		OwnerID:           ownerID,
		OwnerType:         ownerType,
		NotificationTime:  "09:00",
		WateringReminders: true,
		CareReminders:     true,
		DailyTipsEnabled:  false,
	}
}
