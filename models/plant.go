package models

import "time"

// Plant is one business-owned plant instance from the inventory container.
// The watering schedule is a countdown: ActiveWaterDays is decremented once
// per calendar day until it hits zero, at which point the plant is due.
type Plant struct {
	ID         string `json:"id"`
	BusinessID string `json:"businessId"`
	Name       string `json:"name"`

	WaterDays          int    `json:"waterDays"`
	ActiveWaterDays    int    `json:"activeWaterDays"`
	NeedsWatering      bool   `json:"needsWatering"`
	WeatherAffected    bool   `json:"weatherAffected"`
	LastWateringUpdate string `json:"lastWateringUpdate,omitempty"` // YYYY-MM-DD

	LastWatered string     `json:"lastWatered,omitempty"` // YYYY-MM-DD
	WateredBy   string     `json:"wateredBy,omitempty"`   // "manual" or "gps"
	WateredAt   *time.Time `json:"wateredAt,omitempty"`
	// Where the GPS check-in happened. Audit only; the plant's registered
	// position stays in Location.
	WateredCoords *GPSCoordinates `json:"wateredCoordinates,omitempty"`

	Location *Location `json:"location,omitempty"`

	Version int `json:"-"`
}

// Location carries either GPS coordinates or a section/aisle/shelf code,
// depending on how the business tracks its floor.
type Location struct {
	GPS         *GPSCoordinates `json:"gpsCoordinates,omitempty"`
	Section     string          `json:"section,omitempty"`
	Aisle       string          `json:"aisle,omitempty"`
	ShelfNumber string          `json:"shelfNumber,omitempty"`
}

type GPSCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l *Location) HasGPS() bool {
	return l != nil && l.GPS != nil
}

// UserPlant is one consumer-owned plant from the userPlants container.
// Consumer schedules are absolute dates rather than countdowns.
type UserPlant struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`

	NextWater string `json:"next_water,omitempty"` // YYYY-MM-DD
	NextFeed  string `json:"next_feed,omitempty"`
	NextRepot string `json:"next_repot,omitempty"`

	// Free-text cadence strings, e.g. "Every 2 weeks".
	Watering string `json:"watering,omitempty"`
	Feeding  string `json:"feeding,omitempty"`

	Version int `json:"-"`
}
