package handlers

import (
	"database/sql"
	"log"
	"time"

	"verdantly.com/plant-care-backend/services"
)

// RunDailyWateringUpdate is the daily decay sweep over every business's
// plants. One weather reading per business decides between a rain reset
// and a plain decrement; the per-day guard in the engine makes a retried
// timer run a no-op.
func RunDailyWateringUpdate(db *sql.DB, weather *services.WeatherGate) {
	now := time.Now().UTC()
	log.Printf("[DailyWatering] Job started at %v UTC", now)

	plants := &services.PlantStore{DB: db}

	businessIDs, err := plants.ListBusinessIDs()
	if err != nil {
		log.Printf("[DailyWatering] Failed to list businesses: %v", err)
		return
	}

	var processed, updated, newlyDue int

	for _, businessID := range businessIDs {
		coords, err := plants.BusinessCoordinates(businessID)
		if err != nil {
			log.Printf("[DailyWatering] Coordinate lookup failed for business %s: %v", businessID, err)
			continue
		}

		rained := false
		if coords != nil {
			rained = weather.DidItRain(coords.Latitude, coords.Longitude)
			log.Printf("[DailyWatering] Business %s weather | lat=%.4f lon=%.4f rained=%v",
				businessID, coords.Latitude, coords.Longitude, rained)
		}

		list, err := plants.ListByBusiness(businessID)
		if err != nil {
			log.Printf("[DailyWatering] Failed to load plants for business %s: %v", businessID, err)
			continue
		}

		for _, p := range list {
			wasDue := services.IsDue(p)

			services.ApplyDailyDecay(p, now, rained)

			if err := plants.Save(p); err != nil {
				if err == services.ErrWriteConflict {
					// A manual watering got there first; it wins.
					log.Printf("[DailyWatering] Skipping plant %s, concurrent update", p.ID)
				} else {
					log.Printf("[DailyWatering] Failed to save plant %s: %v", p.ID, err)
				}
				continue
			}

			updated++
			if !wasDue && services.IsDue(p) {
				newlyDue++
			}
		}

		processed++
	}

	log.Printf("[DailyWatering] Job finished | businesses=%d plants=%d newlyDue=%d",
		processed, updated, newlyDue)
}
