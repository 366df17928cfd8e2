package services

import (
	"database/sql"
	"log"
	"sort"
	"time"

	"verdantly.com/plant-care-backend/models"
)

// PlantStore reads and writes plant rows. Writes are guarded by a version
// column: a decay pass racing a manual watering must not silently clobber
// it, and manual watering always wins on conflict.
type PlantStore struct {
	DB *sql.DB
}

const plantColumns = `id, business_id, name, water_days, active_water_days,
	needs_watering, weather_affected, last_watering_update,
	last_watered, watered_by, watered_at, watered_lat, watered_lon,
	latitude, longitude, section, aisle, shelf_number, version`

func scanPlant(row interface{ Scan(...interface{}) error }) (*models.Plant, error) {
	var p models.Plant
	var lastUpdate, lastWatered, wateredBy sql.NullString
	var wateredAt sql.NullTime
	var wateredLat, wateredLon sql.NullFloat64
	var lat, lon sql.NullFloat64
	var section, aisle, shelf sql.NullString

	err := row.Scan(
		&p.ID, &p.BusinessID, &p.Name, &p.WaterDays, &p.ActiveWaterDays,
		&p.NeedsWatering, &p.WeatherAffected, &lastUpdate,
		&lastWatered, &wateredBy, &wateredAt, &wateredLat, &wateredLon,
		&lat, &lon, &section, &aisle, &shelf, &p.Version,
	)
	if err != nil {
		return nil, err
	}

	p.LastWateringUpdate = lastUpdate.String
	p.LastWatered = lastWatered.String
	p.WateredBy = wateredBy.String
	if wateredAt.Valid {
		t := wateredAt.Time
		p.WateredAt = &t
	}
	if wateredLat.Valid && wateredLon.Valid {
		p.WateredCoords = &models.GPSCoordinates{Latitude: wateredLat.Float64, Longitude: wateredLon.Float64}
	}

	if lat.Valid && lon.Valid {
		p.Location = &models.Location{
			GPS: &models.GPSCoordinates{Latitude: lat.Float64, Longitude: lon.Float64},
		}
	}
	if section.Valid || aisle.Valid || shelf.Valid {
		if p.Location == nil {
			p.Location = &models.Location{}
		}
		p.Location.Section = section.String
		p.Location.Aisle = aisle.String
		p.Location.ShelfNumber = shelf.String
	}

	return &p, nil
}

func (s *PlantStore) ListByBusiness(businessID string) ([]*models.Plant, error) {
	rows, err := s.DB.Query(`SELECT `+plantColumns+` FROM plants WHERE business_id = $1 ORDER BY id`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plants []*models.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			log.Printf("[Plants] Scan error for business %s: %v", businessID, err)
			continue
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

func (s *PlantStore) Get(businessID, plantID string) (*models.Plant, error) {
	row := s.DB.QueryRow(
		`SELECT `+plantColumns+` FROM plants WHERE business_id = $1 AND id = $2`,
		businessID, plantID,
	)
	p, err := scanPlant(row)
	if err == sql.ErrNoRows {
		return nil, ErrPlantNotFound
	}
	return p, err
}

// Save writes the plant back conditionally on the version it was read at.
// Returns ErrWriteConflict if somebody else got there first.
func (s *PlantStore) Save(p *models.Plant) error {
	var lat, lon interface{}
	var wateredLat, wateredLon interface{}
	var section, aisle, shelf interface{}
	if p.WateredCoords != nil {
		wateredLat, wateredLon = p.WateredCoords.Latitude, p.WateredCoords.Longitude
	}
	if p.Location != nil {
		if p.Location.GPS != nil {
			lat, lon = p.Location.GPS.Latitude, p.Location.GPS.Longitude
		}
		if p.Location.Section != "" {
			section = p.Location.Section
		}
		if p.Location.Aisle != "" {
			aisle = p.Location.Aisle
		}
		if p.Location.ShelfNumber != "" {
			shelf = p.Location.ShelfNumber
		}
	}

	res, err := s.DB.Exec(`
		UPDATE plants SET
			name = $1, water_days = $2, active_water_days = $3,
			needs_watering = $4, weather_affected = $5, last_watering_update = $6,
			last_watered = $7, watered_by = $8, watered_at = $9,
			watered_lat = $10, watered_lon = $11,
			latitude = $12, longitude = $13, section = $14, aisle = $15, shelf_number = $16,
			version = version + 1
		WHERE business_id = $17 AND id = $18 AND version = $19`,
		p.Name, p.WaterDays, p.ActiveWaterDays,
		p.NeedsWatering, p.WeatherAffected, nullIfEmpty(p.LastWateringUpdate),
		nullIfEmpty(p.LastWatered), nullIfEmpty(p.WateredBy), p.WateredAt,
		wateredLat, wateredLon,
		lat, lon, section, aisle, shelf,
		p.BusinessID, p.ID, p.Version,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWriteConflict
	}

	p.Version++
	return nil
}

// MarkWatered reads, applies the watering transition, and writes back, with
// one retry on a version conflict. The manual transition always wins over a
// concurrent decay write.
func (s *PlantStore) MarkWatered(businessID, plantID, method string, coords *models.GPSCoordinates, now time.Time) (*models.Plant, error) {
	for attempt := 0; attempt < 2; attempt++ {
		p, err := s.Get(businessID, plantID)
		if err != nil {
			return nil, err
		}

		if err := MarkWatered(p, method, coords, now); err != nil {
			return nil, err
		}

		err = s.Save(p)
		if err == nil {
			return p, nil
		}
		if err != ErrWriteConflict {
			return nil, err
		}
		log.Printf("[Plants] Write conflict watering plant %s, retrying", plantID)
	}
	return nil, ErrWriteConflict
}

// ListBusinessIDs returns every business that owns at least one plant.
func (s *PlantStore) ListBusinessIDs() ([]string, error) {
	rows, err := s.DB.Query(`SELECT DISTINCT business_id FROM plants`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Printf("[Plants] Scan error listing businesses: %v", err)
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// BusinessCoordinates resolves one weather location per business: the first
// plant carrying GPS data. Businesses without any GPS plant return nil and
// skip the weather check.
func (s *PlantStore) BusinessCoordinates(businessID string) (*models.GPSCoordinates, error) {
	var lat, lon float64
	err := s.DB.QueryRow(`
		SELECT latitude, longitude FROM plants
		WHERE business_id = $1 AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY id LIMIT 1`, businessID).Scan(&lat, &lon)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.GPSCoordinates{Latitude: lat, Longitude: lon}, nil
}

// Checklist returns the business's plants sorted due-first, then by
// ascending days remaining. Pure read, no decay side effects.
func (s *PlantStore) Checklist(businessID string) ([]*models.Plant, int, error) {
	plants, err := s.ListByBusiness(businessID)
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(plants, func(i, j int) bool {
		di, dj := IsDue(plants[i]), IsDue(plants[j])
		if di != dj {
			return di
		}
		return plants[i].ActiveWaterDays < plants[j].ActiveWaterDays
	})

	needsWatering := 0
	for _, p := range plants {
		if IsDue(p) {
			needsWatering++
		}
	}
	return plants, needsWatering, nil
}

// UserPlantStore reads and writes consumer plants.
type UserPlantStore struct {
	DB *sql.DB
}

func (s *UserPlantStore) ListAll() ([]*models.UserPlant, error) {
	rows, err := s.DB.Query(`
		SELECT id, email, name, next_water, next_feed, next_repot, watering, feeding, version
		FROM user_plants ORDER BY email, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plants []*models.UserPlant
	for rows.Next() {
		up, err := scanUserPlant(rows)
		if err != nil {
			log.Printf("[UserPlants] Scan error: %v", err)
			continue
		}
		plants = append(plants, up)
	}
	return plants, rows.Err()
}

func (s *UserPlantStore) ListByEmail(email string) ([]*models.UserPlant, error) {
	rows, err := s.DB.Query(`
		SELECT id, email, name, next_water, next_feed, next_repot, watering, feeding, version
		FROM user_plants WHERE email = $1 ORDER BY id`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plants []*models.UserPlant
	for rows.Next() {
		up, err := scanUserPlant(rows)
		if err != nil {
			log.Printf("[UserPlants] Scan error for %s: %v", email, err)
			continue
		}
		plants = append(plants, up)
	}
	return plants, rows.Err()
}

func scanUserPlant(rows *sql.Rows) (*models.UserPlant, error) {
	var up models.UserPlant
	var nextWater, nextFeed, nextRepot, watering, feeding sql.NullString
	err := rows.Scan(&up.ID, &up.Email, &up.Name,
		&nextWater, &nextFeed, &nextRepot, &watering, &feeding, &up.Version)
	if err != nil {
		return nil, err
	}
	up.NextWater = nextWater.String
	up.NextFeed = nextFeed.String
	up.NextRepot = nextRepot.String
	up.Watering = watering.String
	up.Feeding = feeding.String
	return &up, nil
}

func (s *UserPlantStore) Get(email, plantID string) (*models.UserPlant, error) {
	rows, err := s.DB.Query(`
		SELECT id, email, name, next_water, next_feed, next_repot, watering, feeding, version
		FROM user_plants WHERE email = $1 AND id = $2`, email, plantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrPlantNotFound
	}
	return scanUserPlant(rows)
}

func (s *UserPlantStore) Save(up *models.UserPlant) error {
	res, err := s.DB.Exec(`
		UPDATE user_plants SET
			name = $1, next_water = $2, next_feed = $3, next_repot = $4,
			watering = $5, feeding = $6, version = version + 1
		WHERE email = $7 AND id = $8 AND version = $9`,
		up.Name, nullIfEmpty(up.NextWater), nullIfEmpty(up.NextFeed), nullIfEmpty(up.NextRepot),
		nullIfEmpty(up.Watering), nullIfEmpty(up.Feeding),
		up.Email, up.ID, up.Version,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWriteConflict
	}
	up.Version++
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
