package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"verdantly.com/plant-care-backend/config"
)

// WeatherGate answers "did it rain here" for a business location. Provider
// failures fail open as no-rain: a weather outage must not block the daily
// decay pass.
type WeatherGate struct {
	apiKey  string
	baseURL string
	client  *http.Client

	// Per-process cache, keyed by coordinates rounded to 2 decimals.
	// Multi-instance deployments get one cache per instance.
	cache *expirable.LRU[string, weatherReading]
}

type weatherReading struct {
	ConditionID int
	Description string
}

type owmResponse struct {
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

const (
	weatherCacheSize = 256
	weatherCacheTTL  = 30 * time.Minute
)

func NewWeatherGate(cfg config.WeatherConfig) *WeatherGate {
	return &WeatherGate{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   expirable.NewLRU[string, weatherReading](weatherCacheSize, nil, weatherCacheTTL),
	}
}

// DidItRain fetches current conditions for the coordinates and classifies
// rain. Any provider error is logged and reported as false.
func (w *WeatherGate) DidItRain(lat, lon float64) bool {
	reading, err := w.currentConditions(lat, lon)
	if err != nil {
		log.Printf("[Weather] Lookup failed for %.2f,%.2f: %v (treating as no rain)", lat, lon, err)
		return false
	}
	return isRain(reading)
}

// OpenWeatherMap condition ids 2xx (thunderstorm), 3xx (drizzle) and
// 5xx (rain) all count as rain; the text match catches provider variants.
func isRain(r weatherReading) bool {
	if r.ConditionID >= 200 && r.ConditionID <= 599 {
		return true
	}
	desc := strings.ToLower(r.Description)
	return strings.Contains(desc, "rain") ||
		strings.Contains(desc, "drizzle") ||
		strings.Contains(desc, "thunderstorm")
}

func (w *WeatherGate) currentConditions(lat, lon float64) (weatherReading, error) {
	key := fmt.Sprintf("%.2f,%.2f", lat, lon)
	if cached, ok := w.cache.Get(key); ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("appid", w.apiKey)

	resp, err := w.client.Get(w.baseURL + "/weather?" + q.Encode())
	if err != nil {
		return weatherReading{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return weatherReading{}, fmt.Errorf("weather provider returned %d", resp.StatusCode)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return weatherReading{}, err
	}
	if len(body.Weather) == 0 {
		return weatherReading{}, fmt.Errorf("weather provider returned no conditions")
	}

	reading := weatherReading{
		ConditionID: body.Weather[0].ID,
		Description: body.Weather[0].Description,
	}
	w.cache.Add(key, reading)
	return reading, nil
}
