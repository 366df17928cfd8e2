package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verdantly.com/plant-care-backend/models"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestApplyDailyDecayDecrements(t *testing.T) {
	p := &models.Plant{WaterDays: 7, ActiveWaterDays: 3}

	ApplyDailyDecay(p, day("2026-08-01"), false)

	assert.Equal(t, 2, p.ActiveWaterDays)
	assert.False(t, p.NeedsWatering)
	assert.False(t, p.WeatherAffected)
	assert.Equal(t, "2026-08-01", p.LastWateringUpdate)
}

func TestApplyDailyDecayIdempotentPerDay(t *testing.T) {
	p := &models.Plant{WaterDays: 7, ActiveWaterDays: 3}

	ApplyDailyDecay(p, day("2026-08-01"), false)
	once := *p
	ApplyDailyDecay(p, day("2026-08-01"), false)

	assert.Equal(t, once, *p, "second decay on the same day must be a no-op")
}

func TestApplyDailyDecayRainResetDominates(t *testing.T) {
	cases := []struct {
		name  string
		plant models.Plant
	}{
		{"fresh", models.Plant{WaterDays: 7, ActiveWaterDays: 7}},
		{"mid-cycle", models.Plant{WaterDays: 7, ActiveWaterDays: 3}},
		{"due", models.Plant{WaterDays: 7, ActiveWaterDays: 0, NeedsWatering: true}},
		{"already updated today", models.Plant{WaterDays: 7, ActiveWaterDays: 2, LastWateringUpdate: "2026-08-01"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.plant
			ApplyDailyDecay(&p, day("2026-08-01"), true)

			assert.Equal(t, 7, p.ActiveWaterDays)
			assert.False(t, p.NeedsWatering)
			assert.True(t, p.WeatherAffected)
			assert.Equal(t, "2026-08-01", p.LastWateringUpdate)
		})
	}
}

func TestApplyDailyDecayMonotonicAndFloorsAtZero(t *testing.T) {
	p := &models.Plant{WaterDays: 3, ActiveWaterDays: 3}

	dates := []string{"2026-08-01", "2026-08-02", "2026-08-03", "2026-08-04", "2026-08-05"}
	prev := p.ActiveWaterDays
	for _, d := range dates {
		ApplyDailyDecay(p, day(d), false)
		assert.LessOrEqual(t, p.ActiveWaterDays, prev)
		assert.GreaterOrEqual(t, p.ActiveWaterDays, 0)
		prev = p.ActiveWaterDays
	}

	assert.Equal(t, 0, p.ActiveWaterDays)
	assert.True(t, p.NeedsWatering, "due-ness must persist under pure decay")
}

func TestApplyDailyDecayScenarioRainAfterDue(t *testing.T) {
	// waterDays=7, activeWaterDays=1, no rain today.
	p := &models.Plant{WaterDays: 7, ActiveWaterDays: 1}

	ApplyDailyDecay(p, day("2026-08-01"), false)
	assert.Equal(t, 0, p.ActiveWaterDays)
	assert.True(t, p.NeedsWatering)

	// Next day it rains.
	ApplyDailyDecay(p, day("2026-08-02"), true)
	assert.Equal(t, 7, p.ActiveWaterDays)
	assert.False(t, p.NeedsWatering)
	assert.True(t, p.WeatherAffected)
}

func TestMarkWateredClearsDueState(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)

	for _, method := range []string{MethodManual, MethodGPS} {
		t.Run(method, func(t *testing.T) {
			p := &models.Plant{WaterDays: 7, ActiveWaterDays: 0, NeedsWatering: true, WeatherAffected: true}

			err := MarkWatered(p, method, nil, now)
			require.NoError(t, err)

			assert.Equal(t, 7, p.ActiveWaterDays)
			assert.False(t, p.NeedsWatering)
			assert.False(t, p.WeatherAffected)
			assert.Equal(t, "2026-08-01", p.LastWatered)
			assert.Equal(t, method, p.WateredBy)
			require.NotNil(t, p.WateredAt)
			assert.Equal(t, now, *p.WateredAt)
		})
	}
}

func TestMarkWateredRejectsUnknownMethod(t *testing.T) {
	p := &models.Plant{WaterDays: 7}
	err := MarkWatered(p, "telepathy", nil, time.Now())
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestMarkWateredStoresCheckInCoordinates(t *testing.T) {
	p := &models.Plant{WaterDays: 7}
	coords := &models.GPSCoordinates{Latitude: 51.5, Longitude: -0.12}

	err := MarkWatered(p, MethodGPS, coords, time.Now())
	require.NoError(t, err)
	require.NotNil(t, p.WateredCoords)
	assert.Equal(t, 51.5, p.WateredCoords.Latitude)
	assert.Equal(t, -0.12, p.WateredCoords.Longitude)
	assert.False(t, p.Location.HasGPS(), "check-in must not invent a plant position")
}

func TestMarkWateredKeepsRegisteredLocation(t *testing.T) {
	// The check-in happens wherever the phone is; the plant does not move.
	p := &models.Plant{
		WaterDays: 7,
		Location: &models.Location{
			GPS: &models.GPSCoordinates{Latitude: 50.0755, Longitude: 14.4378},
		},
	}
	checkIn := &models.GPSCoordinates{Latitude: 48.2082, Longitude: 16.3738}

	require.NoError(t, MarkWatered(p, MethodGPS, checkIn, time.Now()))

	require.True(t, p.Location.HasGPS())
	assert.Equal(t, 50.0755, p.Location.GPS.Latitude)
	assert.Equal(t, 14.4378, p.Location.GPS.Longitude)
	require.NotNil(t, p.WateredCoords)
	assert.Equal(t, 48.2082, p.WateredCoords.Latitude)
	assert.Equal(t, 16.3738, p.WateredCoords.Longitude)
}

func TestNextWateringDueAfterWatering(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	p := &models.Plant{WaterDays: 7, ActiveWaterDays: 0, NeedsWatering: true}

	require.NoError(t, MarkWatered(p, MethodManual, nil, now))

	assert.Equal(t, "2026-08-08", NextWateringDue(p, now))
}

func TestIsDueReconcilesBothForms(t *testing.T) {
	assert.True(t, IsDue(&models.Plant{NeedsWatering: true, ActiveWaterDays: 2}))
	assert.True(t, IsDue(&models.Plant{NeedsWatering: false, ActiveWaterDays: 0}))
	assert.False(t, IsDue(&models.Plant{NeedsWatering: false, ActiveWaterDays: 1}))
}

func TestCountdownScheduleState(t *testing.T) {
	c := &Countdown{DaysLeft: 1, CycleLen: 5}

	c.Decay(day("2026-08-01"), false)
	assert.Equal(t, 0, c.DaysLeft)
	assert.True(t, c.IsDue(day("2026-08-01")))

	// Same-day repeat is a no-op.
	c.Decay(day("2026-08-01"), false)
	assert.Equal(t, 0, c.DaysLeft)

	c.Decay(day("2026-08-02"), true)
	assert.Equal(t, 5, c.DaysLeft)
	assert.False(t, c.IsDue(day("2026-08-02")))

	c.Reset(day("2026-08-03"))
	assert.Equal(t, 5, c.DaysLeft)
}

func TestAbsoluteDueScheduleState(t *testing.T) {
	a := &AbsoluteDue{NextDue: "2026-08-01", CycleLen: 14}

	assert.True(t, a.IsDue(day("2026-08-01")))
	assert.True(t, a.IsDue(day("2026-08-05")))
	assert.False(t, a.IsDue(day("2026-07-31")))

	a.Reset(day("2026-08-05"))
	assert.Equal(t, "2026-08-19", a.NextDue)

	empty := &AbsoluteDue{}
	assert.False(t, empty.IsDue(day("2026-08-01")))
}

func TestParseCadenceDays(t *testing.T) {
	cases := []struct {
		cadence string
		want    int
	}{
		{"Every 2 weeks", 14},
		{"every 1 week", 7},
		{"Every 10 days", 10},
		{"EVERY 3 DAYS", 3},
		{"when the soil is dry", DefaultFeedCycleDays},
		{"", DefaultFeedCycleDays},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseCadenceDays(tc.cadence), "cadence %q", tc.cadence)
	}
}

func TestAdvanceAfterWateringPreservesRhythm(t *testing.T) {
	// Watered 3 days late: the next date still advances from the old one.
	up := &models.UserPlant{NextWater: "2026-08-01", Watering: "Every 1 week"}

	AdvanceAfterWatering(up, day("2026-08-04"))

	assert.Equal(t, "2026-08-08", up.NextWater)
}

func TestAdvanceAfterWateringFallsBackToToday(t *testing.T) {
	up := &models.UserPlant{NextWater: "", Watering: "Every 2 days"}

	AdvanceAfterWatering(up, day("2026-08-04"))

	assert.Equal(t, "2026-08-06", up.NextWater)
}

func TestAdvanceAfterFeeding(t *testing.T) {
	up := &models.UserPlant{NextFeed: "2026-08-01", Feeding: "unclear instructions"}

	AdvanceAfterFeeding(up, day("2026-08-01"))

	assert.Equal(t, day("2026-08-01").AddDate(0, 0, DefaultFeedCycleDays).Format(DateLayout), up.NextFeed)
}
