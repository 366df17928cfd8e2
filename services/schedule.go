package services

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"verdantly.com/plant-care-backend/models"
)

const DateLayout = "2006-01-02"

// DefaultFeedCycleDays is used when a free-text feeding cadence cannot
// be parsed.
const DefaultFeedCycleDays = 35

var (
	ErrPlantNotFound = errors.New("plant not found")
	ErrInvalidMethod = errors.New("invalid watering method")
	ErrWriteConflict = errors.New("plant was modified concurrently")
)

const (
	MethodManual = "manual"
	MethodGPS    = "gps"
)

// ScheduleState is the common shape of the two schedule schemas: the
// business countdown and the consumer absolute-date form. Both answer
// due-ness and support the same reset/decay transitions.
type ScheduleState interface {
	IsDue(today time.Time) bool
	Reset(today time.Time)
	Decay(today time.Time, rained bool)
}

// Countdown is the business-side schema: days remaining out of a full
// cycle, decremented once per calendar day.
type Countdown struct {
	DaysLeft    int
	CycleLen    int
	LastUpdated string // YYYY-MM-DD of the last decrement
}

func (c *Countdown) IsDue(time.Time) bool {
	return c.DaysLeft <= 0
}

func (c *Countdown) Reset(today time.Time) {
	c.DaysLeft = c.CycleLen
	c.LastUpdated = today.Format(DateLayout)
}

func (c *Countdown) Decay(today time.Time, rained bool) {
	day := today.Format(DateLayout)
	if rained {
		c.DaysLeft = c.CycleLen
		c.LastUpdated = day
		return
	}
	if c.LastUpdated == day {
		return // already decremented today
	}
	if c.DaysLeft > 0 {
		c.DaysLeft--
	}
	c.LastUpdated = day
}

// AbsoluteDue is the consumer-side schema: a concrete next-due date.
type AbsoluteDue struct {
	NextDue  string // YYYY-MM-DD, empty means no schedule
	CycleLen int
}

func (a *AbsoluteDue) IsDue(today time.Time) bool {
	if a.NextDue == "" {
		return false
	}
	due, err := time.Parse(DateLayout, a.NextDue)
	if err != nil {
		return false
	}
	return !due.After(today)
}

func (a *AbsoluteDue) Reset(today time.Time) {
	a.NextDue = today.AddDate(0, 0, a.CycleLen).Format(DateLayout)
}

// Decay is a no-op for absolute dates: due-ness emerges from the calendar,
// and rain resets only apply to the business countdown model.
func (a *AbsoluteDue) Decay(time.Time, bool) {}

// ApplyDailyDecay runs one day of the watering state machine on a business
// plant. Rain always resets to the full cycle; otherwise the counter is
// decremented at most once per calendar day, guarded by LastWateringUpdate.
func ApplyDailyDecay(p *models.Plant, today time.Time, rained bool) {
	day := today.Format(DateLayout)

	if rained {
		p.ActiveWaterDays = p.WaterDays
		p.NeedsWatering = false
		p.WeatherAffected = true
		p.LastWateringUpdate = day
		return
	}

	if p.LastWateringUpdate == day {
		return // already updated today
	}

	if p.ActiveWaterDays > 0 {
		p.ActiveWaterDays--
	}
	p.NeedsWatering = p.ActiveWaterDays <= 0
	p.WeatherAffected = false
	p.LastWateringUpdate = day
}

// MarkWatered applies a manual or GPS watering to a business plant: the
// counter returns to the full cycle and audit fields are stamped. Weather
// state does not survive a watering.
func MarkWatered(p *models.Plant, method string, coords *models.GPSCoordinates, now time.Time) error {
	if method != MethodManual && method != MethodGPS {
		return ErrInvalidMethod
	}

	p.ActiveWaterDays = p.WaterDays
	p.NeedsWatering = false
	p.WeatherAffected = false
	p.LastWatered = now.Format(DateLayout)
	p.WateredBy = method
	wateredAt := now
	p.WateredAt = &wateredAt

	if coords != nil {
		p.WateredCoords = &models.GPSCoordinates{
			Latitude:  coords.Latitude,
			Longitude: coords.Longitude,
		}
	}

	return nil
}

// IsDue reconciles the two due flags that coexist in stored documents:
// either one means the plant needs water.
func IsDue(p *models.Plant) bool {
	return p.NeedsWatering || p.ActiveWaterDays <= 0
}

// NextWateringDue is the calendar date the plant next comes due, assuming
// no rain: today plus the remaining days.
func NextWateringDue(p *models.Plant, today time.Time) string {
	return today.AddDate(0, 0, p.ActiveWaterDays).Format(DateLayout)
}

var cadenceRe = regexp.MustCompile(`(?i)every\s+(\d+)\s+(week|day)s?`)

// ParseCadenceDays extracts a day count from a free-text cadence string
// such as "Every 2 weeks" or "every 10 days". Unparseable strings fall
// back to DefaultFeedCycleDays.
func ParseCadenceDays(cadence string) int {
	m := cadenceRe.FindStringSubmatch(cadence)
	if m == nil {
		return DefaultFeedCycleDays
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return DefaultFeedCycleDays
	}
	if strings.EqualFold(m[2], "week") {
		return n * 7
	}
	return n
}

// AdvanceAfterWatering moves a consumer plant's next_water forward by one
// watering cycle from its previous value, not from today, so the schedule
// keeps its original rhythm even when watering happens late.
func AdvanceAfterWatering(up *models.UserPlant, today time.Time) {
	cycle := ParseCadenceDays(up.Watering)
	up.NextWater = advanceDate(up.NextWater, cycle, today)
}

// AdvanceAfterFeeding does the same for the feed schedule.
func AdvanceAfterFeeding(up *models.UserPlant, today time.Time) {
	cycle := ParseCadenceDays(up.Feeding)
	up.NextFeed = advanceDate(up.NextFeed, cycle, today)
}

func advanceDate(prev string, cycleDays int, today time.Time) string {
	base, err := time.Parse(DateLayout, prev)
	if err != nil {
		base = today
	}
	return base.AddDate(0, 0, cycleDays).Format(DateLayout)
}
