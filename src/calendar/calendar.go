package calendar

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

const (
	settlementHour   = 13
	settlementMinute = 30
	secondsPerYear   = 365 * 24 * 60 * 60
)

type Calendar struct {
	loc *time.Location
}

// New builds a calendar for the exchange location. When the tz database is
// not available the exchange's fixed +08:00 offset is used.
func New(location string) *Calendar {
	loc, err := time.LoadLocation(location)
	if err != nil {
		log.WithError(err).Warnf("calendar: failed to load location %q, using UTC+8", location)
		loc = time.FixedZone("CST", 8*60*60)
	}

	return &Calendar{loc: loc}
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

func ParseExpiration(s string) (eventmodels.ExpirationDate, error) {
	return eventmodels.NewExpirationDate(s)
}

// SettlementTime is 13:30 exchange time on the expiration date.
func (c *Calendar) SettlementTime(expiration eventmodels.ExpirationDate) (time.Time, error) {
	day, err := time.ParseInLocation(eventmodels.ExpirationDateLayout, string(expiration), c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("Calendar.SettlementTime: %q: %w", expiration, eventmodels.ErrInvalidExpiration)
	}

	return day.Add(settlementHour*time.Hour + settlementMinute*time.Minute), nil
}

// SecondsUntilSettlement returns 0 once settlement has passed.
func (c *Calendar) SecondsUntilSettlement(now time.Time, expiration eventmodels.ExpirationDate) (int64, error) {
	settlement, err := c.SettlementTime(expiration)
	if err != nil {
		return 0, err
	}

	if !now.Before(settlement) {
		return 0, nil
	}

	return int64(settlement.Sub(now) / time.Second), nil
}

// TradableMinutesUntil counts the whole minutes of open sessions between now
// and settlement, walking the sessions that open on now's calendar day and
// every day after it.
func (c *Calendar) TradableMinutesUntil(now time.Time, expiration eventmodels.ExpirationDate) (int64, error) {
	settlement, err := c.SettlementTime(expiration)
	if err != nil {
		return 0, err
	}

	if !now.Before(settlement) {
		return 0, nil
	}

	local := now.In(c.loc)
	y, m, d := local.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, c.loc)

	var total time.Duration
	for !day.After(settlement) {
		for _, session := range sessionsOn(day) {
			total += session.Overlap(now, settlement)
		}

		y, m, d = day.Date()
		day = time.Date(y, m, d+1, 0, 0, 0, 0, c.loc)
	}

	return int64(total / time.Minute), nil
}

// YearFraction is the time to settlement in years of 365 days.
func (c *Calendar) YearFraction(now time.Time, expiration eventmodels.ExpirationDate) (float64, error) {
	seconds, err := c.SecondsUntilSettlement(now, expiration)
	if err != nil {
		return 0, err
	}

	return float64(seconds) / secondsPerYear, nil
}

// IsTrading reports whether t falls inside an open session.
func (c *Calendar) IsTrading(t time.Time) bool {
	local := t.In(c.loc)
	y, m, d := local.Date()
	for _, offset := range []int{-1, 0} {
		for _, session := range sessionsOn(time.Date(y, m, d+offset, 0, 0, 0, 0, c.loc)) {
			if session.IsBetweenSessionHours(t) {
				return true
			}
		}
	}

	return false
}

func (c *Calendar) SessionClock(now time.Time, expiration eventmodels.ExpirationDate) (eventmodels.SessionClock, error) {
	seconds, err := c.SecondsUntilSettlement(now, expiration)
	if err != nil {
		return eventmodels.SessionClock{}, fmt.Errorf("Calendar.SessionClock: %w", err)
	}

	minutes, err := c.TradableMinutesUntil(now, expiration)
	if err != nil {
		return eventmodels.SessionClock{}, fmt.Errorf("Calendar.SessionClock: %w", err)
	}

	return eventmodels.SessionClock{
		Expiration:               expiration,
		SecondsToSettlement:      seconds,
		TradableMinutesRemaining: minutes,
		SettlementCountdown:      FormatSeconds(seconds),
		TradableCountdown:        FormatMinutes(minutes),
	}, nil
}

// FormatSeconds renders "DDd HHh MMm SSs", or "settling" at zero.
func FormatSeconds(seconds int64) string {
	if seconds <= 0 {
		return "settling"
	}

	d := seconds / 86400
	h := seconds % 86400 / 3600
	m := seconds % 3600 / 60
	s := seconds % 60

	return fmt.Sprintf("%02dd %02dh %02dm %02ds", d, h, m, s)
}

// FormatMinutes renders "DDd HHh MMm".
func FormatMinutes(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}

	d := minutes / 1440
	h := minutes % 1440 / 60
	m := minutes % 60

	return fmt.Sprintf("%02dd %02dh %02dm", d, h, m)
}
