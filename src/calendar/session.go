package calendar

import "time"

// Session is one trading window, closed at Open and open at Close.
type Session struct {
	Open  time.Time
	Close time.Time
}

func (s Session) IsBetweenSessionHours(t time.Time) bool {
	return (t.Equal(s.Open) || t.After(s.Open)) && t.Before(s.Close)
}

// Overlap returns how much of [from, to) falls inside the session.
func (s Session) Overlap(from, to time.Time) time.Duration {
	start := s.Open
	if from.After(start) {
		start = from
	}

	end := s.Close
	if to.Before(end) {
		end = to
	}

	if !end.After(start) {
		return 0
	}

	return end.Sub(start)
}

// sessionsOn returns the sessions opening on the calendar day of day. Only
// weekdays open: the day session 08:45-13:45 and the night session from
// 15:00 to 05:00 of the following day.
func sessionsOn(day time.Time) []Session {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return nil
	}

	y, m, d := day.Date()
	loc := day.Location()

	return []Session{
		{
			Open:  time.Date(y, m, d, 8, 45, 0, 0, loc),
			Close: time.Date(y, m, d, 13, 45, 0, 0, loc),
		},
		{
			Open:  time.Date(y, m, d, 15, 0, 0, 0, loc),
			Close: time.Date(y, m, d+1, 5, 0, 0, 0, loc),
		},
	}
}
