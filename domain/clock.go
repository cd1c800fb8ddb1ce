package domain

import "time"

const (
	displayTimeLayout = "03:04 PM"
	dayKeyLayout      = "2006-01-02"
)

// Clock resolves wall-clock time in one fixed location configured at process
// start.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a Clock pinned to the given location.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		panic("domain.NewClock: location is nil")
	}
	return &Clock{loc: loc, now: time.Now}
}

// Now returns a 12-hour display time such as "02:30 PM" and a day key such
// as "2025-08-26", both derived from the same instant.
func (c *Clock) Now() (displayTime, dayKey string) {
	t := c.now().In(c.loc)
	return t.Format(displayTimeLayout), t.Format(dayKeyLayout)
}
