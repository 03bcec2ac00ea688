package period

import (
	"fmt"
	"time"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/core/clock"
)

// Period identifies one monthly payroll/attendance/performance cycle.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func New(month, year int) (Period, error) {
	p := Period{Month: month, Year: year}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 || p.Year < 1970 || p.Year > 9999 {
		return internal.ErrInvalidPeriod
	}
	return nil
}

// FromTime returns the period containing t, read in t's own location.
func FromTime(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Current returns the period containing the clock's now.
func Current(c clock.Clock) Period {
	return FromTime(c.Now())
}

// FirstDay is the first calendar day of the period at midnight UTC.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// LastDay is the last calendar day of the period at midnight UTC. The window
// [FirstDay, LastDay] is inclusive on both ends.
func (p Period) LastDay() time.Time {
	return p.FirstDay().AddDate(0, 1, -1)
}

// Contains reports whether the calendar day of t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	d := clock.DateOnly(t)
	return !d.Before(p.FirstDay()) && !d.After(p.LastDay())
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// InclusiveDays counts calendar days from start to end, both included.
// It returns 0 when end is before start.
func InclusiveDays(start, end time.Time) int {
	s, e := clock.DateOnly(start), clock.DateOnly(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// Clip intersects [start, end] with the period window. ok is false when the
// range lies entirely outside the period.
func (p Period) Clip(start, end time.Time) (from, to time.Time, ok bool) {
	from, to = clock.DateOnly(start), clock.DateOnly(end)
	first, last := p.FirstDay(), p.LastDay()
	if to.Before(first) || from.After(last) {
		return time.Time{}, time.Time{}, false
	}
	if from.Before(first) {
		from = first
	}
	if to.After(last) {
		to = last
	}
	return from, to, true
}
