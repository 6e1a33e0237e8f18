package dashboard

import (
	"fmt"
	"time"

	"github.com/manuphil/balldash/internal/core/domain"
)

// Daily draws fire at noon in the reference time zone.
const dailyDrawHour = 12

// Schedule computes local fallback draw targets for when the backend
// lists no pending scheduled draw. Both draw types share one reference
// time zone anchor so that hourly and daily targets cannot diverge
// across zone boundaries.
type Schedule struct {
	loc *time.Location
}

// NewSchedule loads the reference time zone, e.g. "America/New_York".
func NewSchedule(timeZone string) (*Schedule, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", timeZone, err)
	}
	return &Schedule{loc: loc}, nil
}

// Location returns the reference time zone.
func (s *Schedule) Location() *time.Location {
	return s.loc
}

// NextHourly returns the next top-of-hour after now in the reference zone.
func (s *Schedule) NextHourly(now time.Time) time.Time {
	t := now.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, s.loc).Add(time.Hour)
}

// NextDaily returns the next noon in the reference zone: today if noon
// has not passed yet, otherwise tomorrow.
func (s *Schedule) NextDaily(now time.Time) time.Time {
	t := now.In(s.loc)
	noon := time.Date(t.Year(), t.Month(), t.Day(), dailyDrawHour, 0, 0, 0, s.loc)
	if !t.Before(noon) {
		noon = noon.AddDate(0, 0, 1)
	}
	return noon
}

// Next returns the fallback target for a draw type.
func (s *Schedule) Next(drawType domain.DrawType, now time.Time) time.Time {
	if drawType == domain.DrawDaily {
		return s.NextDaily(now)
	}
	return s.NextHourly(now)
}
