// Package schedule aggregates compiled announcement entries into per-year
// off-day and workday sets and answers holiday/workday questions on them.
package schedule

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"holidaycal/internal/model"
)

// Kind classifies a calendar day.
type Kind string

const (
	KindWorkday      Kind = "workday"       // ordinary weekday
	KindWeekend      Kind = "weekend"       // ordinary Saturday or Sunday
	KindHoliday      Kind = "holiday"       // announced off day
	KindShiftWorkday Kind = "shift_workday" // announced workday override
)

// Year holds the announced days whose date falls in one calendar year.
type Year struct {
	Year     string
	Holidays []string // sorted YYYY-MM-DD off days
	Workdays []string // sorted YYYY-MM-DD workday overrides
	Entries  []model.ScheduleEntry
}

// DayInfo describes one calendar day.
type DayInfo struct {
	Date      string `json:"date"`
	Name      string `json:"name,omitempty"`
	Kind      Kind   `json:"kind"`
	IsHoliday bool   `json:"is_holiday"`
	IsWorkday bool   `json:"is_workday"`
}

// Schedule is an immutable view over compiled entries.
type Schedule struct {
	years    map[string]*Year
	holidays map[string]string // date -> name
	workdays map[string]string // date -> name
	papers   map[string][]string
}

// Build groups entries by the calendar year of their own date. Repeated
// dates collapse; the first name seen for a date is kept.
func Build(entries []model.ScheduleEntry) *Schedule {
	s := &Schedule{
		years:    make(map[string]*Year),
		holidays: make(map[string]string),
		workdays: make(map[string]string),
		papers:   make(map[string][]string),
	}

	for _, e := range entries {
		label := e.Year()
		y, ok := s.years[label]
		if !ok {
			y = &Year{Year: label}
			s.years[label] = y
		}
		y.Entries = append(y.Entries, e)

		date := e.DateString()
		set := s.workdays
		if e.IsOffDay {
			set = s.holidays
		}
		if _, seen := set[date]; seen {
			continue
		}
		set[date] = e.Name
		if e.IsOffDay {
			y.Holidays = append(y.Holidays, date)
		} else {
			y.Workdays = append(y.Workdays, date)
		}
	}

	for _, y := range s.years {
		sort.Strings(y.Holidays)
		sort.Strings(y.Workdays)
		sort.SliceStable(y.Entries, func(i, j int) bool {
			return y.Entries[i].Date.Before(y.Entries[j].Date)
		})
	}
	return s
}

// AddPaper records that url contributed to the schedule of year. It is
// only used to annotate exported artifacts.
func (s *Schedule) AddPaper(year, url string) {
	for _, u := range s.papers[year] {
		if u == url {
			return
		}
	}
	s.papers[year] = append(s.papers[year], url)
}

// Papers returns the announcement URLs recorded for year.
func (s *Schedule) Papers(year string) []string {
	return s.papers[year]
}

// Years returns the calendar years present, ascending.
func (s *Schedule) Years() []*Year {
	labels := make([]string, 0, len(s.years))
	for label := range s.years {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]*Year, 0, len(labels))
	for _, label := range labels {
		out = append(out, s.years[label])
	}
	return out
}

// Year returns the days of one calendar year.
func (s *Schedule) Year(label string) (*Year, bool) {
	y, ok := s.years[label]
	return y, ok
}

// IsHoliday reports whether t is an announced off day, or a Saturday or
// Sunday that was not turned into a workday.
func (s *Schedule) IsHoliday(t time.Time) bool {
	date := t.Format(model.DateLayout)
	if _, ok := s.holidays[date]; ok {
		return true
	}
	_, override := s.workdays[date]
	return isWeekend(t) && !override
}

// IsWorkday is the negation of IsHoliday.
func (s *Schedule) IsWorkday(t time.Time) bool {
	return !s.IsHoliday(t)
}

// Day describes t.
func (s *Schedule) Day(t time.Time) DayInfo {
	date := t.Format(model.DateLayout)
	info := DayInfo{Date: date, IsHoliday: s.IsHoliday(t)}
	info.IsWorkday = !info.IsHoliday

	if name, ok := s.holidays[date]; ok {
		info.Kind, info.Name = KindHoliday, name
		return info
	}
	if name, ok := s.workdays[date]; ok {
		info.Kind, info.Name = KindShiftWorkday, name
		return info
	}
	if isWeekend(t) {
		info.Kind = KindWeekend
	} else {
		info.Kind = KindWorkday
	}
	return info
}

// OffDays lists every off day of a calendar year: announced holidays plus
// ordinary weekends that were not turned into workdays, ascending.
func (s *Schedule) OffDays(year int) ([]string, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	weekends, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Until:     end,
		Byweekday: []rrule.Weekday{rrule.SA, rrule.SU},
	})
	if err != nil {
		return nil, err
	}

	off := make(map[string]struct{})
	for _, d := range weekends.All() {
		date := d.Format(model.DateLayout)
		if _, override := s.workdays[date]; !override {
			off[date] = struct{}{}
		}
	}
	if y, ok := s.years[start.Format("2006")]; ok {
		for _, date := range y.Holidays {
			off[date] = struct{}{}
		}
	}

	out := make([]string, 0, len(off))
	for date := range off {
		out = append(out, date)
	}
	sort.Strings(out)
	return out, nil
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
