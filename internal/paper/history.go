package paper

import (
	"slices"
	"time"
)

// History is the ordered list of every date resolved while parsing one
// rule description, duplicates included. It provides the context used to
// fill in omitted months and to recognise a trailing December date that
// belongs to the year before the announcement.
//
// A History must not outlive the description it was created for.
type History struct {
	nominalYear int
	dates       []time.Time
}

// NewHistory returns an empty history for an announcement published for
// nominalYear.
func NewHistory(nominalYear int) *History {
	return &History{nominalYear: nominalYear}
}

// Len reports how many dates were recorded, duplicates included.
func (h *History) Len() int {
	return len(h.dates)
}

// Last returns the most recently recorded date.
func (h *History) Last() (time.Time, bool) {
	if len(h.dates) == 0 {
		return time.Time{}, false
	}
	return h.dates[len(h.dates)-1], true
}

// Contains reports whether d was recorded before.
func (h *History) Contains(d time.Time) bool {
	return slices.ContainsFunc(h.dates, d.Equal)
}

// Add records d. Duplicates are kept.
func (h *History) Add(d time.Time) {
	h.dates = append(h.dates, d)
}

// Resolve turns a possibly partial year/month/day triplet into a calendar
// date. Zero year or month means the field was omitted in the text.
//
//   - an omitted month is inherited from the last recorded date;
//   - an omitted year on a December date becomes nominalYear-1 while every
//     recorded date is still before February 1 of nominalYear;
//   - any other omitted year is nominalYear.
//
// Resolve does not record the result.
func (h *History) Resolve(year, month, day int) (time.Time, error) {
	if day == 0 {
		return time.Time{}, &DateError{Year: year, Month: month, Reason: "no day specified"}
	}

	if month == 0 {
		last, ok := h.Last()
		if !ok {
			return time.Time{}, &DateError{Year: year, Day: day, Reason: "no month specified and nothing to inherit it from"}
		}
		month = int(last.Month())
	}

	if year == 0 && month == 12 && len(h.dates) > 0 && h.allBefore(time.Date(h.nominalYear, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		year = h.nominalYear - 1
	}
	if year == 0 {
		year = h.nominalYear
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, &DateError{Year: year, Month: month, Day: day, Reason: "day out of range"}
	}
	return d, nil
}

func (h *History) allBefore(limit time.Time) bool {
	for _, d := range h.dates {
		if !d.Before(limit) {
			return false
		}
	}
	return true
}
