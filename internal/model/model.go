package model

import "time"

// DateLayout is the canonical date representation used in every artifact.
const DateLayout = "2006-01-02"

// Rule is one (name, description) pair lifted out of an announcement.
// It is produced by the rule extractor and consumed once by the
// description parser.
type Rule struct {
	Name        string
	Description string
}

// Day is a single classified date from a rule description.
type Day struct {
	Date     time.Time
	IsOffDay bool
}

// ScheduleEntry is the atomic output unit of compiling one announcement.
//
// Several entries may share a date (different rules, different papers);
// deduplication and off-day/workday partitioning happen in
// internal/schedule.
type ScheduleEntry struct {
	Name     string    `json:"name"`
	Date     time.Time `json:"-"`
	IsOffDay bool      `json:"isOffDay"`
}

// DateString returns the entry date as YYYY-MM-DD.
func (e ScheduleEntry) DateString() string {
	return e.Date.Format(DateLayout)
}

// Year returns the calendar year label of the entry, derived from the date
// itself rather than from the announcement's nominal year.
func (e ScheduleEntry) Year() string {
	return e.Date.Format("2006")
}

// Paper identifies one announcement document and the year it was
// published for.
type Paper struct {
	Year int    `yaml:"year" json:"year"`
	URL  string `yaml:"url" json:"url"`
}
