package emit

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"holidaycal/internal/schedule"
)

// YearDocument is the per-year JSON layout.
type YearDocument struct {
	Year   int       `json:"year"`
	Papers []string  `json:"papers"`
	Days   []DayJSON `json:"days"`
}

// DayJSON is one announced day.
type DayJSON struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	IsOffDay bool   `json:"isOffDay"`
}

// JSON renders one calendar year of s. Repeated (date, isOffDay) pairs
// collapse to the first entry.
func JSON(s *schedule.Schedule, y *schedule.Year) ([]byte, error) {
	year, err := strconv.Atoi(y.Year)
	if err != nil {
		return nil, fmt.Errorf("emit: bad year label %q: %w", y.Year, err)
	}

	doc := YearDocument{
		Year:   year,
		Papers: s.Papers(y.Year),
		Days:   make([]DayJSON, 0, len(y.Entries)),
	}
	if doc.Papers == nil {
		doc.Papers = []string{}
	}

	type key struct {
		date string
		off  bool
	}
	seen := make(map[key]struct{}, len(y.Entries))
	for _, e := range y.Entries {
		k := key{e.DateString(), e.IsOffDay}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		doc.Days = append(doc.Days, DayJSON{Name: e.Name, Date: k.date, IsOffDay: e.IsOffDay})
	}

	return json.MarshalIndent(doc, "", "    ")
}

// WriteJSON writes one <year>.json file per calendar year of s into dir.
func WriteJSON(dir string, s *schedule.Schedule) ([]string, error) {
	var written []string
	for _, y := range s.Years() {
		data, err := JSON(s, y)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, y.Year+".json")
		if err := writeFile(path, append(data, '\n')); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
