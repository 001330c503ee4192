package paper

import (
	"regexp"

	"holidaycal/internal/model"
)

var clauseSeparator = regexp.MustCompile(`[，。；]`)

// ParseDescription classifies every date of one rule description of an
// announcement published for nominalYear.
//
// The description is split into clauses on "，", "。" and "；". All clauses
// share one History, so a clause may inherit its month from an earlier one
// and a date repeated in a later clause is reported only once.
func ParseDescription(description string, nominalYear int) ([]model.Day, error) {
	x := NewExtractor(NewHistory(nominalYear))

	var days []model.Day
	for _, clause := range clauseSeparator.Split(description, -1) {
		d, err := ClassifyClause(clause, x)
		if err != nil {
			return nil, err
		}
		days = append(days, d...)
	}

	if len(days) == 0 {
		return nil, &DescriptionError{Description: description}
	}
	return days, nil
}
