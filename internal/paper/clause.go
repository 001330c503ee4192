package paper

import (
	"regexp"

	"holidaycal/internal/model"
)

var (
	restClausePattern  = regexp.MustCompile(`^(.+)(放假|补休|调休|公休)+(?:\d+天)?$`)
	workClausePattern  = regexp.MustCompile(`^(.+)上班$`)
	shiftClausePattern = regexp.MustCompile(`^(.+)调至(.+)`)
)

// clauseMatcher turns one clause into classified days. It returns no days
// and no error when the clause does not have its shape.
type clauseMatcher func(clause string, x *Extractor) ([]model.Day, error)

// clauseMatchers are all tried on every clause; a clause may be matched by
// more than one of them.
var clauseMatchers = []clauseMatcher{
	matchRest,
	matchWork,
	matchShift,
}

// ClassifyClause returns the days assigned by one sentence-level clause.
// A clause matching none of the known phrasings yields nothing.
func ClassifyClause(clause string, x *Extractor) ([]model.Day, error) {
	var days []model.Day
	for _, match := range clauseMatchers {
		d, err := match(clause, x)
		if err != nil {
			return nil, err
		}
		days = append(days, d...)
	}
	return days, nil
}

// matchRest handles "...放假", "...补休", "...调休", "...公休", optionally
// followed by a day count.
func matchRest(clause string, x *Extractor) ([]model.Day, error) {
	m := restClausePattern.FindStringSubmatch(clause)
	if m == nil {
		return nil, nil
	}
	return classify(x, m[1], true)
}

// matchWork handles "...上班".
func matchWork(clause string, x *Extractor) ([]model.Day, error) {
	m := workClausePattern.FindStringSubmatch(clause)
	if m == nil {
		return nil, nil
	}
	return classify(x, m[1], false)
}

// matchShift handles "A调至B": A becomes a workday and B an off day.
func matchShift(clause string, x *Extractor) ([]model.Day, error) {
	m := shiftClausePattern.FindStringSubmatch(clause)
	if m == nil {
		return nil, nil
	}
	from, err := classify(x, m[1], false)
	if err != nil {
		return nil, err
	}
	to, err := classify(x, m[2], true)
	if err != nil {
		return nil, err
	}
	return append(from, to...), nil
}

func classify(x *Extractor, fragment string, offDay bool) ([]model.Day, error) {
	dates, err := x.Extract(fragment)
	if err != nil {
		return nil, err
	}
	days := make([]model.Day, 0, len(dates))
	for _, d := range dates {
		days = append(days, model.Day{Date: d, IsOffDay: offDay})
	}
	return days, nil
}
