// Package paper turns the text of an official holiday announcement into
// dated off-day and workday assignments.
//
// The text is expected to carry numbered rule paragraphs such as
//
//	一、元旦：2021年1月1日至3日放假，共3天。
//	二、春节：2月11日至17日放假调休，共7天。2月7日（星期日）、2月20日（星期六）上班。
//
// Each rule description is split into clauses, each clause is classified
// as rest, work or shift, and the dates it mentions are resolved with the
// help of the dates seen earlier in the same description.
package paper

import (
	"holidaycal/internal/model"
)

// Compile parses the announcement text published for nominalYear and
// returns its entries in document order. Any failure aborts the whole
// document and is reported as a *PaperError carrying source.
func Compile(source string, nominalYear int, text string) ([]model.ScheduleEntry, error) {
	rules, err := ExtractRules(text)
	if err != nil {
		return nil, &PaperError{Source: source, Err: err}
	}

	var entries []model.ScheduleEntry
	for _, rule := range rules {
		days, err := ParseDescription(rule.Description, nominalYear)
		if err != nil {
			return nil, &PaperError{Source: source, Err: err}
		}
		for _, d := range days {
			entries = append(entries, model.ScheduleEntry{
				Name:     rule.Name,
				Date:     d.Date,
				IsOffDay: d.IsOffDay,
			})
		}
	}
	return entries, nil
}
