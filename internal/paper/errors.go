package paper

import (
	"fmt"
	"strings"
)

// DateError reports a date triplet that cannot be turned into a calendar
// date, either because the day is missing or because the month was omitted
// and there is no earlier date to inherit it from.
type DateError struct {
	Year, Month, Day int
	Reason           string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("paper: cannot resolve date (year=%d month=%d day=%d): %s", e.Year, e.Month, e.Day, e.Reason)
}

// ExtractionError reports a date-bearing fragment that produced no dates.
type ExtractionError struct {
	Fragment string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("paper: no date found in fragment %q", e.Fragment)
}

// DescriptionError reports a rule description that produced no classified
// dates at all.
type DescriptionError struct {
	Description string
}

func (e *DescriptionError) Error() string {
	return fmt.Sprintf("paper: no date classified in description %q", e.Description)
}

// NoRulesError reports a document in which neither the numbered rule nor
// the patch rule strategy matched anything.
type NoRulesError struct {
	Lines []string
}

func (e *NoRulesError) Error() string {
	return fmt.Sprintf("paper: no rule found in %d lines: %s", len(e.Lines), strings.Join(e.Lines, " | "))
}

// PaperError wraps any failure while compiling one announcement together
// with the source it came from.
type PaperError struct {
	Source string
	Err    error
}

func (e *PaperError) Error() string {
	return fmt.Sprintf("can not parse paper %s: %v", e.Source, e.Err)
}

func (e *PaperError) Unwrap() error {
	return e.Err
}
