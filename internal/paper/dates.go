package paper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// triplet matches an optional "N年", optional "N月" and a mandatory "N日".
const triplet = `(?:(\d+)年)?(?:(\d+)月)?(\d+)日`

var (
	singleDatePattern = regexp.MustCompile(triplet)
	dateRangePattern  = regexp.MustCompile(triplet + `[至\-—]` + triplet)
	dateListPattern   = regexp.MustCompile(triplet + `(?:（[^）]+）)?(?:、` + triplet + `(?:（[^）]+）)?)+`)

	parenReplacer = strings.NewReplacer("(", "（", ")", "）")
)

// Extractor finds every date mentioned in a text fragment. All extractors
// created for one description share the same History.
type Extractor struct {
	history *History
}

// NewExtractor returns an Extractor recording into h.
func NewExtractor(h *History) *Extractor {
	return &Extractor{history: h}
}

// Extract returns the dates found in fragment that were not seen before in
// the shared history. Single dates, ranges and lists are matched in that
// order; a fragment can match several of them. Every date found is
// recorded, including the ones already seen.
//
// An ExtractionError is returned when the fragment mentions no date at all.
func (x *Extractor) Extract(fragment string) ([]time.Time, error) {
	text := parenReplacer.Replace(fragment)

	found := 0
	var out []time.Time
	record := func(d time.Time) {
		found++
		seen := x.history.Contains(d)
		x.history.Add(d)
		if !seen {
			out = append(out, d)
		}
	}

	for _, extract := range []func(string, func(time.Time)) error{
		x.singleDates,
		x.dateRanges,
		x.dateLists,
	} {
		if err := extract(text, record); err != nil {
			return nil, err
		}
	}

	if found == 0 {
		return nil, &ExtractionError{Fragment: text}
	}
	return out, nil
}

func (x *Extractor) singleDates(text string, record func(time.Time)) error {
	for _, m := range singleDatePattern.FindAllStringSubmatch(text, -1) {
		d, err := x.resolve(m[1:4])
		if err != nil {
			return err
		}
		record(d)
	}
	return nil
}

func (x *Extractor) dateRanges(text string, record func(time.Time)) error {
	for _, m := range dateRangePattern.FindAllStringSubmatch(text, -1) {
		start, err := x.resolve(m[1:4])
		if err != nil {
			return err
		}
		end, err := x.resolve(m[4:7])
		if err != nil {
			return err
		}
		// A reversed range yields nothing.
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			record(d)
		}
	}
	return nil
}

func (x *Extractor) dateLists(text string, record func(time.Time)) error {
	for _, list := range dateListPattern.FindAllString(text, -1) {
		for _, m := range singleDatePattern.FindAllStringSubmatch(list, -1) {
			d, err := x.resolve(m[1:4])
			if err != nil {
				return err
			}
			record(d)
		}
	}
	return nil
}

func (x *Extractor) resolve(fields []string) (time.Time, error) {
	return x.history.Resolve(atoi(fields[0]), atoi(fields[1]), atoi(fields[2]))
}

// atoi returns 0 for an absent field.
func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
