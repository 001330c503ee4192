// Package emit writes a compiled schedule to disk as generated Go source,
// per-year JSON documents or an iCalendar file.
package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"holidaycal/internal/schedule"
)

var goTemplate = template.Must(template.New("go").Parse(`// Code generated by holidaycal. DO NOT EDIT.

package {{.Package}}

import (
	"slices"
	"time"
)

var (
	holidays = []string{
{{range .Holidays}}		{{.}},
{{end}}	}
	workdays = []string{
{{range .Workdays}}		{{.}},
{{end}}	}
)

// IsHoliday reports whether t is an announced off day, or a Saturday or
// Sunday that was not turned into a workday.
func IsHoliday(t time.Time) bool {
	weekday := t.Weekday()
	date := t.Format("2006-01-02")

	if slices.Contains(holidays, date) {
		return true
	}
	return (weekday == time.Saturday || weekday == time.Sunday) && !slices.Contains(workdays, date)
}

// IsWorkday is the negation of IsHoliday.
func IsWorkday(t time.Time) bool {
	return !IsHoliday(t)
}
`))

// Go renders s as a Go source file of package pkg with one line of date
// literals per calendar year.
func Go(pkg string, s *schedule.Schedule) ([]byte, error) {
	data := struct {
		Package  string
		Holidays []string
		Workdays []string
	}{Package: pkg}

	for _, y := range s.Years() {
		if len(y.Holidays) > 0 {
			data.Holidays = append(data.Holidays, quoteJoin(y.Holidays))
		}
		if len(y.Workdays) > 0 {
			data.Workdays = append(data.Workdays, quoteJoin(y.Workdays))
		}
	}

	var buf bytes.Buffer
	if err := goTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("emit: render go source: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("emit: format go source: %w", err)
	}
	return src, nil
}

// WriteGo renders s with Go and writes it to path.
func WriteGo(path, pkg string, s *schedule.Schedule) error {
	src, err := Go(pkg, s)
	if err != nil {
		return err
	}
	return writeFile(path, src)
}

func quoteJoin(dates []string) string {
	quoted := make([]string, len(dates))
	for i, d := range dates {
		quoted[i] = strconv.Quote(d)
	}
	return strings.Join(quoted, ", ")
}

// writeFile writes data atomically via a temp file + rename.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".holidaycal-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
