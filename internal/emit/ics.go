package emit

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"holidaycal/internal/schedule"
)

const productID = "-//holidaycal//Holiday Workday Calendar//ZH"

// ICS renders every announced day of s as an all-day event. Off days are
// summarised "<name> 休", workday overrides "<name> 班".
func ICS(s *schedule.Schedule) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("节假日安排")

	stamp := time.Now().UTC()
	for _, y := range s.Years() {
		seen := make(map[string]struct{}, len(y.Entries))
		for _, e := range y.Entries {
			kind, marker := "work", "班"
			if e.IsOffDay {
				kind, marker = "off", "休"
			}
			uid := e.Date.Format("20060102") + "-" + kind + "@holidaycal"
			if _, ok := seen[uid]; ok {
				continue
			}
			seen[uid] = struct{}{}

			ev := cal.AddEvent(uid)
			ev.SetDtStampTime(stamp)
			ev.SetAllDayStartAt(e.Date)
			ev.SetAllDayEndAt(e.Date.AddDate(0, 0, 1))
			ev.SetSummary(e.Name + " " + marker)
		}
	}
	return cal.Serialize()
}

// WriteICS writes ICS(s) to path.
func WriteICS(path string, s *schedule.Schedule) error {
	return writeFile(path, []byte(ICS(s)))
}
