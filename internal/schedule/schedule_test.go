package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidaycal/internal/model"
	"holidaycal/internal/paper"
)

const paper2020 = `一、元旦：2020年1月1日放假，共1天。
二、春节：1月24日至30日放假调休，共7天。1月19日（星期日）、2月1日（星期六）上班。
三、清明节：4月4日至6日放假调休，共3天。
四、劳动节：5月1日至5日放假调休，共5天。4月26日（星期日）、5月9日（星期六）上班。
五、端午节：6月25日至27日放假调休，共3天。6月28日（星期日）上班。
六、国庆节、中秋节：10月1日至8日放假调休，共8天。9月27日（星期日）、10月10日（星期六）上班。`

func build2020(t *testing.T) *Schedule {
	t.Helper()
	entries, err := paper.Compile("2020", 2020, paper2020)
	require.NoError(t, err)
	return Build(entries)
}

func day(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestIsHoliday(t *testing.T) {
	s := build2020(t)

	tests := []struct {
		in     string
		expect bool
	}{
		{"2020-01-01", true},
		{"2020-01-02", false},
		{"2020-01-03", false},
		{"2020-01-04", true},
		{"2020-01-05", true},
		{"2020-01-19", false},
		{"2020-01-23", false},
		{"2020-01-24", true},
		{"2020-01-30", true},
		{"2020-01-31", false},
		{"2020-02-01", false},
		{"2020-02-02", true},
		{"2020-02-03", false},
		{"2020-04-03", false},
		{"2020-04-04", true},
		{"2020-04-06", true},
		{"2020-04-30", false},
		{"2020-05-01", true},
		{"2020-05-05", true},
		{"2020-05-09", false},
		{"2020-05-10", true},
		{"2020-10-08", true},
		{"2020-10-10", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, s.IsHoliday(day(tt.in)), tt.in)
		assert.Equal(t, !tt.expect, s.IsWorkday(day(tt.in)), tt.in)
	}

	// Time of day does not matter.
	evening := time.Date(2020, time.January, 1, 17, 30, 0, 0, time.Local)
	assert.True(t, s.IsHoliday(evening))

	assert.True(t, s.IsWorkday(day("2021-05-18")))
}

func TestBuildGroupsByDateYear(t *testing.T) {
	s := Build([]model.ScheduleEntry{
		{Name: "元旦", Date: day("2019-01-01"), IsOffDay: true},
		{Name: "元旦", Date: day("2018-12-31"), IsOffDay: true},
		{Name: "元旦", Date: day("2018-12-30"), IsOffDay: true},
		{Name: "元旦", Date: day("2018-12-29"), IsOffDay: false},
		{Name: "元旦补充", Date: day("2018-12-31"), IsOffDay: true},
	})

	years := s.Years()
	require.Len(t, years, 2)
	assert.Equal(t, "2018", years[0].Year)
	assert.Equal(t, []string{"2018-12-30", "2018-12-31"}, years[0].Holidays)
	assert.Equal(t, []string{"2018-12-29"}, years[0].Workdays)
	assert.Len(t, years[0].Entries, 4)
	assert.Equal(t, day("2018-12-29"), years[0].Entries[0].Date)

	assert.Equal(t, "2019", years[1].Year)
	assert.Equal(t, []string{"2019-01-01"}, years[1].Holidays)
	assert.Empty(t, years[1].Workdays)

	assert.Equal(t, "元旦", s.Day(day("2018-12-31")).Name)
}

func TestDay(t *testing.T) {
	s := build2020(t)

	assert.Equal(t, DayInfo{Date: "2020-10-01", Name: "国庆节、中秋节", Kind: KindHoliday, IsHoliday: true}, s.Day(day("2020-10-01")))
	assert.Equal(t, DayInfo{Date: "2020-02-01", Name: "春节", Kind: KindShiftWorkday, IsWorkday: true}, s.Day(day("2020-02-01")))
	assert.Equal(t, DayInfo{Date: "2020-03-07", Kind: KindWeekend, IsHoliday: true}, s.Day(day("2020-03-07")))
	assert.Equal(t, DayInfo{Date: "2020-03-09", Kind: KindWorkday, IsWorkday: true}, s.Day(day("2020-03-09")))
}

func TestOffDays(t *testing.T) {
	s := build2020(t)

	off, err := s.OffDays(2020)
	require.NoError(t, err)

	assert.Len(t, off, 115)
	assert.Contains(t, off, "2020-01-01")
	assert.Contains(t, off, "2020-03-07")
	assert.NotContains(t, off, "2020-02-01")
	assert.NotContains(t, off, "2020-03-09")
	assert.Equal(t, "2020-01-01", off[0])
	assert.Equal(t, "2020-12-27", off[len(off)-1])
}

func TestPapers(t *testing.T) {
	s := Build(nil)
	s.AddPaper("2020", "a")
	s.AddPaper("2020", "a")
	s.AddPaper("2020", "b")

	assert.Equal(t, []string{"a", "b"}, s.Papers("2020"))
	assert.Nil(t, s.Papers("2021"))
}
