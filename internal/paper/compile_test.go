package paper

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source2020 = "http://www.gov.cn/zhengce/content/2019-11/21/content_5454164.htm"

func TestCompile(t *testing.T) {
	entries, err := Compile(source2020, 2020, paper2020)
	require.NoError(t, err)

	var off, work []string
	for _, e := range entries {
		if e.IsOffDay {
			off = append(off, e.DateString())
		} else {
			work = append(work, e.DateString())
		}
	}

	assert.Equal(t, []string{
		"2020-01-01",
		"2020-01-24", "2020-01-30", "2020-01-25", "2020-01-26", "2020-01-27", "2020-01-28", "2020-01-29",
		"2020-04-04", "2020-04-06", "2020-04-05",
		"2020-05-01", "2020-05-05", "2020-05-02", "2020-05-03", "2020-05-04",
		"2020-06-25", "2020-06-27", "2020-06-26",
		"2020-10-01", "2020-10-08", "2020-10-02", "2020-10-03", "2020-10-04", "2020-10-05", "2020-10-06", "2020-10-07",
	}, off)
	assert.Equal(t, []string{
		"2020-01-19", "2020-02-01", "2020-04-26", "2020-05-09", "2020-06-28", "2020-09-27", "2020-10-10",
	}, work)

	assert.Equal(t, "元旦", entries[0].Name)
	assert.Equal(t, "国庆节、中秋节", entries[len(entries)-1].Name)
}

func TestCompilePatch(t *testing.T) {
	entries, err := Compile("patch", 2020, patch2020)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "春节", entries[0].Name)
	assert.Equal(t, time.Date(2020, time.February, 3, 0, 0, 0, 0, time.UTC), entries[0].Date)
	assert.False(t, entries[0].IsOffDay)
}

func TestCompileEntryYearComesFromDate(t *testing.T) {
	text := "一、元旦：2018年12月30日至2019年1月1日放假调休，共3天。2018年12月29日（星期六）上班。"

	entries, err := Compile("2019", 2019, text)
	require.NoError(t, err)

	years := map[string]int{}
	for _, e := range entries {
		years[e.Year()]++
	}
	assert.Equal(t, map[string]int{"2018": 3, "2019": 1}, years)
}

func TestCompileErrorsCarrySource(t *testing.T) {
	t.Run("no rules", func(t *testing.T) {
		_, err := Compile(source2020, 2020, "没有任何安排")

		var pe *PaperError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, source2020, pe.Source)

		var ne *NoRulesError
		assert.True(t, errors.As(err, &ne))
	})

	t.Run("one bad rule aborts the document", func(t *testing.T) {
		text := "一、元旦：2021年1月1日放假。\n二、春节：与周末连休。"
		entries, err := Compile(source2020, 2021, text)

		assert.Nil(t, entries)
		var de *DescriptionError
		require.ErrorAs(t, err, &de)
		assert.Contains(t, err.Error(), source2020)
	})
}

func TestCompileIsRepeatable(t *testing.T) {
	first, err := Compile(source2020, 2020, paper2020)
	require.NoError(t, err)
	second, err := Compile(source2020, 2020, paper2020)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
