package refresh

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"holidaycal/internal/config"
	"holidaycal/internal/model"
	"holidaycal/internal/paper"
	"holidaycal/internal/schedule"
)

const (
	url2019 = "http://www.gov.cn/zhengce/content/2018-12/06/content_5346276.htm"
	url2020 = "http://www.gov.cn/zhengce/content/2019-11/21/content_5454164.htm"
)

type fakeTexts map[string]string

func (f fakeTexts) Text(_ context.Context, url string) (string, error) {
	text, ok := f[url]
	if !ok {
		return "", errors.New("not found")
	}
	return text, nil
}

var texts = fakeTexts{
	url2019: "一、元旦：2018年12月30日至2019年1月1日放假调休，共3天。2018年12月29日（星期六）上班。\n" +
		"二、劳动节：5月1日至4日放假调休，共4天。4月28日（星期日）、5月5日（星期日）上班。",
	url2020: "一、元旦：2020年1月1日放假，共1天。",
}

var papers = []model.Paper{
	{Year: 2019, URL: url2019},
	{Year: 2020, URL: url2020},
}

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	output := config.OutputConfig{
		GoPath:    filepath.Join(dir, "holiday_workday.go"),
		GoPackage: "util",
		JSONDir:   filepath.Join(dir, "json"),
		ICSPath:   filepath.Join(dir, "holidays.ics"),
	}

	var published *schedule.Schedule
	p := NewPipeline(texts, papers, output, func(s *schedule.Schedule) { published = s })

	s, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Same(t, s, published)

	y2018, ok := s.Year("2018")
	require.True(t, ok)
	assert.Equal(t, []string{"2018-12-30", "2018-12-31"}, y2018.Holidays)
	assert.Equal(t, []string{"2018-12-29"}, y2018.Workdays)
	assert.Equal(t, []string{url2019}, s.Papers("2018"))
	assert.Equal(t, []string{url2019}, s.Papers("2019"))
	assert.Equal(t, []string{url2020}, s.Papers("2020"))

	for _, path := range []string{
		output.GoPath,
		output.ICSPath,
		filepath.Join(output.JSONDir, "2018.json"),
		filepath.Join(output.JSONDir, "2019.json"),
		filepath.Join(output.JSONDir, "2020.json"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestPipelineFetchError(t *testing.T) {
	p := NewPipeline(fakeTexts{}, papers, config.OutputConfig{}, nil)

	_, err := p.Compile(context.Background())

	var pe *paper.PaperError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, url2019, pe.Source)
}

func TestPipelineParseErrorAbortsRun(t *testing.T) {
	broken := fakeTexts{url2019: texts[url2019], url2020: "没有安排"}
	published := false
	p := NewPipeline(broken, papers, config.OutputConfig{}, func(*schedule.Schedule) { published = true })

	_, err := p.Run(context.Background())

	var pe *paper.PaperError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, url2020, pe.Source)
	var ne *paper.NoRulesError
	assert.ErrorAs(t, err, &ne)
	assert.False(t, published)
}

func TestSchedulerBadSpec(t *testing.T) {
	s := NewScheduler("every tuesday", time.UTC, RunnerFunc(func(context.Context) error { return nil }))
	assert.Error(t, s.Start(context.Background()))
}

func TestSchedulerTick(t *testing.T) {
	calls := 0
	s := NewScheduler("@daily", time.UTC, RunnerFunc(func(context.Context) error {
		calls++
		return errors.New("boom")
	}))

	s.tick(context.Background())
	assert.Equal(t, 1, calls)
	assert.False(t, s.running)

	s.running = true
	s.tick(context.Background())
	assert.Equal(t, 1, calls)
}

func TestSchedulerStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewScheduler("@hourly", nil, RunnerFunc(func(context.Context) error { return nil }))
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
