// Package refresh compiles every configured announcement into a schedule,
// writes the configured artifacts and republishes the result, once or on a
// cron schedule.
package refresh

import (
	"context"

	"golang.org/x/sync/errgroup"

	"holidaycal/internal/config"
	"holidaycal/internal/emit"
	appLog "holidaycal/internal/log"
	"holidaycal/internal/model"
	"holidaycal/internal/paper"
	"holidaycal/internal/schedule"
)

// TextSource returns the announcement text published at a URL.
type TextSource interface {
	Text(ctx context.Context, url string) (string, error)
}

// fetchConcurrency bounds the number of announcements downloaded at once.
const fetchConcurrency = 4

// Pipeline turns the configured papers into artifacts.
type Pipeline struct {
	src     TextSource
	papers  []model.Paper
	output  config.OutputConfig
	publish func(*schedule.Schedule)
}

// NewPipeline builds a pipeline. publish, if non-nil, receives every
// successfully compiled schedule.
func NewPipeline(src TextSource, papers []model.Paper, output config.OutputConfig, publish func(*schedule.Schedule)) *Pipeline {
	return &Pipeline{src: src, papers: papers, output: output, publish: publish}
}

// Compile fetches and compiles every paper. The first paper that fails,
// in configuration order, aborts the run with a *paper.PaperError naming
// its URL.
func (p *Pipeline) Compile(ctx context.Context) (*schedule.Schedule, error) {
	texts, err := p.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	type contribution struct{ year, url string }
	var (
		entries []model.ScheduleEntry
		sources []contribution
	)

	for i, pp := range p.papers {
		compiled, err := paper.Compile(pp.URL, pp.Year, texts[i])
		if err != nil {
			return nil, err
		}
		appLog.Info("paper compiled", "year", pp.Year, "url", pp.URL, "entries", len(compiled))

		for _, e := range compiled {
			sources = append(sources, contribution{e.Year(), pp.URL})
		}
		entries = append(entries, compiled...)
	}

	s := schedule.Build(entries)
	for _, c := range sources {
		s.AddPaper(c.year, c.url)
	}
	return s, nil
}

// fetchAll downloads every paper text concurrently, returning them in
// configuration order.
func (p *Pipeline) fetchAll(ctx context.Context) ([]string, error) {
	texts := make([]string, len(p.papers))
	errs := make([]error, len(p.papers))

	var eg errgroup.Group
	eg.SetLimit(fetchConcurrency)
	for i, pp := range p.papers {
		eg.Go(func() error {
			texts[i], errs[i] = p.src.Text(ctx, pp.URL)
			return nil
		})
	}
	_ = eg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &paper.PaperError{Source: p.papers[i].URL, Err: err}
		}
	}
	return texts, nil
}

// Run compiles, writes the configured artifacts and publishes the schedule.
func (p *Pipeline) Run(ctx context.Context) (*schedule.Schedule, error) {
	s, err := p.Compile(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.write(s); err != nil {
		return nil, err
	}
	if p.publish != nil {
		p.publish(s)
	}
	return s, nil
}

func (p *Pipeline) write(s *schedule.Schedule) error {
	if p.output.GoPath != "" {
		if err := emit.WriteGo(p.output.GoPath, p.output.GoPackage, s); err != nil {
			return err
		}
		appLog.Info("go source written", "path", p.output.GoPath)
	}
	if p.output.JSONDir != "" {
		written, err := emit.WriteJSON(p.output.JSONDir, s)
		if err != nil {
			return err
		}
		appLog.Info("json written", "dir", p.output.JSONDir, "files", len(written))
	}
	if p.output.ICSPath != "" {
		if err := emit.WriteICS(p.output.ICSPath, s); err != nil {
			return err
		}
		appLog.Info("ics written", "path", p.output.ICSPath)
	}
	return nil
}
