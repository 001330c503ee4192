package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"holidaycal/internal/config"
	appLog "holidaycal/internal/log"
	"holidaycal/internal/paper"
	"holidaycal/internal/refresh"
	"holidaycal/internal/source"
	"holidaycal/internal/web"
)

// flagConfig holds CLI flag values that override the config file.
type flagConfig struct {
	configPath string
	listen     string
	once       bool
	goPath     string
	jsonDir    string
	icsPath    string
	logLevel   string
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	conf.ApplyEnv()
	applyFlags(conf, flags)

	appLog.SetFormat(conf.LogFormat)
	appLog.SetLevel(appLog.Level(conf.LogLevel))
	appLog.Info("holidaycal starting", "version", "0.1.0")

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"fetch_mode", conf.FetchMode,
		"strict_source", conf.Strict(),
		"paper_count", len(conf.Papers),
		"go_path", conf.Output.GoPath,
		"json_dir", conf.Output.JSONDir,
		"ics_path", conf.Output.ICSPath,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	server := web.NewServer(conf)
	pipeline := refresh.NewPipeline(source.FromConfig(conf), conf.Papers, conf.Output, server.Publish)

	if flags.once {
		if _, err := pipeline.Run(ctx); err != nil {
			logCompileError(err)
			os.Exit(1)
		}
		appLog.Info("holidaycal finished")
		return
	}

	// A failed first run leaves the API answering 503 until a later
	// refresh succeeds.
	if _, err := pipeline.Run(ctx); err != nil {
		logCompileError(err)
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", conf.Timezone)
		loc = time.Local
	}
	sched := refresh.NewScheduler(conf.RefreshCron, loc, refresh.RunnerFunc(func(ctx context.Context) error {
		_, err := pipeline.Run(ctx)
		return err
	}))
	if err := sched.Start(ctx); err != nil {
		appLog.Error("failed to start scheduler", err)
		os.Exit(1)
	}

	// The server and the scheduler live until a signal arrives or the
	// server fails, whichever comes first.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		sched.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		appLog.Error("http server failed", err)
		os.Exit(1)
	}
	appLog.Info("holidaycal exiting")
}

func logCompileError(err error) {
	var pe *paper.PaperError
	if errors.As(err, &pe) {
		appLog.Error("compile failed", pe.Err, "url", pe.Source)
		return
	}
	appLog.Error("compile failed", err)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./holidaycal.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Compile all papers, write artifacts and exit")
	flag.StringVar(&cfg.goPath, "go", "", "Generated Go source path (overrides config if set)")
	flag.StringVar(&cfg.jsonDir, "json", "", "Per-year JSON output directory (overrides config if set)")
	flag.StringVar(&cfg.icsPath, "ics", "", "iCalendar output path (overrides config if set)")
	flag.StringVar(&cfg.logLevel, "log-level", "", "Log level: debug, info, error (overrides config if set)")

	flag.Parse()

	return cfg
}

func applyFlags(conf *config.Config, flags flagConfig) {
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.goPath != "" {
		conf.Output.GoPath = flags.goPath
	}
	if flags.jsonDir != "" {
		conf.Output.JSONDir = flags.jsonDir
	}
	if flags.icsPath != "" {
		conf.Output.ICSPath = flags.icsPath
	}
	if flags.logLevel != "" {
		conf.LogLevel = flags.logLevel
	}
}
