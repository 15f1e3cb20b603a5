package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/abelbrown/bantin/internal/app"
	"github.com/abelbrown/bantin/internal/brain"
	"github.com/abelbrown/bantin/internal/config"
	"github.com/abelbrown/bantin/internal/coord"
	"github.com/abelbrown/bantin/internal/display"
	"github.com/abelbrown/bantin/internal/fetch"
	"github.com/abelbrown/bantin/internal/headlines"
	"github.com/abelbrown/bantin/internal/logging"
	"github.com/abelbrown/bantin/internal/model"
	"github.com/abelbrown/bantin/internal/newsmode"
	"github.com/abelbrown/bantin/internal/otel"
	"github.com/abelbrown/bantin/internal/spelling"
	"github.com/abelbrown/bantin/internal/store"
	"github.com/abelbrown/bantin/internal/ui"
	"github.com/abelbrown/bantin/internal/weather"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "config file, JSON or YAML (default ~/.bantin/config.json)")
		dataDir    = pflag.String("data-dir", "", "directory for the database and logs (default ~/.bantin)")
		envFile    = pflag.String("env-file", ".env", "dotenv file with API_KEY")
		printOnce  = pflag.Bool("print", false, "fetch syndicated news once, print the ticker line and exit")
		saveConfig = pflag.Bool("save-config", false, "write the effective config back to the config file and exit")
		debug      = pflag.Bool("debug", false, "debug logging")
	)
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config", "err", err)
	}
	cfg.AutoPopulateFromEnv()
	if *envFile != "" {
		if err := cfg.LoadEnvFile(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("Ignoring env file", "err", err)
		}
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *saveConfig {
		if err := cfg.Save(); err != nil {
			log.Fatal("Failed to save config", "err", err)
		}
		log.Info("Config saved")
		return
	}

	if err := os.MkdirAll(cfg.ResolvedDataDir(), 0755); err != nil {
		log.Fatal("Failed to create data directory", "err", err)
	}
	if err := logging.Init(cfg.ResolvedDataDir(), *debug); err != nil {
		log.Fatal("Failed to init logging", "err", err)
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := otel.NewFileLogger(cfg.ResolvedDataDir())
	if err != nil {
		logging.Warn("event log disabled", "error", err)
	}
	defer events.Close()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events.SetRingBuffer(ring)
	events.System(otel.KindStartup, "bantin started")
	logging.Info("event log session", "session", events.SessionID())

	fetcher := fetch.NewFetcher(30 * time.Second)
	wx := weather.NewClient("", cfg.Ticker.Timezone)
	coordinator := coord.NewCoordinator(fetcher, wx, fetch.FromConfig(cfg.Feeds), cfg.Cities, coord.Options{
		RefreshInterval: cfg.Ticker.RefreshInterval(),
		WeatherInterval: cfg.Ticker.WeatherInterval(),
		MaxTitles:       cfg.Ticker.MaxHeadlines,
		Events:          events,
	})

	if *printOnce {
		code := printTicker(ctx, coordinator)
		events.Close()
		logging.Close()
		os.Exit(code)
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		log.Fatal("Failed to open database", "err", err)
	}
	defer st.Close()

	ctrl := app.New(newsmode.Load(st, cfg.Ticker.DefaultTag))

	provider := brain.NewGeminiProvider(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Endpoint)
	if !provider.Available() {
		logging.Warn("no API key configured; AI headlines and spelling are disabled")
	}
	gateway := headlines.NewGateway(provider, cfg.Ticker.Language)
	advisor := spelling.NewAdvisor(provider, cfg.Ticker.Language)

	loc, err := time.LoadLocation(cfg.Ticker.Timezone)
	if err != nil {
		logging.Warn("unknown timezone, using local time", "timezone", cfg.Ticker.Timezone, "error", err)
		loc = time.Local
	}

	root := ui.NewModel(ui.AppConfig{
		Controller: ctrl,
		Generate: func(seq uint64, topic, tag string, count int) tea.Cmd {
			return func() tea.Msg {
				events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindGenerateStart, Comp: "main", Msg: topic})
				start := time.Now()
				res, err := gateway.Generate(ctx, topic, tag, count)
				if err != nil {
					events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindGenerateError, Comp: "main", Dur: time.Since(start), Err: err.Error()})
				} else {
					events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindGenerateComplete, Comp: "main", Dur: time.Since(start), Count: len(res.Candidates), Msg: res.Model})
				}
				return ui.HeadlinesGenerated{Seq: seq, Tag: tag, Result: res, Err: err}
			}
		},
		CheckSpelling: func(seq uint64, text string) tea.Cmd {
			return func() tea.Msg {
				suggestion, ok := advisor.Check(ctx, text)
				if ok {
					events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSpellSuggest, Comp: "main", Msg: suggestion})
				}
				return ui.SpellChecked{Seq: seq, Text: text, Suggestion: suggestion, OK: ok}
			}
		},
		Refetch: func() tea.Cmd {
			return func() tea.Msg {
				if !coordinator.Refetch() {
					logging.Debug("refetch ignored, fetch in flight")
				}
				return nil
			}
		},
		SpellDebounce:  cfg.Ticker.SpellDebounce(),
		CharsPerSecond: cfg.Ticker.CharsPerSecond,
		MaxHeadlines:   cfg.Ticker.MaxHeadlines,
		Events:         ring,
		Location:       loc,
	})

	program := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))
	coordinator.Start(ctx, program)

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logging.Error("program exited", "error", err)
	}

	// Graceful shutdown
	stop()
	coordinator.Wait()
	events.System(otel.KindShutdown, "bantin stopped")
	events.Close()
	if n := events.Dropped(); n > 0 {
		logging.Warn("activity events dropped", "count", n)
	}
}

// printTicker runs one syndicated fetch and prints what the ticker would show.
func printTicker(ctx context.Context, c *coord.Coordinator) int {
	titles, err := c.FetchSyndicated(ctx)
	if err != nil {
		fmt.Println(fetch.ErrorText(err))
		return 1
	}
	fmt.Println(display.Format(model.ModeSyndicated, titles, nil, nil, ""))
	return 0
}
