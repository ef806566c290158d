// mrdarcy replays archived air-combat missions: it advances a logical
// clock, interpolates aircraft along their authored tracks, fires
// timeline events exactly once per epoch and fans consistent frame
// snapshots out to the attached views.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/config"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/dispatcher"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/fanout"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/influx"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/logging"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/mission"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/monitor"
	intOtel "github.com/doctor-spaghetti-md/mrdarcy/internal/otel"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/replay"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/storage"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/storage/sample"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/stream"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Version can be set at build time via ldflags.
var (
	Version   string = "0.1.0"
	BuildDate string = "unknown"

	AppName string = "mrdarcy"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String("config", ".", "directory containing "+config.ConfigFileName)
	flag.Parse()

	sessionStart := time.Now()

	// console logging until the log file is open
	slogManager := logging.NewSlogManager()
	slogManager.Setup(nil, "info", nil, nil)
	logger := slogManager.Logger()

	if err := config.Load(*configDir); err != nil {
		logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		logger.Info("Loaded config")
	}

	logsDir := config.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	logFilePath := logging.LogFilePath(logsDir, AppName, sessionStart)
	var logSink io.Writer
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		logger.Error("Failed to create/open log file!", "error", err, "path", logFilePath)
		logSink = os.Stderr
	} else {
		logSink = logFile
		defer logFile.Close()
	}

	// OTel provider if enabled
	var otelProvider *intOtel.Provider
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		otelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logSink,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			logger.Info("OTel provider initialized", "file", logFilePath)
		}
	}

	missionCtx := mission.NewContext()
	var engine *replay.Engine

	// Re-setup logging with file output, OTel export and dynamic
	// replay context on every record.
	var otelLogProvider *sdklog.LoggerProvider
	if otelProvider != nil {
		otelLogProvider = otelProvider.LoggerProvider()
	}
	slogManager.Setup(logSink, config.GetString("logLevel"), otelLogProvider, func() []slog.Attr {
		attrs := []slog.Attr{}
		if m := missionCtx.Get(); m != nil {
			attrs = append(attrs, slog.String("mission", m.Meta.Title))
		}
		if engine != nil {
			st, _, _ := engine.ClockStatus()
			attrs = append(attrs, slog.String("state", st.String()))
		}
		return attrs
	})
	logger = slogManager.Logger()
	logger.Info("Starting up", "version", Version, "buildDate", BuildDate, "log", logFilePath)

	zlog := zerolog.New(logSink).With().Timestamp().Logger()

	// load the mission, falling back to the built-in sample
	src, m := loadMission(logger, zlog)
	defer src.Close()
	missionCtx.Set(m, src.Name() == "sample" && config.Source().Type != "sample")

	// views
	logView := newConsoleLog(logger)
	defer logView.Close()
	pub := &fanout.Publisher{
		Log: logView,
		HUD: newConsoleHUD(logger),
	}

	engine, err = replay.NewEngine(m, pub, logger)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	applyReplayDefaults(engine, logger)

	// controls
	d, err := dispatcher.New(logging.NewDispatcherLogger(logger))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	replay.RegisterControls(d, engine)

	// viewer stream
	var streamSrv *stream.Server
	if config.GetBool("stream.enabled") {
		streamSrv = stream.NewServer(func(name string, args []string) (any, error) {
			return d.Dispatch(dispatcher.Command{Name: name, Args: args, Timestamp: time.Now()})
		}, logger)
		if err := streamSrv.SetMission(m); err != nil {
			return fmt.Errorf("preparing stream: %w", err)
		}
		if err := streamSrv.Listen(config.GetString("stream.listen")); err != nil {
			return fmt.Errorf("starting stream: %w", err)
		}
		defer streamSrv.Close()
	}

	// telemetry
	var influxMgr *influx.Manager
	if config.GetBool("influx.enabled") {
		influxMgr = influx.NewManager(zlog, logging.LogFilePath(logsDir, AppName+"_influx_backup", sessionStart)+".gz")
		if err := influxMgr.Connect(); err != nil {
			logger.Warn("InfluxDB unavailable, telemetry disabled", "error", err)
			influxMgr = nil
		} else {
			defer influxMgr.Close()
		}
	}

	var frames atomic.Uint64
	var epochs atomic.Uint64

	engine.OnEvent(func(ev core.Event) {
		if influxMgr != nil {
			influxMgr.WritePoint(context.Background(), influx.BucketEvents,
				influx.EventPoint(m.Meta.Title, ev))
		}
	})
	archiver, _ := src.(storage.Archiver)
	engine.OnRestart(func(tallies core.Tallies) {
		epoch := epochs.Add(1)
		if influxMgr != nil {
			influxMgr.WritePoint(context.Background(), influx.BucketSessions,
				influx.SessionPoint(m.Meta.Title, int(epoch), tallies))
		}
		if archiver != nil {
			if err := archiver.SaveSession(context.Background(), m.Meta.Title, uint(epoch), tallies); err != nil {
				logger.Warn("Failed to archive replay session", "error", err)
			}
		}
	})

	// status monitor
	monitorSvc := monitor.NewService(monitor.Dependencies{
		LogManager: slogManager,
		StatusDir:  logsDir,
		Sample: func() monitor.Status {
			viewers := 0
			if streamSrv != nil {
				viewers = streamSrv.Viewers()
			}
			st, clockT, speed := engine.ClockStatus()
			return monitor.Status{
				Mission: m.Meta.Title,
				State:   st.String(),
				Time:    clockT,
				Speed:   speed,
				Epoch:   int(epochs.Load()),
				Frames:  frames.Load(),
				Viewers: viewers,
				Tallies: engine.Tallies(),
			}
		},
	})
	if err := monitorSvc.Start(); err != nil {
		logger.Warn("Status monitor not started", "error", err)
	}
	defer monitorSvc.Stop()

	// frame loop
	interval := time.Duration(config.GetInt("replay.frameIntervalMs")) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Replay running",
		"mission", m.Meta.Title,
		"duration", m.DurationS,
		"aircraft", len(m.Aircraft),
		"events", len(m.Events),
		"frameInterval", interval,
	)

	last := time.Now()
	for {
		select {
		case sig := <-sigCh:
			logger.Info("Shutting down", "signal", sig.String())
			if otelProvider != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				otelProvider.Flush(ctx)
				otelProvider.Shutdown(ctx)
				cancel()
			}
			slogManager.Flush(context.Background())
			return nil
		case now := <-ticker.C:
			wallDt := now.Sub(last).Seconds()
			last = now

			snap := engine.Frame(wallDt)
			n := frames.Add(1)

			if streamSrv != nil {
				streamSrv.Broadcast(snap)
			}
			if influxMgr != nil && n%30 == 0 {
				viewers := 0
				if streamSrv != nil {
					viewers = streamSrv.Viewers()
				}
				influxMgr.WritePoint(context.Background(), influx.BucketFrames,
					influx.FramePoint(m.Meta.Title, snap, viewers))
			}
		}
	}
}

// loadMission builds the configured source and loads its mission,
// serving the built-in sample when the source fails so the operator
// always sees motion.
func loadMission(logger *slog.Logger, zlog zerolog.Logger) (storage.Source, *core.Mission) {
	cfg := config.Source()

	src, err := storage.NewSource(cfg, zlog)
	if err != nil {
		logger.Warn("Mission source unavailable, falling back to sample", "type", cfg.Type, "error", err)
		src = sample.New()
	}

	m, err := src.Load(context.Background())
	if err == nil {
		err = storage.Validate(m)
	}
	if err != nil {
		logger.Warn("Mission load failed, falling back to sample", "source", src.Name(), "error", err)
		src.Close()
		src = sample.New()
		m, _ = src.Load(context.Background())
	}

	logger.Info("Mission loaded", "source", src.Name(), "title", m.Meta.Title)
	return src, m
}

// applyReplayDefaults applies the configured initial playback settings.
func applyReplayDefaults(engine *replay.Engine, logger *slog.Logger) {
	if speed := config.GetFloat("replay.speed"); speed > 0 && speed != 1 {
		if err := engine.SetSpeed(speed); err != nil {
			logger.Warn("Invalid configured speed", "speed", speed, "error", err)
		}
	}
	if !config.GetBool("replay.trails") {
		engine.ToggleTrails()
	}
	if !config.GetBool("replay.labels") {
		engine.ToggleLabels()
	}
}
