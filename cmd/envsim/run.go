package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"

	"github.com/astrolab/envsim/internal/api"
	"github.com/astrolab/envsim/internal/config"
	"github.com/astrolab/envsim/internal/dispatcher"
	"github.com/astrolab/envsim/internal/influx"
	"github.com/astrolab/envsim/internal/logging"
	"github.com/astrolab/envsim/internal/monitor"
	"github.com/astrolab/envsim/internal/physics"
	"github.com/astrolab/envsim/internal/session"
	"github.com/astrolab/envsim/internal/storage"
	"github.com/astrolab/envsim/internal/worker"
	"github.com/astrolab/envsim/pkg/core"
)

// ErrInvalidScenario is returned when the scenario has no ticks to run.
var ErrInvalidScenario = errors.New("invalid scenario")

// lastSessionInfo is the session most recently started by runScenario.
var lastSessionInfo atomic.Pointer[core.SessionInfo]

func run(ctx context.Context) error {
	scenario := config.GetScenarioConfig()

	backend, err := createStorageBackend(config.GetStorageConfig())
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			Logger.Error("Failed to close storage backend", "error", err)
		}
	}()

	zl := newZerolog()

	var influxManager *influx.Manager
	if viper.GetBool("influx.enabled") {
		backupPath := filepath.Join(viper.GetString("logsDir"),
			fmt.Sprintf("%s_influx_backup_%s.log.gz", AppName, SessionStartTime.Format("20060102_150405")))
		influxManager = influx.NewManager(zl.With().Str("component", "influx").Logger(), backupPath)
		if err := influxManager.Connect(ctx); err != nil {
			Logger.Warn("InfluxDB unavailable", "error", err)
			influxManager = nil
		} else {
			defer influxManager.Close()
		}
	}

	eventDispatcher, err := dispatcher.New(logging.NewZerologAdapter(zl.With().Str("component", "dispatcher").Logger()))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	workerManager := worker.NewManager(worker.Dependencies{
		Logger: Logger,
		Influx: influxManager,
	}, backend)
	workerManager.RegisterHandlers(eventDispatcher)

	monitorService := monitor.NewService(monitor.Dependencies{
		Logger:     Logger.With("component", "monitor"),
		Influx:     influxManager,
		Tick:       currentTick.Load,
		Dropped:    workerManager.Dropped,
		StatusPath: filepath.Join(viper.GetString("logsDir"), "status.json"),
		Interval:   viper.GetDuration("monitor.interval"),
	})
	if viper.GetBool("monitor.enabled") {
		if err := monitorService.Start(); err != nil {
			Logger.Warn("Failed to start status monitor", "error", err)
		}
		defer monitorService.Stop()
	}

	opts := append([]session.Option{session.WithLogger(Logger)}, worker.Observers(eventDispatcher, Logger)...)
	sess := session.New(physics.NewWorld(), opts...)

	last, runErr := runScenario(ctx, sess, scenario, workerManager, true)
	sess.Teardown()

	// drain queued snapshots before the backend finalizes the session
	eventDispatcher.Close()
	if err := workerManager.EndSession(); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if n := workerManager.Dropped(); n > 0 {
		Logger.Warn("Recording dropped records", "count", n)
	}

	if runErr == nil && viper.GetBool("api.upload") {
		if err := uploadRecording(ctx, backend, last); err != nil {
			Logger.Error("Failed to upload recording", "error", err)
		}
	}

	Logger.Info("Scenario complete",
		"ticks", last.Tick,
		"fuel", last.Fuel,
		"damage", last.Damage,
		"phase", last.Phase)

	if errors.Is(runErr, context.Canceled) {
		Logger.Info("Interrupted")
		return nil
	}
	return runErr
}

// runScenario configures sess from sc and ticks it for sc.Duration. Thrust
// is applied once per thrust interval while progress is at most
// sc.Thrust.Until. With realtime set, ticks are paced by sc.TickInterval.
func runScenario(ctx context.Context, sess *session.Session, sc config.ScenarioConfig, w *worker.Manager, realtime bool) (core.StatusSnapshot, error) {
	if sc.TickInterval <= 0 || sc.Duration < sc.TickInterval {
		return sess.Snapshot(), fmt.Errorf("%w: duration %s, tick interval %s", ErrInvalidScenario, sc.Duration, sc.TickInterval)
	}

	if err := sess.InitializeEnvironment(sc.Environment); err != nil {
		return sess.Snapshot(), fmt.Errorf("failed to initialize environment: %w", err)
	}
	vehicle, err := sess.CreateVehicle(sc.Vehicle)
	if err != nil {
		return sess.Snapshot(), fmt.Errorf("failed to create vehicle: %w", err)
	}
	info, err := sess.Info()
	if err != nil {
		return sess.Snapshot(), err
	}
	if err := w.StartSession(info); err != nil {
		return sess.Snapshot(), err
	}
	lastSessionInfo.Store(&info)

	ticks := int(sc.Duration / sc.TickInterval)
	thrustEvery := max(int(session.DefaultThrustInterval/sc.TickInterval), 1)
	direction := thrustDirection(sc.Thrust.Direction)

	Logger.Info("Running scenario",
		"environment", sc.Environment,
		"vehicle", vehicle.Name,
		"ticks", ticks,
		"tickInterval", sc.TickInterval)

	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(sc.TickInterval)
		defer ticker.Stop()
	}

	last := sess.Snapshot()
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}

		progress := float64(i+1) / float64(ticks)
		engineOn := sc.Thrust.Intensity > 0 && progress <= sc.Thrust.Until
		if engineOn && i%thrustEvery == 0 {
			if !sess.ApplyThrust(direction, sc.Thrust.Intensity) {
				Logger.Debug("Thrust not applied", "fuel", last.Fuel)
			}
		}

		last = sess.Tick(progress, sc.TickInterval, engineOn)
		currentTick.Store(uint64(last.Tick))
		currentPhase.Store(last.Phase)

		if ticker != nil {
			select {
			case <-ctx.Done():
				return last, ctx.Err()
			case <-ticker.C:
			}
		}
	}
	return last, nil
}

// uploadRecording sends the backend's export file to api.serverUrl.
// Backends that do not export a file are skipped.
func uploadRecording(ctx context.Context, backend storage.Backend, last core.StatusSnapshot) error {
	exporter, ok := backend.(storage.Exporter)
	if !ok || exporter.ExportedFilePath() == "" {
		return nil
	}
	info := lastSessionInfo.Load()
	if info == nil {
		return nil
	}

	client := api.New(viper.GetString("api.serverUrl"), viper.GetString("api.apiKey"))
	if err := client.Healthcheck(ctx); err != nil {
		return err
	}

	path := exporter.ExportedFilePath()
	err := client.Upload(ctx, path, core.UploadMetadata{
		SessionUUID: info.UUID,
		Environment: info.Environment.Name,
		Vehicle:     info.Vehicle.Name,
		Duration:    last.Time.Sub(info.StartTime).Seconds(),
		Tag:         viper.GetString("api.tag"),
	})
	if err != nil {
		return err
	}
	Logger.Info("Recording uploaded", "path", path)
	return nil
}

func thrustDirection(v []float64) mgl64.Vec2 {
	if len(v) < 2 {
		return mgl64.Vec2{0, -1}
	}
	return mgl64.Vec2{v[0], v[1]}
}
