package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/astrolab/envsim/internal/config"
	"github.com/astrolab/envsim/internal/logging"
	intOtel "github.com/astrolab/envsim/internal/otel"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "envsim"
)

var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry, nil when disabled
	OTelProvider *intOtel.Provider

	LogFilePath string
	LogFile     *os.File
	GelfWriter  *gelf.Writer

	SessionStartTime time.Time = time.Now()

	// current tick and phase of the running scenario, injected into log records
	currentTick  atomic.Uint64
	currentPhase atomic.Value
)

func logContext() []slog.Attr {
	attrs := []slog.Attr{slog.Uint64("tick", currentTick.Load())}
	if phase, ok := currentPhase.Load().(string); ok && phase != "" {
		attrs = append(attrs, slog.String("phase", phase))
	}
	return attrs
}

// setup loads the config and wires logging. The config directory is the
// working directory unless ENVSIM_CONFIG_DIR is set.
func setup() {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(logging.Sinks{}, viper.GetString("logLevel"))
	Logger = SlogManager.Logger()

	configDir := os.Getenv("ENVSIM_CONFIG_DIR")
	if configDir == "" {
		configDir = "."
	}
	if err := config.Load(configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		Logger.Error("Failed to create logs directory", "error", err, "path", logsDir)
	}

	LogFilePath = logging.LogFilePath(logsDir, AppName, SessionStartTime)
	var err error
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
		LogFile = nil
	}

	sinks := logging.Sinks{Context: logContext}
	var otelWriter io.Writer
	if LogFile != nil {
		sinks.File = LogFile
		otelWriter = LogFile
	}

	if viper.GetBool("graylog.enabled") {
		GelfWriter, err = logging.NewGraylogWriter(viper.GetString("graylog.address"))
		if err != nil {
			Logger.Error("Failed to initialize Graylog writer", "error", err)
		} else {
			sinks.Graylog = GelfWriter
		}
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    otelWriter,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			sinks.Provider = OTelProvider.LoggerProvider()
			Logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
		}
	}

	SlogManager.Setup(sinks, viper.GetString("logLevel"))
	Logger = SlogManager.Logger()
	slog.SetDefault(Logger)
	Logger.Info("Logging to file", "path", LogFilePath, "version", CurrentVersion, "buildDate", BuildDate)
}

// newZerolog returns the zerolog logger used by the influx manager and the
// dispatcher. It writes JSON to the log file, or stderr without one.
func newZerolog() zerolog.Logger {
	var out io.Writer = os.Stderr
	if LogFile != nil {
		out = LogFile
	}
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("logLevel")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("app", AppName).Logger()
}

func shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := SlogManager.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shut down OTel provider: %v\n", err)
		}
	}
	if GelfWriter != nil {
		GelfWriter.Close()
	}
	if LogFile != nil {
		LogFile.Close()
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [args]

Commands:
  run                       run the configured scenario and record it (default)
  inspect <file>...         summarize exported recordings
  export <db> <uuid> [out]  rebuild a JSON export from a SQLite dump
  environments              list environments and vehicle presets
  version                   print the version
`, AppName)
}

func main() {
	args := os.Args[1:]
	command := "run"
	if len(args) > 0 {
		command = strings.ToLower(args[0])
		args = args[1:]
	}

	switch command {
	case "version":
		fmt.Printf("%s %s (%s)\n", AppName, CurrentVersion, BuildDate)
		return
	case "environments":
		printCatalog(os.Stdout)
		return
	case "inspect":
		if err := inspect(os.Stdout, args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	case "export":
		if err := exportFromSQLite(args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	case "run":
	default:
		usage()
		os.Exit(2)
	}

	setup()
	defer shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	Logger.Info("Starting up...")
	if err := run(ctx); err != nil {
		Logger.Error("Run failed", "error", err)
		shutdown()
		os.Exit(1)
	}
	Logger.Info("Finished.")
}
