package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// InstrumentationName identifies envsim log records in OTel.
const InstrumentationName = "envsim"

// Sinks lists the outputs a SlogManager writes to. Nil fields are skipped.
type Sinks struct {
	// File receives text records. When nil, records go to stdout instead.
	File io.Writer
	// Graylog receives JSON records, typically a *gelf.Writer.
	Graylog io.Writer
	// Provider enables the OTel log bridge.
	Provider *sdklog.LoggerProvider
	// Context injects dynamic attributes (current tick, phase) into every record.
	Context ContextProvider
}

// stdout is the console sink used when no file is configured.
var stdout io.Writer = os.Stdout

// SlogManager owns the process logger and the OTel log provider behind it.
type SlogManager struct {
	logger      *slog.Logger
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the logger from the given sinks. Calling it again replaces
// the previous logger.
func (m *SlogManager) Setup(sinks Sinks, level string) {
	lvl := parseLevel(level)
	m.logProvider = sinks.Provider

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	if sinks.File != nil {
		handlers = append(handlers, slog.NewTextHandler(sinks.File, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(stdout, handlerOpts))
	}

	if sinks.Graylog != nil {
		handlers = append(handlers, slog.NewJSONHandler(sinks.Graylog, handlerOpts))
	}

	if sinks.Provider != nil {
		handlers = append(handlers, otelslog.NewHandler(InstrumentationName, otelslog.WithLoggerProvider(sinks.Provider)))
	}

	var h slog.Handler = NewMultiHandler(handlers...)
	if sinks.Context != nil {
		h = NewContextHandler(h, sinks.Context)
	}

	m.logger = slog.New(h)
	m.logger.Info("Logging initialized", "level", lvl.String())
}

// Logger returns the configured slog.Logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
