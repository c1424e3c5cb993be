// Package monitor periodically reports process and recording health.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/astrolab/envsim/internal/influx"
)

// DefaultInterval is the reporting period when none is configured.
const DefaultInterval = time.Second

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger *slog.Logger
	// Influx is optional; nil skips the performance point.
	Influx *influx.Manager
	// Tick returns the last simulated tick.
	Tick func() uint64
	// Dropped returns the number of records storage dropped.
	Dropped func() uint64
	// StatusPath is rewritten with the latest Status as JSON; empty disables it.
	StatusPath string
	Interval   time.Duration
}

// Status is one health sample.
type Status struct {
	Time        time.Time `json:"time"`
	Tick        uint64    `json:"tick"`
	TicksPerSec float64   `json:"ticksPerSec"`
	Goroutines  int       `json:"goroutines"`
	HeapAllocMB float64   `json:"heapAllocMb"`
	NumGC       uint32    `json:"numGc"`
	Dropped     uint64    `json:"dropped"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}

	lastTick uint64
	lastTime time.Time
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Sample collects the current status. The tick rate is measured since the
// previous Sample call.
func (s *Service) Sample(now time.Time) Status {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	st := Status{
		Time:        now,
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(mem.HeapAlloc) / (1 << 20),
		NumGC:       mem.NumGC,
	}
	if s.deps.Tick != nil {
		st.Tick = s.deps.Tick()
	}
	if s.deps.Dropped != nil {
		st.Dropped = s.deps.Dropped()
	}

	if !s.lastTime.IsZero() && now.After(s.lastTime) && st.Tick >= s.lastTick {
		st.TicksPerSec = float64(st.Tick-s.lastTick) / now.Sub(s.lastTime).Seconds()
	}
	s.lastTick, s.lastTime = st.Tick, now
	return st
}

// Point converts a status sample to an InfluxDB point.
func (st Status) Point() *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement("envsim_status").
		AddField("tick", int64(st.Tick)).
		AddField("ticks_per_sec", st.TicksPerSec).
		AddField("goroutines", st.Goroutines).
		AddField("heap_alloc_mb", st.HeapAllocMB).
		AddField("num_gc", int64(st.NumGC)).
		AddField("dropped", int64(st.Dropped)).
		SetTime(st.Time)
}

func (s *Service) report(st Status) {
	if s.deps.StatusPath != "" {
		data, err := json.MarshalIndent(st, "", "  ")
		if err == nil {
			err = os.WriteFile(s.deps.StatusPath, append(data, '\n'), 0644)
		}
		if err != nil {
			s.deps.Logger.Error("Error writing status file", "error", err, "path", s.deps.StatusPath)
		}
	}

	if s.deps.Influx != nil {
		if err := s.deps.Influx.WritePoint(influx.BucketPerformance, st.Point()); err != nil {
			s.deps.Logger.Error("Error writing status point", "error", err)
		}
	}

	s.deps.Logger.Debug("Status", "tick", st.Tick, "ticksPerSec", st.TicksPerSec,
		"goroutines", st.Goroutines, "heapAllocMb", fmt.Sprintf("%.1f", st.HeapAllocMB), "dropped", st.Dropped)
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		s.deps.Logger.Debug("Starting status monitor", "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				s.report(s.Sample(time.Now()))
				return
			case now := <-ticker.C:
				s.report(s.Sample(now))
			}
		}
	}(s.stopChan, s.done)

	return nil
}

// Stop stops the status monitor after a final report.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
