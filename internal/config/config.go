package config

import (
	"fmt"
	"time"

	"github.com/astrolab/envsim/pkg/core"
	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "envsim.cfg.json"

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
	Path         string        `json:"path" mapstructure:"path"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// ThrustConfig describes the scripted thrust schedule of a scenario.
type ThrustConfig struct {
	Intensity float64   `json:"intensity" mapstructure:"intensity"`
	Until     float64   `json:"until" mapstructure:"until"` // progress after which the engine is cut
	Direction []float64 `json:"direction" mapstructure:"direction"`
}

// ScenarioConfig describes a simulation run.
type ScenarioConfig struct {
	Environment  string           `json:"environment" mapstructure:"environment"`
	Vehicle      core.VehicleSpec `json:"vehicle" mapstructure:"vehicle"`
	Duration     time.Duration    `json:"duration" mapstructure:"duration"`
	TickInterval time.Duration    `json:"tickInterval" mapstructure:"tickInterval"`
	Thrust       ThrustConfig     `json:"thrust" mapstructure:"thrust"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// SetDefaults registers default values for every known key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./envsimlogs")

	viper.SetDefault("scenario.environment", "LEO")
	viper.SetDefault("scenario.vehicle.type", core.SpecPreset)
	viper.SetDefault("scenario.vehicle.model", "Mini CubeSat")
	viper.SetDefault("scenario.vehicle.weight", 0)
	viper.SetDefault("scenario.vehicle.motorPower", 0)
	viper.SetDefault("scenario.vehicle.material", "")
	viper.SetDefault("scenario.vehicle.hasControlSystem", false)
	viper.SetDefault("scenario.duration", "60s")
	viper.SetDefault("scenario.tickInterval", "100ms")
	viper.SetDefault("scenario.thrust.intensity", 1.0)
	viper.SetDefault("scenario.thrust.until", 0.5)
	viper.SetDefault("scenario.thrust.direction", []float64{0, -1})

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.upload", false)
	viper.SetDefault("api.tag", "")

	viper.SetDefault("monitor.enabled", true)
	viper.SetDefault("monitor.interval", "1s")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "envsim")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./recordings")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.sqlite.path", "")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "envsim-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "envsim")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetStorageConfig returns the storage configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			Path:         viper.GetString("storage.sqlite.path"),
		},
	}
}

// GetScenarioConfig returns the scenario configuration.
func GetScenarioConfig() ScenarioConfig {
	direction := viper.Get("scenario.thrust.direction")
	return ScenarioConfig{
		Environment: viper.GetString("scenario.environment"),
		Vehicle: core.VehicleSpec{
			Type:             viper.GetString("scenario.vehicle.type"),
			Model:            viper.GetString("scenario.vehicle.model"),
			Weight:           viper.GetFloat64("scenario.vehicle.weight"),
			MotorPower:       viper.GetFloat64("scenario.vehicle.motorPower"),
			Material:         viper.GetString("scenario.vehicle.material"),
			HasControlSystem: viper.GetBool("scenario.vehicle.hasControlSystem"),
		},
		Duration:     viper.GetDuration("scenario.duration"),
		TickInterval: viper.GetDuration("scenario.tickInterval"),
		Thrust: ThrustConfig{
			Intensity: viper.GetFloat64("scenario.thrust.intensity"),
			Until:     viper.GetFloat64("scenario.thrust.until"),
			Direction: toFloats(direction),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// toFloats converts a decoded JSON array into []float64, skipping
// non-numeric entries.
func toFloats(v any) []float64 {
	switch vals := v.(type) {
	case []float64:
		return vals
	case []any:
		out := make([]float64, 0, len(vals))
		for _, x := range vals {
			switch n := x.(type) {
			case float64:
				out = append(out, n)
			case int:
				out = append(out, float64(n))
			}
		}
		return out
	default:
		return nil
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
