package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/astrolab/envsim/internal/config"
	"github.com/astrolab/envsim/internal/storage"
	"github.com/astrolab/envsim/internal/storage/memory"
	pgstorage "github.com/astrolab/envsim/internal/storage/postgres"
	sqlitestorage "github.com/astrolab/envsim/internal/storage/sqlite"
	wsstorage "github.com/astrolab/envsim/internal/storage/websocket"
)

func createStorageBackend(storageCfg config.StorageConfig) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		Logger.Info("Postgres storage backend initialized")
		return pgstorage.New(pgstorage.Dependencies{
			Logger: Logger.With("component", "postgres"),
		}), nil

	case "sqlite":
		dumpPath := storageCfg.SQLite.Path
		if dumpPath == "" {
			dumpPath = filepath.Join(viper.GetString("storage.memory.outputDir"),
				fmt.Sprintf("%s_%s.db", AppName, SessionStartTime.Format("20060102_150405")))
		}
		if err := os.MkdirAll(filepath.Dir(dumpPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create dump directory: %w", err)
		}
		backend, err := sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: storageCfg.SQLite.DumpInterval,
			DumpPath:     dumpPath,
		}, Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		Logger.Info("SQLite storage backend initialized", "path", dumpPath)
		return backend, nil

	case "websocket":
		wsURL := httpToWS(viper.GetString("api.serverUrl")) + "/api"
		Logger.Info("WebSocket storage backend initialized", "url", wsURL)
		return wsstorage.New(wsstorage.Config{
			URL:    wsURL,
			Secret: viper.GetString("api.apiKey"),
		}, Logger), nil

	case "memory", "":
		Logger.Info("Memory storage backend initialized", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}

// httpToWS converts an HTTP(S) URL to a WebSocket URL.
func httpToWS(httpURL string) string {
	s := strings.TrimRight(httpURL, "/")
	s = strings.Replace(s, "https://", "wss://", 1)
	s = strings.Replace(s, "http://", "ws://", 1)
	return s
}
