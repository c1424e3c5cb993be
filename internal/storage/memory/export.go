package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/astrolab/envsim/internal/storage/memory/export/v1"
)

// fileSafe replaces characters that are awkward in file names.
var fileSafe = strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_")

// exportJSON writes the session to
// <outputDir>/<env>_<vehicle>_<session>_<start>.json[.gz]. Callers hold b.mu.
func (b *Backend) exportJSON() error {
	export := v1.Build(*b.session, b.snapshots, b.thrusts)

	parts := []string{
		fileSafe.Replace(b.session.Environment.Name),
		fileSafe.Replace(b.session.Vehicle.Name),
	}
	if b.session.UUID != "" {
		parts = append(parts, fileSafe.Replace(b.session.UUID))
	}
	parts = append(parts, b.session.StartTime.Format("20060102_150405"))
	name := strings.Join(parts, "_")
	ext := ".json"
	if b.cfg.CompressOutput {
		ext = ".json.gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, name+ext)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeExport(outputPath, export, b.cfg.CompressOutput); err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

func writeExport(path string, data v1.Export, compress bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	var w io.Writer = f
	if compress {
		gz := gzip.NewWriter(f)
		defer func() {
			if cerr := gz.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}()
		w = gz
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// LoadExport reads a file written by EndSession. Gzip is detected from the
// .gz extension.
func LoadExport(path string) (v1.Export, error) {
	var out v1.Export

	f, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return out, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode export: %w", err)
	}
	return out, nil
}
