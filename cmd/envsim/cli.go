package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/astrolab/envsim/internal/database"
	"github.com/astrolab/envsim/internal/environment"
	"github.com/astrolab/envsim/internal/model"
	"github.com/astrolab/envsim/internal/model/convert"
	gormstorage "github.com/astrolab/envsim/internal/storage/gorm"
	"github.com/astrolab/envsim/internal/storage/memory"
	v1 "github.com/astrolab/envsim/internal/storage/memory/export/v1"
	"github.com/astrolab/envsim/internal/vehicle"
)

var errUsage = errors.New("missing arguments")

func printCatalog(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENVIRONMENT\tGRAVITY\tATMOSPHERE\tTEMP (°C)\tRADIATION\tCOSMIC")
	for _, name := range environment.Names() {
		env, _ := environment.Lookup(name)
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.0f..%.0f\t%.2f\t%t\n",
			env.Name, env.Gravity, env.Atmosphere,
			env.Temperature.Min, env.Temperature.Max,
			env.Radiation, env.CosmicRadiation)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "PRESET\tMASS (kg)\tTHRUST")
	for _, p := range vehicle.Presets() {
		fmt.Fprintf(tw, "%s\t%g\t%g\n", p.Name, p.Mass, p.Thrust)
	}
	tw.Flush()
}

// inspect prints a one-line summary per exported recording.
func inspect(w io.Writer, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: inspect <file>...", errUsage)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tENVIRONMENT\tVEHICLE\tTICKS\tMAX SPEED\tTEMP RANGE\tFUEL\tDAMAGE\tALERTS (C/W)")
	for _, path := range paths {
		e, err := memory.LoadExport(path)
		if err != nil {
			tw.Flush()
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		s := e.Summary
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.1f\t%.1f..%.1f\t%.1f\t%.2f\t%d/%d\n",
			e.SessionUUID, e.Environment.Name, e.Vehicle.Name, e.EndTick,
			s.MaxSpeed, s.MinTemperature, s.MaxTemperature,
			s.FinalFuel, s.FinalDamage, s.CriticalAlerts, s.WarningAlerts)
	}
	return tw.Flush()
}

// exportFromSQLite rebuilds the v1 export of one session stored in a SQLite
// dump. Output goes to args[2] or <uuid>.json.
func exportFromSQLite(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: export <db> <uuid> [out]", errUsage)
	}
	dbPath, uuid := args[0], args[1]
	out := uuid + ".json"
	if len(args) > 2 {
		out = args[2]
	}

	if _, err := os.Stat(dbPath); err != nil {
		return err
	}
	db, err := database.GetSqliteDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dbPath, err)
	}

	export, err := buildExport(gormstorage.New(gormstorage.Dependencies{DB: db}), uuid)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("Exported session %s (%d frames) to %s\n", uuid, len(export.Frames), out)
	return nil
}

func buildExport(b *gormstorage.Backend, uuid string) (v1.Export, error) {
	var row model.SimSession
	if err := b.DB().Where("uuid = ?", uuid).First(&row).Error; err != nil {
		return v1.Export{}, fmt.Errorf("session %s: %w", uuid, err)
	}

	snapshots, err := b.Snapshots(row.ID)
	if err != nil {
		return v1.Export{}, fmt.Errorf("error getting snapshots: %w", err)
	}
	thrusts, err := b.Thrusts(row.ID)
	if err != nil {
		return v1.Export{}, fmt.Errorf("error getting thrusts: %w", err)
	}

	info := convert.SessionToCore(row)
	if env, err := environment.Lookup(info.Environment.Name); err == nil {
		info.Environment = env
	}
	return v1.Build(info, snapshots, thrusts), nil
}
