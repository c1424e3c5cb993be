package vehicle

import (
	"math"
	"testing"

	"github.com/astrolab/envsim/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Manual(t *testing.T) {
	v, err := Build(core.VehicleSpec{
		Type:             core.SpecManual,
		Weight:           42,
		MotorPower:       800,
		Material:         "Composite",
		HasControlSystem: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 42.0, v.Mass)
	assert.Equal(t, 800.0, v.Thrust)
	assert.Equal(t, core.MaterialComposite, v.Material)
	assert.True(t, v.HasControlSystem)
	assert.Equal(t, 100.0, v.FuelCapacity)
	assert.Equal(t, 100.0, v.CurrentFuel)
}

func TestBuild_ManualInvalid(t *testing.T) {
	tests := []struct {
		name string
		spec core.VehicleSpec
	}{
		{"missing weight", core.VehicleSpec{Type: core.SpecManual, MotorPower: 10}},
		{"missing motor power", core.VehicleSpec{Type: core.SpecManual, Weight: 10}},
		{"negative weight", core.VehicleSpec{Type: core.SpecManual, Weight: -1, MotorPower: 10}},
		{"zero motor power", core.VehicleSpec{Type: core.SpecManual, Weight: 1, MotorPower: 0}},
		{"NaN weight", core.VehicleSpec{Type: core.SpecManual, Weight: math.NaN(), MotorPower: 10}},
		{"infinite weight", core.VehicleSpec{Type: core.SpecManual, Weight: math.Inf(1), MotorPower: 10}},
		{"negative infinite weight", core.VehicleSpec{Type: core.SpecManual, Weight: math.Inf(-1), MotorPower: 10}},
		{"NaN motor power", core.VehicleSpec{Type: core.SpecManual, Weight: 10, MotorPower: math.NaN()}},
		{"infinite motor power", core.VehicleSpec{Type: core.SpecManual, Weight: 10, MotorPower: math.Inf(1)}},
		{"unknown type", core.VehicleSpec{Type: "hybrid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidSpec)
		})
	}
}

func TestBuild_Presets(t *testing.T) {
	tests := []struct {
		model  string
		mass   float64
		thrust float64
	}{
		{"Mini CubeSat", 1.3, 0.1},
		{"Mini-CubeSat", 1.3, 0.1},
		{"Experimental-Rocket", 25, 1000},
		{"Deneysel Roket", 25, 1000},
		{"Comm-Satellite", 150, 500},
		{"İletişim Uydusu", 150, 500},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			v, err := Build(core.VehicleSpec{Type: core.SpecPreset, Model: tt.model})
			require.NoError(t, err)
			assert.Equal(t, tt.mass, v.Mass)
			assert.Equal(t, tt.thrust, v.Thrust)
			assert.Equal(t, core.MaterialAluminum, v.Material)
			assert.False(t, v.HasControlSystem)
			assert.Equal(t, 100.0, v.CurrentFuel)
		})
	}
}

func TestBuild_UnknownPreset(t *testing.T) {
	_, err := Build(core.VehicleSpec{Type: core.SpecPreset, Model: "Starship"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownPreset)
}

func TestParseMaterial(t *testing.T) {
	assert.Equal(t, core.MaterialAluminum, ParseMaterial(""))
	assert.Equal(t, core.MaterialAluminum, ParseMaterial("Alüminyum"))
	assert.Equal(t, core.MaterialCarbonFiber, ParseMaterial("Carbon-fiber"))
	assert.Equal(t, core.MaterialCarbonFiber, ParseMaterial("Karbonfiber"))
	assert.Equal(t, core.MaterialComposite, ParseMaterial("Kompozit"))
	assert.Equal(t, core.MaterialAluminum, ParseMaterial("titanium"))
}

func TestPresets(t *testing.T) {
	got := Presets()
	require.Len(t, got, 3)
	assert.Equal(t, MiniCubeSat, got[0].Name)
	assert.Equal(t, ExperimentalRocket, got[1].Name)
	assert.Equal(t, CommSatellite, got[2].Name)
}
