package geo

import (
	"testing"

	"github.com/astrolab/envsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointFromVec2(t *testing.T) {
	p := PointFromVec2(core.Vec2{X: 400, Y: 300.5})

	c, ok := p.Coordinates()
	require.True(t, ok)
	assert.Equal(t, 400.0, c.X)
	assert.Equal(t, 300.5, c.Y)
	assert.Equal(t, core.Vec2{X: 400, Y: 300.5}, Vec2FromPoint(p))
}

func TestVec2FromPoint_Empty(t *testing.T) {
	assert.Equal(t, core.Vec2{}, Vec2FromPoint(geom.NewEmptyPoint(geom.DimXY)))
}

func TestMglConversions(t *testing.T) {
	v := mgl64.Vec2{1.5, -2}
	assert.Equal(t, core.Vec2{X: 1.5, Y: -2}, FromMgl(v))
	assert.Equal(t, v, ToMgl(FromMgl(v)))
}

func TestParseVec2(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    mgl64.Vec2
		wantErr bool
	}{
		{"up", "0,-1", mgl64.Vec2{0, -1}, false},
		{"spaces", " 0.5 , 0.5 ", mgl64.Vec2{0.5, 0.5}, false},
		{"too few", "1", mgl64.Vec2{}, true},
		{"too many", "1,2,3", mgl64.Vec2{}, true},
		{"not a number", "a,1", mgl64.Vec2{}, true},
		{"second not a number", "1,b", mgl64.Vec2{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVec2(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCoordinates)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
