// Package geo converts simulation vectors to and from the geometry types
// stored in the database.
package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/astrolab/envsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Positions are stored as planar XY points in simulation units. Geometry is
// serialized as WKB, which both SQLite and PostGIS round-trip through Scan.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// PointFromVec2 converts a core.Vec2 to a geom.Point.
func PointFromVec2(v core.Vec2) geom.Point {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: v.X, Y: v.Y},
		Type: geom.DimXY,
	})
}

// Vec2FromPoint converts a geom.Point back to a core.Vec2. An empty point
// yields the zero vector.
func Vec2FromPoint(p geom.Point) core.Vec2 {
	c, ok := p.Coordinates()
	if !ok {
		return core.Vec2{}
	}
	return core.Vec2{X: c.X, Y: c.Y}
}

// FromMgl converts a math vector to a core.Vec2.
func FromMgl(v mgl64.Vec2) core.Vec2 {
	return core.Vec2{X: v[0], Y: v[1]}
}

// ToMgl converts a core.Vec2 to a math vector.
func ToMgl(v core.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

// ParseVec2 parses "x,y" into a vector.
func ParseVec2(s string) (mgl64.Vec2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return mgl64.Vec2{}, ErrInvalidCoordinates
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return mgl64.Vec2{}, ErrInvalidCoordinates
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return mgl64.Vec2{}, ErrInvalidCoordinates
	}
	return mgl64.Vec2{x, y}, nil
}
