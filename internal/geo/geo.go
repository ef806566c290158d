package geo

import (
	"errors"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Positions are authored in EPSG:4326 (lat/lng). Flat-surface views get
// EPSG:3857 coordinates so they never need their own projection math.

// ErrEmptyPath is returned when a geometry is requested for a track
// with no waypoints.
var ErrEmptyPath = errors.New("empty path")

// Lerp linearly interpolates between a and b by fraction u in [0,1].
func Lerp(a, b, u float64) float64 {
	return a + (b-a)*u
}

// InitialBearing returns the forward azimuth from point a to point b on
// a spherical earth, in degrees clockwise from north, normalized to
// [0,360).
func InitialBearing(a, b core.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// Project3857 converts a lat/lng coordinate to EPSG:3857 planar x/y.
func Project3857(p core.LatLng) (x, y float64) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ = f(p.Lng, p.Lat, 0)
	return x, y
}

// TrailLineString builds a LineString geometry from a rendered trail.
// Fewer than two points cannot form a line; ErrEmptyPath is returned so
// callers can skip geometry export for stub trails.
func TrailLineString(trail []core.LatLng) (geom.LineString, error) {
	if len(trail) < 2 {
		return geom.LineString{}, ErrEmptyPath
	}
	coords := make([]float64, 0, len(trail)*2)
	for _, p := range trail {
		coords = append(coords, p.Lng, p.Lat)
	}
	seq := geom.NewSequence(coords, geom.DimXY)
	return geom.NewLineString(seq), nil
}

// TrailLengthM returns the planar length of a trail in meters, measured
// in EPSG:3857. Returns 0 for trails shorter than two points.
func TrailLengthM(trail []core.LatLng) float64 {
	if len(trail) < 2 {
		return 0
	}
	coords := make([]float64, 0, len(trail)*2)
	for _, p := range trail {
		x, y := Project3857(p)
		coords = append(coords, x, y)
	}
	seq := geom.NewSequence(coords, geom.DimXY)
	return geom.NewLineString(seq).Length()
}

// PointFromLatLng builds a simplefeatures point in lng/lat order.
func PointFromLatLng(p core.LatLng) geom.Point {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.Lng, Y: p.Lat},
		Type: geom.DimXY,
	})
}
