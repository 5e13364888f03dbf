package weatherrouting

import "time"

// Position is a (lat, lon) pair in decimal degrees.
type Position struct {
	Lat, Lon float64
}

// IsoPoint is one node of an isochrone layer: an immutable record of a
// candidate position reached from a single parent in the previous layer.
// PrevIdx is an index into the previous layer, never a pointer, so that
// layers stay copyable/serializable and the expansion graph is a forest
// by construction.
type IsoPoint struct {
	Pos         Position
	PrevIdx     int // -1 for the root of a leg
	Time        time.Time
	Twd         float64 // radians
	Tws         float64 // knots
	Speed       float64 // knots
	Brg         float64 // degrees
	NextWpDist  float64 // nm, distance to the leg's target waypoint
	StartWpLos  RhumbLine
}

// RhumbLine is a rhumb-line distance/bearing pair from a leg's seed point.
type RhumbLine struct {
	Dist float64 // nm
	Brg  float64 // radians
}

// PointDistance returns the great-circle distance in nm from this point to
// the given position.
func (p IsoPoint) PointDistance(to Position) float64 {
	return PointDistance(p.Pos.Lat, p.Pos.Lon, to.Lat, to.Lon, NM)
}

// Lossodromic returns the rhumb-line distance/bearing from this point to
// the given position.
func (p IsoPoint) Lossodromic(to Position) RhumbLine {
	d, b := RhumbDistanceBearing(p.Pos.Lat, p.Pos.Lon, to.Lat, to.Lon)
	return RhumbLine{Dist: d, Brg: b}
}

// IsochroneLayer is one ordered collection of IsoPoints, all produced in
// the same expansion step.
type IsochroneLayer []IsoPoint

// Isochrones is the ordered sequence of layers for a single leg. Layer 0
// has exactly one point: the leg's seed.
type Isochrones []IsochroneLayer

// NewSeedIsochrones builds the initial single-layer, single-point
// isochrone list for a leg starting at start with the given next-waypoint
// distance already known.
func NewSeedIsochrones(start Position, t time.Time, nextWpDist float64) Isochrones {
	return Isochrones{
		{
			{
				Pos:        start,
				PrevIdx:    -1,
				Time:       t,
				NextWpDist: nextWpDist,
			},
		},
	}
}
