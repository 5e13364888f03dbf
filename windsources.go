package weatherrouting

import (
	"math"
	"math/rand"
	"time"
)

// SyntheticWindOracle is a synthetic WindOracle for scenarios that have no
// GRIB or other external wind feed wired in: a constant base wind plus
// bounded per-call jitter, scoped out past a fixed horizon. It exists so
// cmd/router can run a scenario end to end without a live forecast; a real
// deployment replaces it with a GRIB-backed WindOracle.
type SyntheticWindOracle struct {
	baseTwd    float64
	baseTws    float64
	fuzziness  float64
	outOfScope time.Time
	epoch      time.Time
}

// NewSyntheticWindOracle builds an oracle around a base TWD (degrees) and
// TWS (m/s), jittered by +/- fuzziness/2 on each axis. outOfScope is the
// time at which the oracle stops returning wind; the zero time means no
// horizon.
func NewSyntheticWindOracle(baseTwd, baseTws, fuzziness float64, outOfScope time.Time) *SyntheticWindOracle {
	return &SyntheticWindOracle{
		baseTwd:    baseTwd,
		baseTws:    baseTws,
		fuzziness:  fuzziness,
		outOfScope: outOfScope,
		epoch:      time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WindAt implements WindOracle. The jitter is seeded from t and the
// position so repeated calls for the same (t, lat, lon) are stable, but it
// does not reproduce any particular external RNG stream bit for bit.
func (s *SyntheticWindOracle) WindAt(t time.Time, lat, lon float64) (Wind, bool) {
	if !s.outOfScope.IsZero() && !t.Before(s.outOfScope) {
		return Wind{}, false
	}
	millis := t.Sub(s.epoch).Milliseconds()
	seed := millis ^ int64(math.Round(lat*1e4)) ^ int64(math.Round(lon*1e4))<<1

	twdJitter := 0.0
	twsJitter := 0.0
	if s.fuzziness > 0 {
		r1 := rand.New(rand.NewSource(seed))
		r2 := rand.New(rand.NewSource(seed + 1))
		twdJitter = (r1.Float64() - 0.5) * s.fuzziness
		twsJitter = (r2.Float64() - 0.5) * s.fuzziness
	}

	return Wind{
		TwdDeg: math.Mod(s.baseTwd+twdJitter+360, 360),
		TwsMs:  math.Max(0, s.baseTws+twsJitter),
	}, true
}

// CircleObstacle rejects points, and segments with an endpoint, inside a
// fixed-radius circle, used to model a single land mass or exclusion zone when no richer
// geometry source is wired in.
type CircleObstacle struct {
	center Position
	radius float64
}

// NewCircleObstacle centers the obstacle on the midpoint of the track's
// first leg, with a radius equal to that leg's great-circle length divided
// by factor.
func NewCircleObstacle(track []Position, factor float64) *CircleObstacle {
	mid := Position{
		Lat: (track[0].Lat + track[1].Lat) / 2,
		Lon: (track[0].Lon + track[1].Lon) / 2,
	}
	legNm := PointDistance(track[0].Lat, track[0].Lon, track[1].Lat, track[1].Lon, NM)
	return &CircleObstacle{center: mid, radius: legNm / factor}
}

// PointValidity rejects points within the obstacle's radius.
func (c *CircleObstacle) PointValidity(lat, lon float64) bool {
	return PointDistance(lat, lon, c.center.Lat, c.center.Lon, NM) > c.radius
}

// LineValidity rejects legs whose endpoints fall inside the obstacle; it
// does not test intermediate crossing, so a segment whose endpoints both
// lie outside the circle is accepted even if it passes through it.
func (c *CircleObstacle) LineValidity(lat1, lon1, lat2, lon2 float64) bool {
	return c.PointValidity(lat1, lon1) && c.PointValidity(lat2, lon2)
}
