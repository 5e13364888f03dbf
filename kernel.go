package weatherrouting

import (
	"math"
	"sort"
	"sync"
	"time"
)

// PointFn is the capability a Router injects into the kernel to turn a
// sampled (tws, twa, heading) into a candidate next position and the
// speed used to reach it. PolarRouter and ShortestPathRouter are its two
// concrete implementers.
type PointFn interface {
	NextPoint(p Position, tws, twa, dtHours, brg float64) (Position, float64)
}

// ValidityConfig bundles the four optional geographic validity
// collaborators. If a batched variant is set, the corresponding
// per-point variant is disabled, matching the router contract.
type ValidityConfig struct {
	PointValidity  PointValidity
	LineValidity   LineValidity
	PointsValidity PointsValidity
	LinesValidity  LinesValidity
}

func (v ValidityConfig) normalize() ValidityConfig {
	if v.PointsValidity != nil {
		v.PointValidity = nil
	}
	if v.LinesValidity != nil {
		v.LineValidity = nil
	}
	return v
}

// KernelOptions controls the optional data-parallel expansion of step 2 of
// the isochrone algorithm.
type KernelOptions struct {
	// Parallel expands each parent IsoPoint in its own goroutine. Results
	// are concatenated in parent order before pruning, so the output is
	// identical to the serial path regardless of goroutine scheduling.
	Parallel bool
}

// ExpandIsochrones runs a single step of the isochrone expansion-and-
// pruning algorithm: fan out from every point of the last layer, prune by
// angular sector, filter by geographic validity, sort, and append the new
// layer. It returns the full isochrones list including the new layer.
func ExpandIsochrones(
	t time.Time,
	dtHours float64,
	isochrones Isochrones,
	nextWp Position,
	wind WindOracle,
	pointFn PointFn,
	validity ValidityConfig,
	opts KernelOptions,
) (Isochrones, error) {
	last := isochrones[len(isochrones)-1]
	seed := isochrones[0][0].Pos

	perParent := make([][]IsoPoint, len(last))

	expandOne := func(i int) error {
		p := last[i]
		w, ok := wind.WindAt(t, p.Pos.Lat, p.Pos.Lon)
		if !ok {
			return ErrNoWind
		}
		twd := deg2rad(w.TwdDeg)
		tws := MsToKnots(w.TwsMs)

		var out []IsoPoint
		for twaDeg := -180; twaDeg < 180; twaDeg += 5 {
			twa := deg2rad(float64(twaDeg))
			brg := reduce360(twd + twa)

			newPos, speed := pointFn.NextPoint(p.Pos, tws, twa, dtHours, brg)
			nextWpDist := PointDistance(newPos.Lat, newPos.Lon, nextWp.Lat, nextWp.Lon, NM)
			if nextWpDist > p.NextWpDist {
				continue
			}
			d, b := RhumbDistanceBearing(seed.Lat, seed.Lon, newPos.Lat, newPos.Lon)

			out = append(out, IsoPoint{
				Pos:        newPos,
				PrevIdx:    i,
				Time:       t,
				Twd:        twd,
				Tws:        tws,
				Speed:      speed,
				Brg:        rad2deg(brg),
				NextWpDist: nextWpDist,
				StartWpLos: RhumbLine{Dist: d, Brg: b},
			})
		}
		perParent[i] = out
		return nil
	}

	if opts.Parallel {
		var wg sync.WaitGroup
		errs := make([]error, len(last))
		for i := range last {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = expandOne(i)
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	} else {
		for i := range last {
			if err := expandOne(i); err != nil {
				return nil, err
			}
		}
	}

	var newPoints []IsoPoint
	for _, out := range perParent {
		newPoints = append(newPoints, out...)
	}

	sort.SliceStable(newPoints, func(i, j int) bool {
		return newPoints[i].StartWpLos.Brg < newPoints[j].StartWpLos.Brg
	})

	buckets := make(map[int]IsoPoint)
	var order []int
	for _, p := range newPoints {
		key := int(math.Floor(rad2deg(p.StartWpLos.Brg)))
		if existing, ok := buckets[key]; ok {
			if p.NextWpDist < existing.NextWpDist {
				buckets[key] = p
			}
		} else {
			buckets[key] = p
			order = append(order, key)
		}
	}

	survivors := make([]IsoPoint, 0, len(order))
	for _, k := range order {
		survivors = append(survivors, buckets[k])
	}

	survivors = applyValidity(survivors, last, validity.normalize())

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].StartWpLos.Brg < survivors[j].StartWpLos.Brg
	})

	return append(isochrones, IsochroneLayer(survivors)), nil
}

func applyValidity(points []IsoPoint, last IsochroneLayer, v ValidityConfig) []IsoPoint {
	if v.PointValidity != nil {
		filtered := points[:0:0]
		for _, p := range points {
			if v.PointValidity(p.Pos.Lat, p.Pos.Lon) {
				filtered = append(filtered, p)
			}
		}
		points = filtered
	}

	if v.LineValidity != nil {
		filtered := points[:0:0]
		for _, p := range points {
			parent := last[p.PrevIdx]
			if v.LineValidity(p.Pos.Lat, p.Pos.Lon, parent.Pos.Lat, parent.Pos.Lon) {
				filtered = append(filtered, p)
			}
		}
		points = filtered
	}

	if v.PointsValidity != nil {
		positions := make([]Position, len(points))
		for i, p := range points {
			positions[i] = p.Pos
		}
		valid := v.PointsValidity(positions)
		filtered := points[:0:0]
		for i, p := range points {
			if i < len(valid) && valid[i] {
				filtered = append(filtered, p)
			}
		}
		points = filtered
	}

	if v.LinesValidity != nil {
		segs := make([][4]float64, len(points))
		for i, p := range points {
			parent := last[p.PrevIdx]
			segs[i] = [4]float64{p.Pos.Lat, p.Pos.Lon, parent.Pos.Lat, parent.Pos.Lon}
		}
		valid := v.LinesValidity(segs)
		filtered := points[:0:0]
		for i, p := range points {
			if i < len(valid) && valid[i] {
				filtered = append(filtered, p)
			}
		}
		points = filtered
	}

	return points
}
