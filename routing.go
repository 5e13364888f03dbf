package weatherrouting

import (
	"math"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// RoutingAlgorithm names a registered Router constructor, mirroring the
// original's list_routing_algorithms().
type RoutingAlgorithm struct {
	Name    string
	Builder func(polar *Polar, wind WindOracle, validity ValidityConfig) Router
}

// ListRoutingAlgorithms returns the built-in router strategies.
func ListRoutingAlgorithms() []RoutingAlgorithm {
	return []RoutingAlgorithm{
		{Name: "LinearBestIsoRouter", Builder: func(p *Polar, w WindOracle, v ValidityConfig) Router {
			return NewPolarRouter(p, w, v)
		}},
		{Name: "ShortestPathRouter", Builder: func(p *Polar, w WindOracle, v ValidityConfig) Router {
			return NewShortestPathRouter(p, w, v)
		}},
	}
}

// RoutingDriver runs a Router leg-by-leg across an ordered track, merging
// each leg's reconstructed path into the accumulated route and enforcing
// time monotonicity across leg boundaries.
type RoutingDriver struct {
	router Router
	track  []Position

	Time     time.Time
	Position Position
	wp       int
	Path     []IsoPoint
	Log      RoutingLog
	Steps    int
	End      bool

	startingNewLeg bool
	logger         kitlog.Logger
}

// NewRoutingDriver builds a driver for the given router and track. If
// startPosition is nil, the driver starts from track[0] and targets
// track[1]; otherwise it starts from startPosition and targets track[0].
func NewRoutingDriver(router Router, track []Position, startDatetime time.Time, startPosition *Position) *RoutingDriver {
	d := &RoutingDriver{
		router:         router,
		track:          track,
		Time:           startDatetime,
		startingNewLeg: true,
		logger:         RoutingLogInit(router.Name()),
	}
	if startPosition != nil {
		d.wp = 0
		d.Position = *startPosition
	} else {
		d.wp = 1
		d.Position = track[0]
	}
	return d
}

// Step executes a single routing step and returns the RoutingResult it
// produced, appending it to the driver's log.
func (d *RoutingDriver) Step(dtHours float64) (RoutingResult, error) {
	d.Steps++

	if d.wp >= len(d.track) {
		d.End = true
		return d.Log[len(d.Log)-1], nil
	}

	nextWp := d.track[d.wp]

	var res RoutingResult
	var err error
	if d.startingNewLeg || len(d.Log) == 0 {
		res, err = d.router.Route(nil, d.Time, dtHours, d.Position, nextWp)
		d.startingNewLeg = false
	} else {
		prev := d.Log[len(d.Log)-1]
		res, err = d.router.Route(&prev, d.Time, dtHours, d.Position, nextWp)
	}
	if err != nil {
		d.logger.Log("level", "error", "subsys", "routing", "msg", "route failed", "err", err)
		return RoutingResult{}, err
	}

	ff := 100.0 / float64(len(d.track))
	progress := ff*float64(d.wp) + math.Mod(float64(len(d.Log)), ff)

	if len(res.Path) != 0 {
		d.Position = res.Position
		d.Path = append(d.Path, res.Path...)
		d.wp++
		d.startingNewLeg = true
		d.logger.Log("level", "notice", "subsys", "routing", "msg", "leg advanced", "wp", d.wp)
	}

	d.Path = timeMonotonePath(d.Path)
	d.Time = res.Time

	nlog := RoutingResult{Progress: progress, Time: res.Time, Path: d.Path, Isochrones: res.Isochrones}
	d.Log = append(d.Log, nlog)
	return nlog, nil
}

// timeMonotonePath keeps only points whose time strictly exceeds the
// previous kept point's time; the first point is always kept.
func timeMonotonePath(path []IsoPoint) []IsoPoint {
	if len(path) == 0 {
		return path
	}
	out := make([]IsoPoint, 0, len(path))
	out = append(out, path[0])
	ptime := path[0].Time
	for _, p := range path[1:] {
		if p.Time.After(ptime) {
			out = append(out, p)
			ptime = p.Time
		}
	}
	return out
}
