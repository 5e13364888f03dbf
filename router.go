package weatherrouting

import (
	"math"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// RouterParam is a typed descriptor for a single router parameter: bounds
// and step are optional (nil means unbounded/unchecked).
type RouterParam struct {
	Code    string
	Label   string
	Type    string
	Tooltip string
	Default float64
	Lower   *float64
	Upper   *float64
	Step    *float64
	Digits  int

	value float64
}

func newRouterParam(code, label, ttype, tooltip string, def, lower, upper, step float64, digits int) RouterParam {
	l, u, s := lower, upper, step
	return RouterParam{
		Code: code, Label: label, Type: ttype, Tooltip: tooltip,
		Default: def, Lower: &l, Upper: &u, Step: &s, Digits: digits,
		value: def,
	}
}

// Value returns the current value.
func (p *RouterParam) Value() float64 { return p.value }

// Set validates v against {lower, upper, step} and assigns it, returning
// InvalidParamError on a violated bound.
func (p *RouterParam) Set(v float64) error {
	if p.Lower != nil && v < *p.Lower {
		return &InvalidParamError{Code: p.Code, Value: v}
	}
	if p.Upper != nil && v > *p.Upper {
		return &InvalidParamError{Code: p.Code, Value: v}
	}
	if p.Step != nil && *p.Step > 0 {
		steps := (v - p.Default) / *p.Step
		if math.Abs(steps-math.Round(steps)) > 1e-6 {
			return &InvalidParamError{Code: p.Code, Value: v}
		}
	}
	p.value = v
	return nil
}

// RoutingResult is the outcome of one Router.Route call: the reconstructed
// leg path (possibly empty, if no terminal point was found this step), the
// isochrones used to produce it, the driver's new position, and a progress
// percentage.
type RoutingResult struct {
	Time       time.Time
	Path       []IsoPoint
	Isochrones Isochrones
	Position   Position
	Progress   float64
}

// RoutingLog is the sequence of RoutingResults produced by a driver, one
// per step() call; each step consults the previous entry's isochrones.
type RoutingLog []RoutingResult

// Router wraps the isochrone kernel with a point-generation strategy and
// its tunable parameters.
type Router interface {
	Name() string
	Params() map[string]*RouterParam
	SetParam(code string, value float64) error
	ParamValue(code string) (float64, error)
	Route(prevLog *RoutingResult, t time.Time, dtHours float64, start, end Position) (RoutingResult, error)
}

// baseRouter holds what every Router strategy needs: the performance model,
// wind source, validity collaborators, and the shared min_increase param.
// It is not itself a Router — PolarRouter and ShortestPathRouter embed it
// and supply the point_fn that distinguishes them.
type baseRouter struct {
	polar    *Polar
	wind     WindOracle
	validity ValidityConfig
	params   map[string]*RouterParam
	logger   kitlog.Logger
}

func newBaseRouter(polar *Polar, wind WindOracle, validity ValidityConfig, name string) baseRouter {
	minIncrease := newRouterParam("min_increase", "Minimum increase (nm)", "float",
		"Set the minimum value for selecting a new valid point", 10.0, 1.0, 100.0, 0.1, 1)
	return baseRouter{
		polar:    polar,
		wind:     wind,
		validity: validity.normalize(),
		params:   map[string]*RouterParam{"min_increase": &minIncrease},
		logger:   RoutingLogInit(name),
	}
}

func (b *baseRouter) Params() map[string]*RouterParam { return b.params }

func (b *baseRouter) SetParam(code string, value float64) error {
	p, ok := b.params[code]
	if !ok {
		return &InvalidParamError{Code: code, Value: value}
	}
	return p.Set(value)
}

func (b *baseRouter) ParamValue(code string) (float64, error) {
	p, ok := b.params[code]
	if !ok {
		return 0, &InvalidParamError{Code: code, Value: 0}
	}
	return p.Value(), nil
}

// route implements the §4.4 route algorithm shared by both strategies: it
// differs only in the PointFn passed in by the embedding router.
func (b *baseRouter) route(pf PointFn, prevLog *RoutingResult, t time.Time, dtHours float64, start, end Position) (RoutingResult, error) {
	arrival := t.Add(time.Duration(dtHours * float64(time.Hour)))

	if _, ok := b.wind.WindAt(arrival, end.Lat, end.Lon); ok {
		var isoc Isochrones
		if prevLog != nil && len(prevLog.Isochrones) > 0 {
			isoc = prevLog.Isochrones
		} else {
			nwDist := PointDistance(end.Lat, end.Lon, start.Lat, start.Lon, NM)
			isoc = NewSeedIsochrones(start, t, nwDist)
		}

		newIsoc, err := ExpandIsochrones(arrival, dtHours, isoc, end, b.wind, pf, b.validity, KernelOptions{})
		if err != nil {
			return RoutingResult{}, err
		}
		isoc = newIsoc

		minIncrease, _ := b.ParamValue("min_increase")
		nearestDist := minIncrease
		nearestIdx := -1

		last := isoc[len(isoc)-1]
		for i, p := range last {
			distToEnd := p.PointDistance(end)
			if distToEnd >= minIncrease {
				continue
			}
			// max_reach_distance is evaluated at a fixed 1-hour horizon
			// regardless of the step's own dt, matching the original's
			// default-argument reach check.
			maxReach := MaxReachDistance(p.Pos.Lat, p.Pos.Lon, p.Speed, 1.0)
			if distToEnd >= math.Abs(maxReach*1.1) {
				continue
			}
			if b.validity.PointValidity != nil && !b.validity.PointValidity(end.Lat, end.Lon) {
				continue
			}
			if b.validity.LineValidity != nil && !b.validity.LineValidity(end.Lat, end.Lon, p.Pos.Lat, p.Pos.Lon) {
				continue
			}
			if distToEnd < nearestDist {
				nearestDist = distToEnd
				nearestIdx = i
			}
		}

		var path []IsoPoint
		position := start
		if nearestIdx >= 0 {
			path = reconstructPath(isoc, len(isoc)-1, nearestIdx)
			position = path[len(path)-1].Pos
		}

		return RoutingResult{Time: arrival, Path: path, Isochrones: isoc, Position: position}, nil
	}

	if prevLog == nil || len(prevLog.Isochrones) == 0 {
		return RoutingResult{}, ErrWindAtLegStart
	}
	isoc := prevLog.Isochrones
	last := isoc[len(isoc)-1]
	minDist := math.Inf(1)
	minIdx := 0
	for i, p := range last {
		d := p.PointDistance(end)
		if d < minDist {
			minDist = d
			minIdx = i
		}
	}
	path := reconstructPath(isoc, len(isoc)-1, minIdx)
	position := path[len(path)-1].Pos

	return RoutingResult{Time: arrival, Path: path, Isochrones: isoc, Position: position}, nil
}

// reconstructPath walks prev_idx back from isochrones[layerIdx][pointIdx] to
// the leg seed and returns the path seed-to-terminal.
func reconstructPath(isoc Isochrones, layerIdx, pointIdx int) []IsoPoint {
	path := make([]IsoPoint, 0, layerIdx+1)
	idx := pointIdx
	for l := layerIdx; l >= 0; l-- {
		p := isoc[l][idx]
		path = append(path, p)
		idx = p.PrevIdx
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PolarRouter is the LinearBestIso strategy: boat speed comes from the
// polar diagram at the sampled (tws, |twa|).
type PolarRouter struct {
	baseRouter
}

// NewPolarRouter builds a polar-driven router.
func NewPolarRouter(polar *Polar, wind WindOracle, validity ValidityConfig) *PolarRouter {
	return &PolarRouter{baseRouter: newBaseRouter(polar, wind, validity, "polar")}
}

func (r *PolarRouter) Name() string { return "linearbestiso" }

// NextPoint implements PointFn: speed is read from the polar diagram.
func (r *PolarRouter) NextPoint(p Position, tws, twa, dtHours, brg float64) (Position, float64) {
	speed := r.polar.GetSpeed(tws, math.Abs(twa))
	lat, lon := ForwardPoint(p.Lat, p.Lon, speed*dtHours, brg, NM)
	return Position{Lat: lat, Lon: lon}, speed
}

func (r *PolarRouter) Route(prevLog *RoutingResult, t time.Time, dtHours float64, start, end Position) (RoutingResult, error) {
	return r.route(r, prevLog, t, dtHours, start, end)
}

// ShortestPathRouter motors at a fixed speed regardless of wind.
type ShortestPathRouter struct {
	baseRouter
}

// NewShortestPathRouter builds a fixed-speed router.
func NewShortestPathRouter(polar *Polar, wind WindOracle, validity ValidityConfig) *ShortestPathRouter {
	b := newBaseRouter(polar, wind, validity, "shortestpath")
	fixedSpeed := newRouterParam("fixed_speed", "Fixed speed (kn)", "float",
		"Set the fixed speed", 5.0, 1.0, 60.0, 0.1, 1)
	b.params["fixed_speed"] = &fixedSpeed
	return &ShortestPathRouter{baseRouter: b}
}

func (r *ShortestPathRouter) Name() string { return "shortestpath" }

// NextPoint implements PointFn: speed is the fixed_speed parameter, wind is
// only used to pick a heading (brg already reflects the wind-relative TWA
// sample from the kernel).
func (r *ShortestPathRouter) NextPoint(p Position, tws, twa, dtHours, brg float64) (Position, float64) {
	speed, _ := r.ParamValue("fixed_speed")
	lat, lon := ForwardPoint(p.Lat, p.Lon, speed*dtHours, brg, NM)
	return Position{Lat: lat, Lon: lon}, speed
}

func (r *ShortestPathRouter) Route(prevLog *RoutingResult, t time.Time, dtHours float64, start, end Position) (RoutingResult, error) {
	return r.route(r, prevLog, t, dtHours, start, end)
}
