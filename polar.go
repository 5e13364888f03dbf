package weatherrouting

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// vmgKey is the memoization key for the VMG cache: (tws, twaRef) pairs are
// compared as exact float64 values, matching the source's dict
// lookup on the same floats used to query it.
type vmgKey struct {
	tws, twaRef float64
}

type vmgResult struct {
	maxVmg, twaAtMax float64
}

// Polar is a boat performance model: boat speed as a function of true wind
// speed (knots) and true wind angle (radians, [0, pi]). It is immutable
// after construction except for the VMG memoization cache.
type Polar struct {
	tws   []float64 // knots, ascending
	twa   []float64 // radians, ascending, [0, pi]
	speed [][]float64 // speed[twaIdx][twsIdx], knots

	vmgCache map[vmgKey]vmgResult
}

// ParsePolar validates and parses the whitespace-delimited polar text
// format described in the polar file spec: a header row "TWA\TWS" followed
// by ascending TWS columns, then one row per TWA with matching speeds.
// Validation runs before any Polar is constructed.
func ParsePolar(content string) (*Polar, error) {
	if err := validatePolarText(content); err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")

	header := whitespaceRe.Split(strings.TrimSpace(lines[0]), -1)
	tws := make([]float64, 0, len(header)-1)
	for _, f := range header[1:] {
		v, _ := strconv.ParseFloat(f, 64)
		tws = append(tws, v)
	}

	p := &Polar{
		tws:      tws,
		twa:      make([]float64, 0, len(lines)-1),
		speed:    make([][]float64, 0, len(lines)-1),
		vmgCache: make(map[vmgKey]vmgResult),
	}

	for _, line := range lines[1:] {
		fields := whitespaceRe.Split(strings.TrimSpace(line), -1)
		twaDeg, _ := strconv.ParseFloat(fields[0], 64)
		p.twa = append(p.twa, deg2rad(twaDeg))

		row := make([]float64, 0, len(fields)-1)
		for _, f := range fields[1:] {
			v, _ := strconv.ParseFloat(f, 64)
			row = append(row, v)
		}
		p.speed = append(p.speed, row)
	}

	return p, nil
}

func validatePolarText(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return &PolarValidationError{Code: ErrEmptyFile}
	}
	lines := strings.Split(trimmed, "\n")

	if err := validatePolarHeader(lines[0]); err != nil {
		return err
	}

	headerParts := whitespaceRe.Split(strings.TrimSpace(lines[0]), -1)
	expectedColumns := len(headerParts)

	for _, line := range lines[1:] {
		if err := validatePolarDataRow(line, expectedColumns); err != nil {
			return err
		}
	}
	return nil
}

func validatePolarHeader(header string) error {
	parts := whitespaceRe.Split(strings.TrimSpace(header), -1)
	tws := make([]float64, 0, len(parts)-1)
	for _, f := range parts[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return &PolarValidationError{Code: ErrWindSpeedNotNumeric}
		}
		tws = append(tws, v)
	}
	for i := 0; i < len(tws)-1; i++ {
		if tws[i] > tws[i+1] {
			return &PolarValidationError{Code: ErrWindSpeedsNotIncreasing}
		}
	}
	return nil
}

func validatePolarDataRow(line string, expectedColumns int) error {
	trimmed := strings.TrimSpace(line)
	parts := whitespaceRe.Split(trimmed, -1)

	if len(parts) == 1 && parts[0] == "" {
		return &PolarValidationError{Code: ErrEmptyLine}
	}
	if len(parts) != expectedColumns {
		return &PolarValidationError{Code: ErrColumnCountMismatch}
	}

	twa, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return &PolarValidationError{Code: ErrTwaNotNumeric}
	}
	if twa < 0 || twa > 180 {
		return &PolarValidationError{Code: ErrTwaOutOfRange}
	}

	for _, s := range parts[1:] {
		switch s {
		case "", "-", "NaN", "NULL":
			return &PolarValidationError{Code: ErrEmptyValue}
		}
		speed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return &PolarValidationError{Code: ErrSpeedNotNumeric}
		}
		if speed < 0 {
			return &PolarValidationError{Code: ErrNegativeSpeed}
		}
	}
	return nil
}

// String renders the stored polar in the polar text format: TWS as integers,
// TWA rounded to the nearest degree, speeds to one decimal. Parsing the
// result reproduces the table exactly only when its values already fit
// that precision; finer speeds come back rounded to one decimal.
func (p *Polar) String() string {
	var b strings.Builder
	b.WriteString("TWA\\TWS")
	for _, t := range p.tws {
		fmt.Fprintf(&b, "\t%.0f", t)
	}
	b.WriteString("\n")

	for i, twa := range p.twa {
		fmt.Fprintf(&b, "%.0f", math.Round(rad2deg(twa)))
		for _, s := range p.speed[i] {
			fmt.Fprintf(&b, "\t%.1f", s)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// GetSpeed returns the interpolated boat speed in knots for the given true
// wind speed (knots) and true wind angle (radians). TWS above the last
// column clamps to the last column; TWS below the first column
// extrapolates using the first two columns (not a clamp) to match the
// original bracket-selection behavior, which downstream VMG computations
// depend on.
func (p *Polar) GetSpeed(tws, twa float64) float64 {
	tws1, tws2 := 0, 0
	for k := 0; k < len(p.tws); k++ {
		if tws >= p.tws[k] {
			tws1 = k
		}
	}
	for k := len(p.tws) - 1; k > 0; k-- {
		if tws <= p.tws[k] {
			tws2 = k
		}
	}
	if tws1 > tws2 {
		tws2 = len(p.tws) - 1
	}

	twa1, twa2 := 0, 0
	for k := 0; k < len(p.twa); k++ {
		if twa >= p.twa[k] {
			twa1 = k
		}
	}
	for k := len(p.twa) - 1; k > 0; k-- {
		if twa <= p.twa[k] {
			twa2 = k
		}
	}

	speed1 := p.speed[twa1][tws1]
	speed2 := p.speed[twa2][tws1]
	speed3 := p.speed[twa1][tws2]
	speed4 := p.speed[twa2][tws2]

	var speed12, speed34 float64
	if twa1 != twa2 {
		frac := (twa - p.twa[twa1]) / (p.twa[twa2] - p.twa[twa1])
		speed12 = speed1 + (speed2-speed1)*frac
		speed34 = speed3 + (speed4-speed3)*frac
	} else {
		speed12 = speed1
		speed34 = speed3
	}

	if tws1 != tws2 {
		frac := (tws - p.tws[tws1]) / (p.tws[tws2] - p.tws[tws1])
		return speed12 + (speed34-speed12)*frac
	}
	return speed12
}

// GetReaching scans TWA in {0, 1, ..., 180} degrees and returns the peak
// speed and the angle (radians) at which it occurs, for the given TWS.
func (p *Polar) GetReaching(tws float64) (maxSpeed, twaAtMax float64) {
	for twaDeg := 0; twaDeg <= 180; twaDeg++ {
		twa := deg2rad(float64(twaDeg))
		speed := p.GetSpeed(tws, twa)
		if speed > maxSpeed {
			maxSpeed = speed
			twaAtMax = twa
		}
	}
	return
}

// GetMaxVmgTwa searches alpha in [max(0, twaRef-pi/2), min(pi, twaRef+pi/2)]
// in 1-degree steps, maximizing speed(tws, alpha) * cos(alpha - twaRef). A
// candidate only replaces the running maximum if it beats it by more than
// 1e-3 (the original's "sticky" tolerance). Results are memoized by
// (tws, twaRef).
func (p *Polar) GetMaxVmgTwa(tws, twaRef float64) (maxVmg, twaAtMax float64) {
	key := vmgKey{tws, twaRef}
	if cached, ok := p.vmgCache[key]; ok {
		return cached.maxVmg, cached.twaAtMax
	}

	twaMin := math.Max(0, twaRef-math.Pi/2)
	twaMax := math.Min(math.Pi, twaRef+math.Pi/2)

	maxVmg = -1.0
	for alfa := twaMin; alfa < twaMax; alfa += deg2rad(1) {
		v := p.GetSpeed(tws, alfa)
		vmg := v * math.Cos(alfa-twaRef)
		if vmg-maxVmg > 1e-3 {
			maxVmg = vmg
			twaAtMax = alfa
		}
	}

	p.vmgCache[key] = vmgResult{maxVmg, twaAtMax}
	return
}

// GetMaxVmgUp returns the best upwind VMG and its TWA for the given TWS.
func (p *Polar) GetMaxVmgUp(tws float64) (vmg, twa float64) {
	return p.GetMaxVmgTwa(tws, 0)
}

// GetMaxVmgDown returns the best downwind VMG (negative) and its TWA for
// the given TWS.
func (p *Polar) GetMaxVmgDown(tws float64) (vmg, twa float64) {
	v, t := p.GetMaxVmgTwa(tws, math.Pi)
	return -v, t
}

// GetRoutageSpeed clamps the requested TWA to the [twaUp, twaDown] VMG-bound
// band: inside the band it's GetSpeed; outside, it's projected via
// vmg / cos(twa).
func (p *Polar) GetRoutageSpeed(tws, twa float64) float64 {
	vmgUp, twaUp := p.GetMaxVmgUp(tws)
	vmgDown, twaDown := p.GetMaxVmgDown(tws)

	if twa >= twaUp && twa <= twaDown {
		return p.GetSpeed(tws, twa)
	}
	if twa < twaUp {
		return vmgUp / math.Cos(twa)
	}
	return vmgDown / math.Cos(twa)
}

// GetTwaRoutage returns the TWA clamped to the [twaUp, twaDown] VMG-bound
// band.
func (p *Polar) GetTwaRoutage(tws, twa float64) float64 {
	_, twaUp := p.GetMaxVmgUp(tws)
	_, twaDown := p.GetMaxVmgDown(tws)

	if twa >= twaUp && twa <= twaDown {
		return twa
	}
	if twa < twaUp {
		return twaUp
	}
	return twaDown
}
