package weatherrouting

import (
	"math"
	"os"
	"testing"

	"github.com/gonum/floats"
)

func loadBavaria38(t *testing.T) *Polar {
	t.Helper()
	content, err := os.ReadFile("testdata/bavaria38.pol")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	p, err := ParsePolar(string(content))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return p
}

func TestGetSpeedSpotChecks(t *testing.T) {
	p := loadBavaria38(t)

	cases := []struct {
		tws, twaDeg, want float64
	}{
		{8, 60, 6.1},
		{8.3, 60, 6.205},
		{8.3, 64, 6.279},
		{2.2, 170, 1.1},
	}
	for _, c := range cases {
		got := p.GetSpeed(c.tws, deg2rad(c.twaDeg))
		if !floats.EqualWithinAbs(got, c.want, 1e-3) {
			t.Fatalf("GetSpeed(%v, %v deg) = %v, want %v", c.tws, c.twaDeg, got, c.want)
		}
	}
}

// GetSpeed is only symmetric across port/starboard when call sites pass
// |twa|, as the kernel and routers do; the table itself only spans
// TWA in [0, pi].
func TestGetSpeedSymmetric(t *testing.T) {
	p := loadBavaria38(t)
	twa := deg2rad(47)
	a := p.GetSpeed(9, math.Abs(twa))
	b := p.GetSpeed(9, math.Abs(-twa))
	if a != b {
		t.Fatalf("GetSpeed not symmetric across port/starboard: %v vs %v", a, b)
	}
}

func TestGetRoutageSpeedAndTwa(t *testing.T) {
	p := loadBavaria38(t)

	speed := p.GetRoutageSpeed(2.2, deg2rad(170))
	if !floats.EqualWithinAbs(speed, 1.2406897519211786, 1e-3) {
		t.Fatalf("GetRoutageSpeed(2.2, 170deg) = %v, want 1.2406897519211786", speed)
	}

	twa := p.GetTwaRoutage(2.2, deg2rad(170))
	if !floats.EqualWithinAbs(twa, 2.4434609527920568, 1e-3) {
		t.Fatalf("GetTwaRoutage(2.2, 170deg) = %v, want 2.4434609527920568", twa)
	}
}

func TestGetReaching(t *testing.T) {
	p := loadBavaria38(t)
	maxSpeed, twa := p.GetReaching(6.1)

	if !floats.EqualWithinAbs(maxSpeed, 5.355, 1e-3) {
		t.Fatalf("GetReaching(6.1) speed = %v, want 5.355", maxSpeed)
	}
	if !floats.EqualWithinAbs(twa, 1.3962634, 1e-6) {
		t.Fatalf("GetReaching(6.1) twa = %v, want 1.3962634", twa)
	}
}

func TestPolarRoundTrip(t *testing.T) {
	p := loadBavaria38(t)
	s := p.String()

	p2, err := ParsePolar(s)
	if err != nil {
		t.Fatalf("round-trip parse: %v", err)
	}

	if len(p.tws) != len(p2.tws) || len(p.twa) != len(p2.twa) {
		t.Fatalf("round-trip dimension mismatch")
	}
	for i := range p.twa {
		wantDeg := math.Round(rad2deg(p.twa[i]))
		gotDeg := math.Round(rad2deg(p2.twa[i]))
		if wantDeg != gotDeg {
			t.Fatalf("round-trip twa[%d] = %v, want %v", i, gotDeg, wantDeg)
		}
		for j := range p.speed[i] {
			// One-decimal rounding moves a speed by at most half of 0.1.
			if !floats.EqualWithinAbs(p.speed[i][j], p2.speed[i][j], 0.05+1e-9) {
				t.Fatalf("round-trip speed[%d][%d] = %v, want %v", i, j, p2.speed[i][j], p.speed[i][j])
			}
		}
	}
}

func TestPolarValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		code    string
	}{
		{"empty file", "", ErrEmptyFile},
		{"wind speed not numeric", "TWA\\TWS\tfoo\tbar\n0\t1.0\t2.0\n", ErrWindSpeedNotNumeric},
		{"wind speeds not increasing", "TWA\\TWS\t10\t6\n0\t1.0\t2.0\n", ErrWindSpeedsNotIncreasing},
		{"column count mismatch", "TWA\\TWS\t6\t8\n0\t1.0\n", ErrColumnCountMismatch},
		{"twa out of range", "TWA\\TWS\t6\t8\n200\t1.0\t2.0\n", ErrTwaOutOfRange},
		{"twa not numeric", "TWA\\TWS\t6\t8\nfoo\t1.0\t2.0\n", ErrTwaNotNumeric},
		{"empty value", "TWA\\TWS\t6\t8\n0\t-\t2.0\n", ErrEmptyValue},
		{"negative speed", "TWA\\TWS\t6\t8\n0\t-1.0\t2.0\n", ErrNegativeSpeed},
		{"speed not numeric", "TWA\\TWS\t6\t8\n0\tfoo\t2.0\n", ErrSpeedNotNumeric},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParsePolar(c.content)
			if err == nil {
				t.Fatalf("expected error %s, got nil", c.code)
			}
			pe, ok := err.(*PolarValidationError)
			if !ok {
				t.Fatalf("expected *PolarValidationError, got %T", err)
			}
			if pe.Code != c.code {
				t.Fatalf("expected code %s, got %s", c.code, pe.Code)
			}
		})
	}
}
