package weatherrouting

import (
	"testing"
	"time"
)

func TestExpandIsochronesPrevIdxInRange(t *testing.T) {
	p := loadBavaria38(t)
	r := NewPolarRouter(p, constantWindOracle{twdDeg: 180, twsMs: 5}, ValidityConfig{})

	start := Position{Lat: 5, Lon: 38}
	end := Position{Lat: 5.2, Lon: 38.2}
	t0 := time.Date(2021, 4, 2, 12, 0, 0, 0, time.UTC)

	iso := NewSeedIsochrones(start, t0, PointDistance(end.Lat, end.Lon, start.Lat, start.Lon, NM))
	iso, err := ExpandIsochrones(t0.Add(time.Hour), 1.0, iso, end, r.wind, r, ValidityConfig{}, KernelOptions{})
	if err != nil {
		t.Fatalf("ExpandIsochrones: %v", err)
	}
	if len(iso) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(iso))
	}
	last := iso[len(iso)-1]
	if len(last) == 0 {
		t.Fatalf("expected a non-empty new layer")
	}
	prev := iso[len(iso)-2]
	for _, ip := range last {
		if ip.PrevIdx < 0 || ip.PrevIdx >= len(prev) {
			t.Fatalf("prev_idx %d out of range [0, %d)", ip.PrevIdx, len(prev))
		}
		if ip.NextWpDist > prev[ip.PrevIdx].NextWpDist {
			t.Fatalf("next_wp_dist did not improve: %v > %v", ip.NextWpDist, prev[ip.PrevIdx].NextWpDist)
		}
	}
}

func TestExpandIsochronesDeterministicSerialVsParallel(t *testing.T) {
	p := loadBavaria38(t)
	r := NewPolarRouter(p, constantWindOracle{twdDeg: 180, twsMs: 5}, ValidityConfig{})

	start := Position{Lat: 5, Lon: 38}
	end := Position{Lat: 5.2, Lon: 38.2}
	t0 := time.Date(2021, 4, 2, 12, 0, 0, 0, time.UTC)
	seed := func() Isochrones {
		return NewSeedIsochrones(start, t0, PointDistance(end.Lat, end.Lon, start.Lat, start.Lon, NM))
	}

	serial, err := ExpandIsochrones(t0.Add(time.Hour), 1.0, seed(), end, r.wind, r, ValidityConfig{}, KernelOptions{Parallel: false})
	if err != nil {
		t.Fatalf("serial ExpandIsochrones: %v", err)
	}
	parallel, err := ExpandIsochrones(t0.Add(time.Hour), 1.0, seed(), end, r.wind, r, ValidityConfig{}, KernelOptions{Parallel: true})
	if err != nil {
		t.Fatalf("parallel ExpandIsochrones: %v", err)
	}

	sl, pl := serial[len(serial)-1], parallel[len(parallel)-1]
	if len(sl) != len(pl) {
		t.Fatalf("serial/parallel layer size mismatch: %d vs %d", len(sl), len(pl))
	}
	for i := range sl {
		if sl[i].Pos != pl[i].Pos || sl[i].NextWpDist != pl[i].NextWpDist {
			t.Fatalf("serial/parallel mismatch at %d: %+v vs %+v", i, sl[i], pl[i])
		}
	}
}

func TestExpandIsochronesNoWind(t *testing.T) {
	p := loadBavaria38(t)
	t0 := time.Date(2021, 4, 2, 12, 0, 0, 0, time.UTC)
	wind := constantWindOracle{twdDeg: 180, twsMs: 5, outOfScope: t0}
	r := NewPolarRouter(p, wind, ValidityConfig{})

	start := Position{Lat: 5, Lon: 38}
	end := Position{Lat: 5.2, Lon: 38.2}
	iso := NewSeedIsochrones(start, t0, 1.0)

	_, err := ExpandIsochrones(t0, 1.0, iso, end, wind, r, ValidityConfig{}, KernelOptions{})
	if err != ErrNoWind {
		t.Fatalf("expected ErrNoWind, got %v", err)
	}
}

func TestExpandIsochronesValidityFiltering(t *testing.T) {
	p := loadBavaria38(t)
	wind := constantWindOracle{twdDeg: 180, twsMs: 5}
	start := Position{Lat: 5, Lon: 38}
	end := Position{Lat: 5.2, Lon: 38.2}
	t0 := time.Date(2021, 4, 2, 12, 0, 0, 0, time.UTC)

	obstacle := newCircleObstacle([]Position{start, end}, 1)
	validity := ValidityConfig{PointValidity: obstacle.pointValidity}
	r := NewPolarRouter(p, wind, validity)

	iso := NewSeedIsochrones(start, t0, PointDistance(end.Lat, end.Lon, start.Lat, start.Lon, NM))
	iso, err := ExpandIsochrones(t0.Add(time.Hour), 1.0, iso, end, wind, r, validity, KernelOptions{})
	if err != nil {
		t.Fatalf("ExpandIsochrones: %v", err)
	}
	for _, ip := range iso[len(iso)-1] {
		if !obstacle.pointValidity(ip.Pos.Lat, ip.Pos.Lon) {
			t.Fatalf("survivor %+v fails its own point_validity", ip)
		}
	}
}
