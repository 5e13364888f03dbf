package weatherrouting

import (
	"testing"
	"time"
)

func TestPathAsGeoJSONFeatureCount(t *testing.T) {
	t0 := time.Date(2021, 4, 2, 12, 0, 0, 0, time.UTC)
	path := []IsoPoint{
		{Pos: Position{Lat: 5, Lon: 38}, Time: t0, Twd: deg2rad(180), Tws: 10, Speed: 5, Brg: 10},
		{Pos: Position{Lat: 5.05, Lon: 38.05}, Time: t0.Add(time.Hour), Twd: deg2rad(180), Tws: 10, Speed: 5, Brg: 15},
		{Pos: Position{Lat: 5.1, Lon: 38.1}, Time: t0.Add(2 * time.Hour), Twd: deg2rad(180), Tws: 10, Speed: 5, Brg: 20},
	}

	gj := PathAsGeoJSON(path)
	if gj.Type != "FeatureCollection" {
		t.Fatalf("type = %q, want FeatureCollection", gj.Type)
	}
	if len(gj.Features) != len(path)+1 {
		t.Fatalf("feature count = %d, want %d", len(gj.Features), len(path)+1)
	}

	last := gj.Features[len(gj.Features)-1]
	if last.Geometry.Type != "LineString" {
		t.Fatalf("last feature geometry = %q, want LineString", last.Geometry.Type)
	}
	if last.Properties["end-timestamp"] != "2021-04-02 14:00:00" {
		t.Fatalf("end-timestamp = %v, want 2021-04-02 14:00:00", last.Properties["end-timestamp"])
	}
	if last.Properties["start-timestamp"] != "2021-04-02 12:00:00" {
		t.Fatalf("start-timestamp = %v, want 2021-04-02 12:00:00", last.Properties["start-timestamp"])
	}

	first := gj.Features[0]
	coords, ok := first.Geometry.Coordinates.([2]float64)
	if !ok {
		t.Fatalf("point coordinates not a [2]float64: %T", first.Geometry.Coordinates)
	}
	if coords[0] != path[0].Pos.Lon || coords[1] != path[0].Pos.Lat {
		t.Fatalf("coordinates = %v, want [lon, lat] = [%v, %v]", coords, path[0].Pos.Lon, path[0].Pos.Lat)
	}
}
