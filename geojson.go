package weatherrouting

// GeoJSONFeature is a minimal GeoJSON Feature: either a Point carrying one
// IsoPoint's telemetry, or the trailing LineString summarizing the whole
// path.
type GeoJSONFeature struct {
	Type       string                 `json:"type"`
	ID         int                    `json:"id"`
	Geometry   GeoJSONGeometry        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// GeoJSONGeometry is a Point or LineString geometry; coordinates are always
// [lon, lat] or a list of such pairs.
type GeoJSONGeometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// GeoJSONFeatureCollection is the emitted document: one Point feature per
// path point plus a trailing LineString summarizing the leg(s).
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// PathAsGeoJSON renders a reconstructed path as a FeatureCollection: one
// Point Feature per IsoPoint with {timestamp, twd (deg), tws, knots,
// heading} properties, followed by a LineString Feature carrying
// {start-timestamp, end-timestamp}. path must be non-empty.
func PathAsGeoJSON(path []IsoPoint) GeoJSONFeatureCollection {
	feats := make([]GeoJSONFeature, 0, len(path)+1)
	route := make([][2]float64, 0, len(path))

	for order, wp := range path {
		feats = append(feats, GeoJSONFeature{
			Type: "Feature",
			ID:   order,
			Geometry: GeoJSONGeometry{
				Type:        "Point",
				Coordinates: [2]float64{wp.Pos.Lon, wp.Pos.Lat},
			},
			Properties: map[string]interface{}{
				"timestamp": wp.Time.Format("2006-01-02 15:04:05"),
				"twd":       rad2deg(wp.Twd),
				"tws":       wp.Tws,
				"knots":     wp.Speed,
				"heading":   wp.Brg,
			},
		})
		route = append(route, [2]float64{wp.Pos.Lon, wp.Pos.Lat})
	}

	feats = append(feats, GeoJSONFeature{
		Type: "Feature",
		ID:   999,
		Geometry: GeoJSONGeometry{
			Type:        "LineString",
			Coordinates: route,
		},
		Properties: map[string]interface{}{
			"start-timestamp": path[0].Time.Format("2006-01-02 15:04:05"),
			"end-timestamp":   path[len(path)-1].Time.Format("2006-01-02 15:04:05"),
		},
	})

	return GeoJSONFeatureCollection{Type: "FeatureCollection", Features: feats}
}
