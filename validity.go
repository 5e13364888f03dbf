package weatherrouting

// PointValidity reports whether a single point is navigable (e.g. not on
// land).
type PointValidity func(lat, lon float64) bool

// LineValidity reports whether the segment between two points is entirely
// navigable.
type LineValidity func(lat1, lon1, lat2, lon2 float64) bool

// PointsValidity is the batched form of PointValidity: one boolean per
// input point, aligned by index.
type PointsValidity func(points []Position) []bool

// LinesValidity is the batched form of LineValidity: one boolean per input
// segment, aligned by index. Each segment is (lat1, lon1, lat2, lon2).
type LinesValidity func(segments [][4]float64) []bool
