package weatherrouting

import "time"

// Wind is a single wind reading: true wind direction in degrees and true
// wind speed in metres per second, as returned by a WindOracle.
type Wind struct {
	TwdDeg float64
	TwsMs  float64
}

// WindOracle abstracts a time-and-space-varying wind field. WindAt returns
// the wind at the given time and position, or ok=false if t/lat/lon falls
// outside the oracle's temporal or geographic scope. Implementations must
// be safe for concurrent invocation when the kernel's parallel expansion
// is enabled.
type WindOracle interface {
	WindAt(t time.Time, lat, lon float64) (Wind, bool)
}
