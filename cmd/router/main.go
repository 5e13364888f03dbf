package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	weatherrouting "github.com/dakk/libweatherrouting"
	"github.com/soniakeys/meeus/julian"
	"github.com/spf13/viper"
)

// This tool reads a scenario TOML file and runs a leg-by-leg route to
// completion, emitting the reconstructed path as GeoJSON on stdout.

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "routing scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "log per-step progress")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: %s", scenario, err)
	}

	polarPath := viper.GetString("polar.file")
	polarBytes, err := os.ReadFile(polarPath)
	if err != nil {
		log.Fatalf("reading polar file %q: %s", polarPath, err)
	}
	polar, err := weatherrouting.ParsePolar(string(polarBytes))
	if err != nil {
		log.Fatalf("parsing polar file %q: %s", polarPath, err)
	}

	track := readTrack("track")
	if len(track) < 2 {
		log.Fatal("track must have at least two points")
	}

	startDT := confReadJDEorTime("mission.start")

	wind := weatherrouting.NewSyntheticWindOracle(
		viper.GetFloat64("wind.twd"),
		viper.GetFloat64("wind.tws"),
		viper.GetFloat64("wind.fuzziness"),
		confReadOptionalTime("wind.out_of_scope"),
	)

	validity := readValidity(track)

	algoName := viper.GetString("routing.algorithm")
	var router weatherrouting.Router
	for _, a := range weatherrouting.ListRoutingAlgorithms() {
		if a.Name == algoName {
			router = a.Builder(polar, wind, validity)
		}
	}
	if router == nil {
		log.Fatalf("unknown routing algorithm %q", algoName)
	}
	if viper.IsSet("routing.min_increase") {
		if err := router.SetParam("min_increase", viper.GetFloat64("routing.min_increase")); err != nil {
			log.Fatalf("setting min_increase: %s", err)
		}
	}
	if viper.IsSet("routing.fixed_speed") {
		if err := router.SetParam("fixed_speed", viper.GetFloat64("routing.fixed_speed")); err != nil {
			log.Fatalf("setting fixed_speed: %s", err)
		}
	}

	dtHours := viper.GetFloat64("routing.dt_hours")
	if dtHours == 0 {
		dtHours = 1.0
	}

	driver := weatherrouting.NewRoutingDriver(router, track, startDT, nil)

	for !driver.End {
		res, err := driver.Step(dtHours)
		if err != nil {
			log.Fatalf("step %d: %s", driver.Steps, err)
		}
		if verbose {
			log.Printf("[info] step %d: progress=%.1f%% time=%s", driver.Steps, res.Progress, res.Time)
		}
	}

	if len(driver.Path) == 0 {
		log.Fatal("routing finished with an empty path")
	}

	gj := weatherrouting.PathAsGeoJSON(driver.Path)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(gj); err != nil {
		log.Fatalf("encoding geojson: %s", err)
	}
}

func readTrack(key string) []weatherrouting.Position {
	raw := viper.Get(key)
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	track := make([]weatherrouting.Position, 0, len(items))
	for _, item := range items {
		pair, ok := item.([]interface{})
		if !ok || len(pair) != 2 {
			continue
		}
		lat, _ := pair[0].(float64)
		lon, _ := pair[1].(float64)
		track = append(track, weatherrouting.Position{Lat: lat, Lon: lon})
	}
	return track
}

func readValidity(track []weatherrouting.Position) weatherrouting.ValidityConfig {
	obstacleType := viper.GetString("obstacle.type")
	factor := viper.GetFloat64("obstacle.factor")
	if obstacleType == "" || factor == 0 {
		return weatherrouting.ValidityConfig{}
	}
	obstacle := weatherrouting.NewCircleObstacle(track, factor)
	switch obstacleType {
	case "point":
		return weatherrouting.ValidityConfig{PointValidity: obstacle.PointValidity}
	case "line":
		return weatherrouting.ValidityConfig{LineValidity: obstacle.LineValidity}
	default:
		return weatherrouting.ValidityConfig{}
	}
}

func confReadJDEorTime(key string) (dt time.Time) {
	jde := viper.GetFloat64(key)
	if jde == 0 {
		dt = viper.GetTime(key)
	} else {
		dt = julian.JDToTime(jde)
	}
	if dt == (time.Time{}) {
		log.Fatalf("[error] could not parse date time in %q", key)
	}
	return
}

func confReadOptionalTime(key string) time.Time {
	if !viper.IsSet(key) {
		return time.Time{}
	}
	return viper.GetTime(key)
}
