package fitplot

import (
	"strconv"

	"github.com/npillmayer/schuko"
)

// Configuration keys understood by ConfigFrom.
const (
	KeyHalfLength = "plot.halflength"
	KeyOutput     = "plot.output"
	KeyWidth      = "plot.width"
	KeyHeight     = "plot.height"
	KeyTitle      = "plot.title"
	KeyElevation  = "plot.elevation"
	KeyAzimuth    = "plot.azimuth"
	KeyGrid       = "plot.grid"
	KeyShow       = "plot.show"
)

// Config collects the parameters of a plotting run. All fields have a
// usable default, see DefaultConfig.
type Config struct {
	HalfLength float64 // half-length h of indicator geometry, in data units
	Output     string  // output file; "-" is stdout
	Width      float64 // image width in inches
	Height     float64 // image height in inches
	Title      string  // plot title; empty derives one from the record
	Elevation  float64 // view elevation for 3D records, degrees
	Azimuth    float64 // view azimuth for 3D records, degrees
	Grid       bool    // draw a grid
	Show       bool    // hand the image to a viewer after writing
}

// DefaultConfig returns the configuration used when nothing is set:
// h = 0.1, output to plot.png, a 6×6 inch image and the customary 3D view
// of 30° elevation and −60° azimuth.
func DefaultConfig() Config {
	return Config{
		HalfLength: 0.1,
		Output:     "plot.png",
		Width:      6,
		Height:     6,
		Elevation:  30,
		Azimuth:    -60,
	}
}

// ConfigFrom reads a Config from an application configuration. Keys not set
// in conf keep their default; values which do not parse are traced and
// ignored.
func ConfigFrom(conf schuko.Configuration) Config {
	c := DefaultConfig()
	if conf == nil {
		return c
	}
	c.HalfLength = getFloat(conf, KeyHalfLength, c.HalfLength)
	c.Width = getSize(conf, KeyWidth, c.Width)
	c.Height = getSize(conf, KeyHeight, c.Height)
	c.Elevation = getFloat(conf, KeyElevation, c.Elevation)
	c.Azimuth = getFloat(conf, KeyAzimuth, c.Azimuth)
	if conf.IsSet(KeyOutput) {
		if out := conf.GetString(KeyOutput); out != "" {
			c.Output = out
		}
	}
	if conf.IsSet(KeyTitle) {
		c.Title = conf.GetString(KeyTitle)
	}
	if conf.IsSet(KeyGrid) {
		c.Grid = conf.GetBool(KeyGrid)
	}
	if conf.IsSet(KeyShow) {
		c.Show = conf.GetBool(KeyShow)
	}
	return c
}

func getFloat(conf schuko.Configuration, key string, deflt float64) float64 {
	if !conf.IsSet(key) {
		return deflt
	}
	s := conf.GetString(key)
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || !IsFinite(x) {
		tracer().Errorf("configuration %s = %q is not a number, using %g", key, s, deflt)
		return deflt
	}
	return x
}

// getSize reads an image dimension, which has to be positive.
func getSize(conf schuko.Configuration, key string, deflt float64) float64 {
	x := getFloat(conf, key, deflt)
	if x <= 0 {
		tracer().Errorf("configuration %s = %g is not a positive size, using %g", key, x, deflt)
		return deflt
	}
	return x
}
