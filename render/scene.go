/*
Package render turns a fit record into a plot image.

Rendering happens in two steps. NewScene collects everything to be drawn as
flat 2D series: the input points, the fitted curve, the orientation
indicator (if the record has a position/tangent) and, for 3D records, the
projected bounding cuboid of the data. Scene.Plot then maps the series onto a
gonum plot. Render is the single entry point combining both and writing the
image.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package render

import (
	"fmt"

	"github.com/npillmayer/fitplot"
	"github.com/npillmayer/fitplot/fitrec"
	"github.com/npillmayer/fitplot/indicator"
	"github.com/npillmayer/fitplot/polygon"
	"github.com/npillmayer/fitplot/view"
	"github.com/npillmayer/schuko/tracing"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'graphics'
func tracer() tracing.Trace {
	return tracing.Select("graphics")
}

// Kind tells how a series is drawn.
type Kind int8

// Kinds of series.
const (
	Points  Kind = iota // unconnected glyphs
	Curve               // connected line
	Marker              // indicator geometry
	Guide               // auxiliary lines, not shown in the legend
)

func (k Kind) String() string {
	switch k {
	case Points:
		return "points"
	case Curve:
		return "curve"
	case Marker:
		return "marker"
	case Guide:
		return "guide"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Series is a named sequence of 2D points with a drawing kind.
type Series struct {
	Name    string
	Kind    Kind
	Outline *polygon.Polygon
}

// Scene is everything to draw for one record, already projected to 2D.
type Scene struct {
	Title  string
	Dim    int
	Series []Series
	Min    fitplot.Pair // lower left of the data extent
	Max    fitplot.Pair // upper right of the data extent
	cfg    fitplot.Config
}

// NewScene builds the scene for rec. A record with a degenerate tangent
// yields an error wrapping indicator.ErrDegenerateTangent.
func NewScene(rec *fitrec.Record, cfg fitplot.Config) (*Scene, error) {
	if rec == nil {
		return nil, fmt.Errorf("render: no record")
	}
	sc := &Scene{Title: cfg.Title, Dim: rec.Dim, cfg: cfg}
	if sc.Title == "" {
		sc.Title = rec.Summary()
	}
	cam := view.Camera{Elevation: cfg.Elevation, Azimuth: cfg.Azimuth}
	project := func(vs []vec3.T) []fitplot.Pair {
		if rec.Dim == 3 {
			return cam.ProjectAll(vs)
		}
		pts := make([]fitplot.Pair, len(vs))
		for i, v := range vs {
			pts[i] = fitplot.P(v[0], v[1])
		}
		return pts
	}
	in, out := vectors(rec.In), vectors(rec.Out)
	if rec.Dim == 3 {
		if lo, hi, ok := view.Extent(in, out); ok {
			for _, e := range view.BoxEdges(lo, hi) {
				sc.add("", Guide, polygon.NullPolygon().Knots(project(e[:])...).End())
			}
		}
	}
	if len(in) > 0 {
		sc.add("input", Points, polygon.NullPolygon().Knots(project(in)...).End())
	}
	if len(out) > 0 {
		sc.add("fit", Curve, polygon.NullPolygon().Knots(project(out)...).End())
	}
	if rec.HasIndicator() {
		ind, err := indicator.Build(*rec.PosTangent, cfg.HalfLength)
		if err != nil {
			return nil, fmt.Errorf("render: orientation indicator: %w", err)
		}
		sc.add(ind.Tangent.Name, Marker, polygon.NullPolygon().Knots(project(ind.Tangent.Points)...).End())
		normal := polygon.NullPolygon().Knots(project(ind.Normal.Points)...)
		if ind.Dim == 3 {
			normal.Cycle()
		}
		sc.add(ind.Normal.Name, Marker, normal.End())
	}
	outlines := make([]*polygon.Polygon, len(sc.Series))
	for i, s := range sc.Series {
		outlines[i] = s.Outline
	}
	sc.Min, sc.Max, _ = polygon.Bounds(outlines...)
	tracer().Infof("scene %q: %d series, extent %v – %v", sc.Title, len(sc.Series), sc.Min, sc.Max)
	return sc, nil
}

func (sc *Scene) add(name string, kind Kind, pg *polygon.Polygon) {
	sc.Series = append(sc.Series, Series{Name: name, Kind: kind, Outline: pg})
}

// Lookup returns the first series with the given name.
func (sc *Scene) Lookup(name string) (Series, bool) {
	for _, s := range sc.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}

func vectors(pts []fitrec.Point) []vec3.T {
	vs := make([]vec3.T, len(pts))
	for i, p := range pts {
		vs[i] = p.Vec3()
	}
	return vs
}
