/*
Package polygon deals with straight-edged outlines: open polylines and
closed polygons, built knot by knot.

	pg := NullPolygon().Knot(P(0,0)).Knot(P(1,3)).Knot(P(3,0)).Cycle()

Polygons are stored as polyclip contours, which gives us bounding boxes
and, if ever needed, boolean operations for free.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"math"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/fitplot"
	"github.com/npillmayer/schuko/tracing"
)

// L traces to the graphics tracer.
func L() tracing.Trace {
	return tracing.Select("graphics")
}

// Polygon is a sequence of knots, either open or closed (cyclic).
// A cyclic polygon does not repeat its first knot; see Outline.
type Polygon struct {
	contour polyclip.Contour
	cycle   bool
}

// NullPolygon creates an empty polygon, to be extended by subsequent builder
// calls. Calling Cycle() or End() completes it.
func NullPolygon() *Polygon {
	return &Polygon{contour: polyclip.Contour{}}
}

// Knot adds a knot to a polygon. Part of builder functionality.
func (pg *Polygon) Knot(p fitplot.Pair) *Polygon {
	pg.contour.Add(polyclip.Point{X: p.X(), Y: p.Y()})
	return pg
}

// Knots adds a sequence of knots to a polygon. Part of builder functionality.
func (pg *Polygon) Knots(pts ...fitplot.Pair) *Polygon {
	for _, p := range pts {
		pg.Knot(p)
	}
	return pg
}

// End completes an open polygon. Part of builder functionality.
func (pg *Polygon) End() *Polygon {
	return pg
}

// Cycle closes a polygon. Part of builder functionality.
// If the last knot repeats the first one, it is dropped.
func (pg *Polygon) Cycle() *Polygon {
	if n := len(pg.contour); n > 1 && pg.contour[0] == pg.contour[n-1] {
		pg.contour = pg.contour[:n-1]
	}
	pg.cycle = true
	return pg
}

// Box creates a closed rectangle from two opposite corners.
// Knots run counter-clockwise, starting at the lower left corner.
func Box(a, b fitplot.Pair) *Polygon {
	llx, urx := math.Min(a.X(), b.X()), math.Max(a.X(), b.X())
	lly, ury := math.Min(a.Y(), b.Y()), math.Max(a.Y(), b.Y())
	return NullPolygon().Knot(fitplot.P(llx, lly)).Knot(fitplot.P(urx, lly)).
		Knot(fitplot.P(urx, ury)).Knot(fitplot.P(llx, ury)).Cycle()
}

// N returns the number of knots.
func (pg *Polygon) N() int {
	return len(pg.contour)
}

// IsCycle is a predicate: is this polygon closed?
func (pg *Polygon) IsCycle() bool {
	return pg.cycle
}

// Pt returns knot i. For cyclic polygons, i wraps around.
func (pg *Polygon) Pt(i int) fitplot.Pair {
	n := pg.N()
	if pg.cycle && n > 0 {
		i = ((i % n) + n) % n
	}
	p := pg.contour[i]
	return fitplot.P(p.X, p.Y)
}

// Outline returns the knots in drawing order. For cyclic polygons the first
// knot is repeated at the end.
func (pg *Polygon) Outline() []fitplot.Pair {
	pts := make([]fitplot.Pair, 0, pg.N()+1)
	for _, p := range pg.contour {
		pts = append(pts, fitplot.P(p.X, p.Y))
	}
	if pg.cycle && pg.N() > 0 {
		pts = append(pts, pts[0])
	}
	return pts
}

// BoundingBox returns the lower left and upper right corner of pg.
// Both are the origin for an empty polygon.
func (pg *Polygon) BoundingBox() (fitplot.Pair, fitplot.Pair) {
	if pg.N() == 0 {
		return fitplot.Origin, fitplot.Origin
	}
	r := pg.contour.BoundingBox()
	return fitplot.P(r.Min.X, r.Min.Y), fitplot.P(r.Max.X, r.Max.Y)
}

// Bounds returns the bounding box of all given polygons, ignoring empty ones.
// ok is false if there is no knot at all.
func Bounds(pgs ...*Polygon) (ll, ur fitplot.Pair, ok bool) {
	var all polyclip.Polygon
	for _, pg := range pgs {
		if pg == nil || pg.N() == 0 {
			continue
		}
		all.Add(pg.contour)
	}
	if len(all) == 0 {
		return fitplot.Origin, fitplot.Origin, false
	}
	r := all.BoundingBox()
	L().Debugf("bounds of %d outlines: %v", len(all), r)
	return fitplot.P(r.Min.X, r.Min.Y), fitplot.P(r.Max.X, r.Max.Y), true
}

// AsString returns a polygon as a (debugging) string, in MetaPost-like
// notation: (0,0) -- (1,3) -- (3,0) -- cycle
func AsString(pg *Polygon) string {
	var b strings.Builder
	for i := 0; i < pg.N(); i++ {
		if i > 0 {
			b.WriteString(" -- ")
		}
		b.WriteString(pg.Pt(i).String())
	}
	if pg.cycle {
		b.WriteString(" -- cycle")
	}
	return b.String()
}
