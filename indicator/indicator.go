/*
Package indicator constructs orientation indicators: small pieces of
auxiliary geometry which show the direction of a curve at one of its points.

Given a point on a curve and the curve's tangent there, an indicator consists
of a tangent segment of length h·|tangent| starting at the point, plus

  - in 2D: a normal segment of length 2h centered at the point,
  - in 3D: a closed square outline of side 2h, centered at the point and
    lying in the plane normal to the tangent.

h is the half-length of the indicator, given in data units.

All functions are pure. A tangent which is zero, not finite or (in 3D)
parallel to a coordinate axis does not yield a well defined normal frame and
is rejected with ErrDegenerateTangent.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package indicator

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/fitplot"
	"github.com/npillmayer/fitplot/fitrec"
	"github.com/npillmayer/schuko/tracing"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'indicator'
func tracer() tracing.Trace {
	return tracing.Select("indicator")
}

// ErrDegenerateTangent indicates a tangent which does not define a normal
// direction: the zero vector, a non-finite vector, or a 3D tangent with only
// a single non-zero component.
var ErrDegenerateTangent = errors.New("degenerate tangent")

// Indicator2D is an orientation indicator in the plane.
type Indicator2D struct {
	Tangent [2]fitplot.Pair // point, point + h·tangent
	Normal  [2]fitplot.Pair // point − h·n, point + h·n
	N       fitplot.Pair    // unit normal n
}

// Build2D constructs the indicator for point and tangent with half-length h.
//
// The normal is derived from whichever tangent component is larger in
// magnitude, so the division never involves the smaller (possibly zero)
// component:
//
//	|tx| > |ty|:  n = unit(−ty/tx, 1)
//	otherwise:    n = unit(1, −tx/ty)
func Build2D(point, tangent fitplot.Pair, h float64) (Indicator2D, error) {
	var ind Indicator2D
	tx, ty := tangent.F()
	if !tangent.IsFinite() || (tx == 0 && ty == 0) {
		return ind, fmt.Errorf("%w: 2D tangent %v", ErrDegenerateTangent, tangent)
	}
	var n fitplot.Pair
	if math.Abs(tx) > math.Abs(ty) {
		n = fitplot.P(-ty/tx, 1)
	} else {
		n = fitplot.P(1, -tx/ty)
	}
	n, ok := n.Unit()
	if !ok {
		return ind, fmt.Errorf("%w: no normal for 2D tangent %v", ErrDegenerateTangent, tangent)
	}
	hn := n.Scaled(h)
	ind.N = n
	ind.Tangent = [2]fitplot.Pair{point, point.Shifted(tangent.Scaled(h))}
	ind.Normal = [2]fitplot.Pair{point.Shifted(-hn), point.Shifted(hn)}
	tracer().Debugf("2D indicator at %v: normal %v", point, n)
	return ind, nil
}

// Indicator3D is an orientation indicator in space.
type Indicator3D struct {
	Tangent [2]vec3.T // point, point + h·tangent
	Quad    [5]vec3.T // normal square outline, first corner repeated
	Frame   [3]vec3.T // t0, t1, t2; t1 and t2 span the normal plane
}

// Build3D constructs the indicator for point and tangent with half-length h.
//
// With mi the index of the tangent's largest component (first one wins on
// ties), the frame is
//
//	t0 = unit(tangent with component mi set to 0)
//	t1 = unit(tangent × t0)
//	t2 = unit(tangent × t1)
//
// and the corners of the normal square are point ± h·t1 ± h·t2, visited in
// the order (−,−), (+,−), (+,+), (−,+).
func Build3D(point, tangent vec3.T, h float64) (Indicator3D, error) {
	var ind Indicator3D
	for _, c := range tangent {
		if !fitplot.IsFinite(c) {
			return ind, fmt.Errorf("%w: 3D tangent %v", ErrDegenerateTangent, tangent)
		}
	}
	mi := 0
	for i := 1; i < 3; i++ {
		if math.Abs(tangent[i]) > math.Abs(tangent[mi]) {
			mi = i
		}
	}
	if tangent[mi] == 0 {
		return ind, fmt.Errorf("%w: 3D tangent %v", ErrDegenerateTangent, tangent)
	}
	// only the direction matters; scaling by the largest component keeps
	// squares of very large or very small tangents representable
	m := math.Abs(tangent[mi])
	dir := vec3.T{tangent[0] / m, tangent[1] / m, tangent[2] / m}
	t0 := dir
	t0[mi] = 0
	t0, ok := unit(t0)
	if !ok {
		return ind, fmt.Errorf("%w: 3D tangent %v is parallel to axis %d", ErrDegenerateTangent, tangent, mi)
	}
	c := vec3.Cross(&dir, &t0)
	t1, ok := unit(c)
	if !ok {
		return ind, fmt.Errorf("%w: no normal for 3D tangent %v", ErrDegenerateTangent, tangent)
	}
	c = vec3.Cross(&dir, &t1)
	t2, ok := unit(c)
	if !ok {
		return ind, fmt.Errorf("%w: no binormal for 3D tangent %v", ErrDegenerateTangent, tangent)
	}
	ind.Frame = [3]vec3.T{t0, t1, t2}
	ht1, ht2 := t1.Scaled(h), t2.Scaled(h)
	signs := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for i, s := range signs {
		ind.Quad[i] = vec3.T{
			point[0] + s[0]*ht1[0] + s[1]*ht2[0],
			point[1] + s[0]*ht1[1] + s[1]*ht2[1],
			point[2] + s[0]*ht1[2] + s[1]*ht2[2],
		}
	}
	ind.Quad[4] = ind.Quad[0]
	ht := tangent.Scaled(h)
	ind.Tangent = [2]vec3.T{point, vec3.Add(&point, &ht)}
	tracer().Debugf("3D indicator at %v: t1 = %v, t2 = %v", point, t1, t2)
	return ind, nil
}

// --- Dimension independent view --------------------------------------------

// Polyline is a named sequence of 3D points. 2D geometry has z = 0.
type Polyline struct {
	Name   string
	Points []vec3.T
}

// Indicator is the dimension independent form of an indicator, as consumed
// by renderers: a tangent polyline and a normal polyline (segment or closed
// outline).
type Indicator struct {
	Dim     int
	Tangent Polyline
	Normal  Polyline
}

// Polylines returns the indicator's geometry, tangent first.
func (ind Indicator) Polylines() []Polyline {
	return []Polyline{ind.Tangent, ind.Normal}
}

// Build constructs the indicator for a decoded position/tangent pair,
// dispatching on its dimension.
func Build(pt fitrec.PosTangent, h float64) (Indicator, error) {
	switch pt.Dim {
	case 2:
		ind, err := Build2D(pt.Pos.Pair(), pt.Tangent.Pair(), h)
		if err != nil {
			return Indicator{}, err
		}
		return Indicator{
			Dim:     2,
			Tangent: Polyline{Name: "tangent", Points: lift(ind.Tangent[:])},
			Normal:  Polyline{Name: "normal", Points: lift(ind.Normal[:])},
		}, nil
	case 3:
		ind, err := Build3D(pt.Pos.Vec3(), pt.Tangent.Vec3(), h)
		if err != nil {
			return Indicator{}, err
		}
		return Indicator{
			Dim:     3,
			Tangent: Polyline{Name: "tangent", Points: append([]vec3.T(nil), ind.Tangent[:]...)},
			Normal:  Polyline{Name: "normal", Points: append([]vec3.T(nil), ind.Quad[:]...)},
		}, nil
	}
	return Indicator{}, fmt.Errorf("indicator: unsupported dimension %d", pt.Dim)
}

func lift(pairs []fitplot.Pair) []vec3.T {
	pts := make([]vec3.T, len(pairs))
	for i, p := range pairs {
		pts[i] = vec3.T{p.X(), p.Y(), 0}
	}
	return pts
}

func unit(v vec3.T) (vec3.T, bool) {
	l := v.Length()
	if l == 0 || !fitplot.IsFinite(l) {
		return vec3.T{}, false
	}
	return v.Scaled(1 / l), true
}
