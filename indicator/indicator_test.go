package indicator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/fitplot"
	"github.com/npillmayer/fitplot/fitrec"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

const tol = 1e-9

var approxPair = cmp.Comparer(func(a, b fitplot.Pair) bool {
	return math.Abs(a.X()-b.X()) <= tol && math.Abs(a.Y()-b.Y()) <= tol
})

var approx = cmpopts.EquateApprox(0, tol)

func dot(a, b vec3.T) float64 {
	return vec3.Dot(&a, &b)
}

func TestBuild2DOrigin(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ind, err := Build2D(fitplot.Origin, fitplot.P(1, 0), 0.1)
	require.NoError(t, err)
	want := Indicator2D{
		Tangent: [2]fitplot.Pair{fitplot.P(0, 0), fitplot.P(0.1, 0)},
		Normal:  [2]fitplot.Pair{fitplot.P(0, -0.1), fitplot.P(0, 0.1)},
		N:       fitplot.P(0, 1),
	}
	if d := cmp.Diff(want, ind, approxPair); d != "" {
		t.Errorf("2D indicator mismatch (-want +got):\n%s", d)
	}
}

func TestBuild2DBranches(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// |tx| <= |ty| takes the (1, −tx/ty) branch
	ind, err := Build2D(fitplot.P(1, 1), fitplot.P(0, 2), 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ind.N.X(), tol)
	assert.InDelta(t, 0.0, ind.N.Y(), tol)
	assert.InDelta(t, 0.5, ind.Normal[0].X(), tol)
	assert.InDelta(t, 1.5, ind.Normal[1].X(), tol)
	assert.InDelta(t, 2.0, ind.Tangent[1].Y(), tol)
	// diagonal tangent, tie goes to the second branch
	ind, err = Build2D(fitplot.Origin, fitplot.P(1, 1), 1)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt2, ind.N.X(), tol)
	assert.InDelta(t, -1/math.Sqrt2, ind.N.Y(), tol)
}

func TestBuild2DDegenerate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, tangent := range []fitplot.Pair{
		fitplot.P(0, 0),
		fitplot.P(math.NaN(), 1),
		fitplot.P(1, math.Inf(1)),
	} {
		_, err := Build2D(fitplot.Origin, tangent, 0.1)
		assert.ErrorIs(t, err, ErrDegenerateTangent, "tangent %v", tangent)
	}
}

func TestBuild2DProperties(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	rnd := rand.New(rand.NewSource(4711))
	for i := 0; i < 500; i++ {
		p := fitplot.P(rnd.NormFloat64()*10, rnd.NormFloat64()*10)
		tg := fitplot.P(rnd.NormFloat64(), rnd.NormFloat64())
		h := 0.01 + rnd.Float64()
		ind, err := Build2D(p, tg, h)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, ind.N.X()*tg.X()+ind.N.Y()*tg.Y(), 1e-9, "normal not orthogonal to %v", tg)
		assert.InDelta(t, 1.0, ind.N.Length(), 1e-9)
		// determinism
		again, err := Build2D(p, tg, h)
		require.NoError(t, err)
		assert.Equal(t, ind, again)
		// doubling h doubles every displacement, the point stays fixed
		twice, err := Build2D(p, tg, 2*h)
		require.NoError(t, err)
		assert.Equal(t, p, twice.Tangent[0])
		for j := 0; j < 2; j++ {
			d1, d2 := ind.Normal[j]-p, twice.Normal[j]-p
			assert.InDelta(t, 0.0, (d2 - d1.Scaled(2)).Length(), 1e-9)
		}
		d1, d2 := ind.Tangent[1]-p, twice.Tangent[1]-p
		assert.InDelta(t, 0.0, (d2 - d1.Scaled(2)).Length(), 1e-9)
	}
}

func TestBuild3DAxisAligned(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, tangent := range []vec3.T{{0, 0, 1}, {-2, 0, 0}, {0, 3, 0}, {0, 0, 0}, {1, math.NaN(), 0}} {
		_, err := Build3D(vec3.T{}, tangent, 0.1)
		assert.ErrorIs(t, err, ErrDegenerateTangent, "tangent %v", tangent)
	}
}

func TestBuild3DFrame(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tangent := vec3.T{1, 2, 3}
	ind, err := Build3D(vec3.T{1, 1, 1}, tangent, 0.1)
	require.NoError(t, err)
	// mi = 2, t0 is tangent with z zeroed
	want0 := vec3.T{1 / math.Sqrt(5), 2 / math.Sqrt(5), 0}
	if d := cmp.Diff(want0, ind.Frame[0], approx); d != "" {
		t.Errorf("t0 mismatch (-want +got):\n%s", d)
	}
	assert.Equal(t, ind.Quad[0], ind.Quad[4], "outline must be closed")
	wantTip := vec3.T{1.1, 1.2, 1.3}
	if d := cmp.Diff(wantTip, ind.Tangent[1], approx); d != "" {
		t.Errorf("tangent tip mismatch (-want +got):\n%s", d)
	}
	// first maximum wins on ties
	ind, err = Build3D(vec3.T{}, vec3.T{1, -1, 0.5}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ind.Frame[0][0])
}

func TestBuild3DExtremeMagnitudes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ref, err := Build3D(vec3.T{}, vec3.T{1, 2, 3}, 0.1)
	require.NoError(t, err)
	for _, s := range []float64{1e200, 1e-200, 1e-310} {
		tangent := vec3.T{s, 2 * s, 3 * s}
		ind, err := Build3D(vec3.T{}, tangent, 0.1)
		require.NoError(t, err, "tangent %v", tangent)
		if d := cmp.Diff(ref.Frame, ind.Frame, approx); d != "" {
			t.Errorf("frame for tangent %v differs (-want +got):\n%s", tangent, d)
		}
		if d := cmp.Diff(ref.Quad, ind.Quad, approx); d != "" {
			t.Errorf("quad for tangent %v differs (-want +got):\n%s", tangent, d)
		}
	}
}

func TestBuild3DCorners(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	point := vec3.T{0.5, -1, 2}
	ind, err := Build3D(point, vec3.T{0, 1, 2}, 0.2)
	require.NoError(t, err)
	t1, t2 := ind.Frame[1], ind.Frame[2]
	corner := func(s1, s2 float64) vec3.T {
		return vec3.T{
			point[0] + 0.2*(s1*t1[0]+s2*t2[0]),
			point[1] + 0.2*(s1*t1[1]+s2*t2[1]),
			point[2] + 0.2*(s1*t1[2]+s2*t2[2]),
		}
	}
	want := [5]vec3.T{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1), corner(-1, -1)}
	if d := cmp.Diff(want, ind.Quad, approx); d != "" {
		t.Errorf("quad mismatch (-want +got):\n%s", d)
	}
}

func TestBuild3DProperties(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	rnd := rand.New(rand.NewSource(815))
	for i := 0; i < 500; i++ {
		p := vec3.T{rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64()}
		tg := vec3.T{rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64()}
		h := 0.01 + rnd.Float64()
		ind, err := Build3D(p, tg, h)
		require.NoError(t, err)
		t1, t2 := ind.Frame[1], ind.Frame[2]
		assert.InDelta(t, 0.0, dot(t1, tg), 1e-9)
		assert.InDelta(t, 0.0, dot(t2, tg), 1e-9)
		assert.InDelta(t, 0.0, dot(t1, t2), 1e-9)
		assert.InDelta(t, 1.0, t1.Length(), 1e-9)
		assert.InDelta(t, 1.0, t2.Length(), 1e-9)
		again, err := Build3D(p, tg, h)
		require.NoError(t, err)
		assert.Equal(t, ind, again)
		twice, err := Build3D(p, tg, 2*h)
		require.NoError(t, err)
		assert.Equal(t, p, twice.Tangent[0])
		for j := range ind.Quad {
			d1 := vec3.Sub(&ind.Quad[j], &p)
			d2 := vec3.Sub(&twice.Quad[j], &p)
			d1 = d1.Scaled(2)
			diff := vec3.Sub(&d2, &d1)
			assert.InDelta(t, 0.0, diff.Length(), 1e-9)
		}
	}
}

func TestBuildDispatch(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ind, err := Build(fitrec.PosTangent{Dim: 2, Tangent: fitrec.Point{1, 0}}, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 2, ind.Dim)
	require.Len(t, ind.Polylines(), 2)
	assert.Len(t, ind.Tangent.Points, 2)
	assert.Len(t, ind.Normal.Points, 2)
	if d := cmp.Diff(vec3.T{0, 0.1, 0}, ind.Normal.Points[1], approx); d != "" {
		t.Errorf("normal end mismatch (-want +got):\n%s", d)
	}
	ind, err = Build(fitrec.PosTangent{Dim: 3, Tangent: fitrec.Point{1, 1, 0}}, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 3, ind.Dim)
	assert.Len(t, ind.Normal.Points, 5)
	_, err = Build(fitrec.PosTangent{Dim: 3, Tangent: fitrec.Point{0, 0, 1}}, 0.1)
	assert.ErrorIs(t, err, ErrDegenerateTangent)
	_, err = Build(fitrec.PosTangent{Dim: 4}, 0.1)
	assert.Error(t, err)
}
