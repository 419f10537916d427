package fitplot

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.000000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Errorf("Expected NaN and -Inf not to be finite")
	}
}

func TestPairBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := P(3, 2)
	q := P(-3, -2)
	r := p + q
	if r != Origin {
		t.Errorf("Expected p + q to be (0,0), is %v", r)
	}
	if P(1, 1).Shifted(P(-1, -1)) != Origin {
		t.Errorf("Expected (1,1) shifted (-1,-1) to be origin, is not")
	}
}

func TestPairUnit(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	u, ok := P(3, 4).Unit()
	assert.True(t, ok)
	assert.InDelta(t, 0.6, u.X(), 1e-12)
	assert.InDelta(t, 0.8, u.Y(), 1e-12)
	assert.InDelta(t, 0.0, u.X()*-4+u.Y()*3, 1e-12)
	_, ok = Origin.Unit()
	assert.False(t, ok)
	_, ok = P(math.Inf(1), 0).Unit()
	assert.False(t, ok)
}

func TestDefaultConfig(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := ConfigFrom(nil)
	assert.Equal(t, DefaultConfig(), c)
	assert.Equal(t, 0.1, c.HalfLength)
	assert.Equal(t, "plot.png", c.Output)
}

func TestConfigFrom(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	conf := testconfig.Conf{
		KeyHalfLength: "0.25",
		KeyOutput:     "curve.svg",
		KeyAzimuth:    "-90",
		KeyGrid:       "true",
		KeyWidth:      "not-a-number",
	}
	c := ConfigFrom(conf)
	assert.Equal(t, 0.25, c.HalfLength)
	assert.Equal(t, "curve.svg", c.Output)
	assert.Equal(t, -90.0, c.Azimuth)
	assert.Equal(t, 30.0, c.Elevation)
	assert.True(t, c.Grid)
	assert.False(t, c.Show)
	assert.Equal(t, 6.0, c.Width, "unparsable width should keep its default")
}

func TestConfigImageSize(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := ConfigFrom(testconfig.Conf{
		KeyWidth:  "0",
		KeyHeight: "-4",
	})
	assert.Equal(t, 6.0, c.Width, "zero width should keep its default")
	assert.Equal(t, 6.0, c.Height, "negative height should keep its default")
	c = ConfigFrom(testconfig.Conf{KeyWidth: "2.5"})
	assert.Equal(t, 2.5, c.Width)
}
