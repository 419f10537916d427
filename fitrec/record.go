/*
Package fitrec reads the records written by the B-spline fitting test
program (WlzTstFitBSpline with options -p, -P and -G).

A record is a JSON document of the form

	{
	"indata": {
	"points": [ [x,y], ... ]},
	"postnt": [px, py, tx, ty],
	"outdata": {
	"knots": 12,
	"smooth": 0.01,
	"order": 3,
	"dim": 2,
	"normalised":false,
	"points": [ [x,y], ... ]}
	}

with three components per point and six values in "postnt" for 3D fits.
"indata" and "postnt" are optional, as is "normalised" (default false).

Optional fields are resolved exactly once, in Decode; clients never have to
check for missing fields afterwards.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package fitrec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/fitplot"
	"github.com/npillmayer/schuko/tracing"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'fitrec'
func tracer() tracing.Trace {
	return tracing.Select("fitrec")
}

var (
	// ErrMissingInput indicates that the record file does not exist or cannot be read.
	ErrMissingInput = errors.New("input record missing or unreadable")
	// ErrMalformedRecord indicates absent fields or fields of wrong shape or dimension.
	ErrMalformedRecord = errors.New("malformed fit record")
)

// DefaultFile is the record file name used if none is given.
const DefaultFile = "out.jsn"

// Point is a 2D or 3D coordinate. 2D points have a zero Z-component.
type Point [3]float64

// Pair returns the x- and y-components of pt.
func (pt Point) Pair() fitplot.Pair {
	return fitplot.P(pt[0], pt[1])
}

// Vec3 returns pt as a 3D vector.
func (pt Point) Vec3() vec3.T {
	return vec3.T(pt)
}

// PosTangent is a position on the fitted curve together with the curve's
// tangent there.
type PosTangent struct {
	Dim     int
	Pos     Point
	Tangent Point
}

// Record is a decoded and validated fit record.
type Record struct {
	Dim        int     // 2 or 3
	Smooth     float64 // smoothing parameter of the fit
	Order      int     // spline order
	Knots      int     // number of knots
	Normalised bool    // input data normalised to [0,1] before fitting
	In         []Point // points the spline has been fitted to
	Out        []Point // evaluated spline samples
	PosTangent *PosTangent
}

// HasIndicator is a predicate: does the record carry a position and tangent?
func (rec *Record) HasIndicator() bool {
	return rec.PosTangent != nil
}

// Summary returns a one-line description of rec.
func (rec *Record) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dD, order %d, smooth %g, %d knots", rec.Dim, rec.Order, rec.Smooth, rec.Knots)
	if rec.Normalised {
		b.WriteString(", normalised")
	}
	fmt.Fprintf(&b, "; %d input / %d output points", len(rec.In), len(rec.Out))
	return b.String()
}

// --- Decoding --------------------------------------------------------------

type jsonPoints struct {
	Points [][]float64 `json:"points"`
}

type jsonOutData struct {
	Knots      *int        `json:"knots"`
	Smooth     *float64    `json:"smooth"`
	Order      *int        `json:"order"`
	Dim        *int        `json:"dim"`
	Normalised *bool       `json:"normalised"`
	Points     [][]float64 `json:"points"`
}

type jsonRecord struct {
	InData  *jsonPoints  `json:"indata"`
	PosTnt  []float64    `json:"postnt"`
	OutData *jsonOutData `json:"outdata"`
}

// Load reads a record from file path. An empty path means DefaultFile.
func Load(path string) (*Record, error) {
	if path == "" {
		path = DefaultFile
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingInput, err)
	}
	defer f.Close()
	tracer().Debugf("reading fit record from %q", path)
	rec, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Decode reads a single record from r and validates it.
func Decode(r io.Reader) (*Record, error) {
	var jr jsonRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&jr); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) ||
			errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, malformed("%v", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMissingInput, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed("trailing data after record")
	}
	return jr.record()
}

func (jr *jsonRecord) record() (*Record, error) {
	od := jr.OutData
	if od == nil {
		return nil, malformed("no \"outdata\"")
	}
	if od.Dim == nil {
		return nil, malformed("outdata has no \"dim\"")
	}
	if od.Order == nil || od.Knots == nil || od.Smooth == nil {
		return nil, malformed("outdata needs \"order\", \"knots\" and \"smooth\"")
	}
	rec := &Record{
		Dim:    *od.Dim,
		Smooth: *od.Smooth,
		Order:  *od.Order,
		Knots:  *od.Knots,
	}
	if rec.Dim != 2 && rec.Dim != 3 {
		return nil, malformed("dimension is %d, must be 2 or 3", rec.Dim)
	}
	if rec.Order < 1 {
		return nil, malformed("spline order is %d", rec.Order)
	}
	if rec.Knots < 0 {
		return nil, malformed("knot count is %d", rec.Knots)
	}
	if od.Normalised != nil {
		rec.Normalised = *od.Normalised
	}
	var err error
	if rec.Out, err = points(od.Points, rec.Dim, "outdata"); err != nil {
		return nil, err
	}
	if jr.InData != nil {
		if rec.In, err = points(jr.InData.Points, rec.Dim, "indata"); err != nil {
			return nil, err
		}
	}
	if jr.PosTnt != nil {
		if rec.PosTangent, err = posTangent(jr.PosTnt, rec.Dim); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("decoded record: %s", rec.Summary())
	return rec, nil
}

func points(raw [][]float64, dim int, section string) ([]Point, error) {
	pts := make([]Point, len(raw))
	for i, c := range raw {
		if len(c) != dim {
			return nil, malformed("%s point #%d has %d components, expected %d", section, i, len(c), dim)
		}
		for j, x := range c {
			if !fitplot.IsFinite(x) {
				return nil, malformed("%s point #%d is not finite", section, i)
			}
			pts[i][j] = x
		}
	}
	return pts, nil
}

func posTangent(raw []float64, dim int) (*PosTangent, error) {
	if len(raw) != 2*dim {
		return nil, malformed("\"postnt\" has %d entries, expected %d for %dD", len(raw), 2*dim, dim)
	}
	pt := &PosTangent{Dim: dim}
	for i := 0; i < dim; i++ {
		pt.Pos[i] = raw[i]
		pt.Tangent[i] = raw[dim+i]
	}
	for _, x := range raw {
		if !fitplot.IsFinite(x) {
			return nil, malformed("\"postnt\" is not finite")
		}
	}
	return pt, nil
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
}
