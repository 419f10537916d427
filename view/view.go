/*
Package view projects 3D geometry onto a 2D view plane, so that 3D fit
records can be drawn by a plain 2D plotting backend.

The camera is orthographic and described by elevation and azimuth angles
(in degrees), with the conventions of common 3D plotting tools: azimuth
rotates about the z-axis, elevation tilts the view towards the xy-plane.
Elevation 90° looks straight down the z-axis.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package view

import (
	"math"

	"github.com/npillmayer/fitplot"
	"github.com/npillmayer/schuko/tracing"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'graphics'
func tracer() tracing.Trace {
	return tracing.Select("graphics")
}

// Camera is an orthographic view direction.
type Camera struct {
	Elevation float64 // degrees
	Azimuth   float64 // degrees
}

// Default is a camera at 30° elevation and −60° azimuth.
var Default = Camera{Elevation: 30, Azimuth: -60}

// Project maps v onto the view plane of cam:
//
//	u = −sin(a)·x + cos(a)·y
//	w = −sin(e)·cos(a)·x − sin(e)·sin(a)·y + cos(e)·z
func (cam Camera) Project(v vec3.T) fitplot.Pair {
	sa, ca := math.Sincos(cam.Azimuth * fitplot.Deg2Rad)
	se, ce := math.Sincos(cam.Elevation * fitplot.Deg2Rad)
	u := -sa*v[0] + ca*v[1]
	w := -se*ca*v[0] - se*sa*v[1] + ce*v[2]
	return fitplot.P(u, w)
}

// ProjectAll projects a sequence of points.
func (cam Camera) ProjectAll(vs []vec3.T) []fitplot.Pair {
	pts := make([]fitplot.Pair, len(vs))
	for i, v := range vs {
		pts[i] = cam.Project(v)
	}
	return pts
}

// Extent returns the component-wise minimum and maximum of vs.
// ok is false for an empty slice.
func Extent(vs ...[]vec3.T) (lo, hi vec3.T, ok bool) {
	for _, s := range vs {
		for _, v := range s {
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			for i := 0; i < 3; i++ {
				lo[i] = math.Min(lo[i], v[i])
				hi[i] = math.Max(hi[i], v[i])
			}
		}
	}
	return
}

// BoxEdges returns the twelve edges of the axis-parallel cuboid spanned by
// lo and hi, each as a pair of end points.
func BoxEdges(lo, hi vec3.T) [][2]vec3.T {
	corner := func(i int) vec3.T {
		c := lo
		for k := 0; k < 3; k++ {
			if i&(1<<k) != 0 {
				c[k] = hi[k]
			}
		}
		return c
	}
	edges := make([][2]vec3.T, 0, 12)
	for i := 0; i < 8; i++ {
		for k := 0; k < 3; k++ {
			if i&(1<<k) == 0 { // edge from corner i along axis k
				edges = append(edges, [2]vec3.T{corner(i), corner(i | 1<<k)})
			}
		}
	}
	tracer().Debugf("cuboid %v – %v has %d edges", lo, hi, len(edges))
	return edges
}
