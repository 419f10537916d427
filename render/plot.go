package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/fitplot"
	"github.com/npillmayer/fitplot/fitrec"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultFormat is the image format used if none can be derived from the
// output file name.
const DefaultFormat = "png"

var guideColor = color.RGBA{R: 170, G: 170, B: 170, A: 255}

// Plot maps the scene onto a gonum plot. Axis ranges are chosen to keep the
// aspect ratio of the data, so that normals appear perpendicular to their
// tangents.
func (sc *Scene) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = sc.Title
	p.Legend.Top = true
	if sc.Dim == 3 {
		p.HideAxes()
	} else {
		p.X.Label.Text = "x"
		p.Y.Label.Text = "y"
	}
	if sc.cfg.Grid {
		p.Add(plotter.NewGrid())
	}
	markers := 0
	for _, s := range sc.Series {
		data := xys(s.Outline.Outline())
		switch s.Kind {
		case Points:
			sct, err := plotter.NewScatter(data)
			if err != nil {
				return nil, fmt.Errorf("render: series %q: %w", s.Name, err)
			}
			sct.GlyphStyle.Color = plotutil.Color(0)
			sct.GlyphStyle.Shape = draw.CircleGlyph{}
			sct.GlyphStyle.Radius = vg.Points(2)
			p.Add(sct)
			p.Legend.Add(s.Name, sct)
		default:
			ln, err := plotter.NewLine(data)
			if err != nil {
				return nil, fmt.Errorf("render: series %q: %w", s.Name, err)
			}
			switch s.Kind {
			case Curve:
				ln.LineStyle.Color = plotutil.Color(1)
				ln.LineStyle.Width = vg.Points(1.5)
			case Marker:
				ln.LineStyle.Color = plotutil.Color(2 + markers)
				markers++
				ln.LineStyle.Width = vg.Points(1.5)
			case Guide:
				ln.LineStyle.Color = guideColor
				ln.LineStyle.Width = vg.Points(0.5)
				ln.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
			}
			p.Add(ln)
			if s.Kind != Guide && s.Name != "" {
				p.Legend.Add(s.Name, ln)
			}
		}
	}
	sc.setRanges(p)
	return p, nil
}

// setRanges fits the data extent into the image, padded by 5% and with
// equal scale on both axes.
func (sc *Scene) setRanges(p *plot.Plot) {
	w, h := sc.cfg.Width, sc.cfg.Height
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	dx, dy := sc.Max.X()-sc.Min.X(), sc.Max.Y()-sc.Min.Y()
	s := math.Max(dx/w, dy/h) * 1.1
	if fitplot.Is0(s) {
		s = 1 / math.Min(w, h)
	}
	cx, cy := (sc.Min.X()+sc.Max.X())/2, (sc.Min.Y()+sc.Max.Y())/2
	p.X.Min, p.X.Max = cx-s*w/2, cx+s*w/2
	p.Y.Min, p.Y.Max = cy-s*h/2, cy+s*h/2
}

func xys(pts []fitplot.Pair) plotter.XYs {
	data := make(plotter.XYs, len(pts))
	for i, p := range pts {
		data[i].X, data[i].Y = p.F()
	}
	return data
}

// --- Output ----------------------------------------------------------------

// Write renders rec into an image of the given format ("png", "svg", "pdf",
// …) and writes it to w.
func Write(w io.Writer, rec *fitrec.Record, cfg fitplot.Config, format string) error {
	wt, err := prepare(rec, cfg, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// prepare builds the complete image for rec, without writing it anywhere.
func prepare(rec *fitrec.Record, cfg fitplot.Config, format string) (io.WriterTo, error) {
	if !(cfg.Width > 0) || !(cfg.Height > 0) {
		return nil, fmt.Errorf("render: image size %gx%g, must be positive", cfg.Width, cfg.Height)
	}
	sc, err := NewScene(rec, cfg)
	if err != nil {
		return nil, err
	}
	p, err := sc.Plot()
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = DefaultFormat
	}
	wt, err := p.WriterTo(vg.Length(cfg.Width)*vg.Inch, vg.Length(cfg.Height)*vg.Inch, format)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return wt, nil
}

// Render draws rec and writes the image to cfg.Output. The image format
// follows the file extension; an output of "-" writes PNG to stdout.
// The output file is only touched once the image is complete, so a failing
// record leaves an existing file as it was.
func Render(rec *fitrec.Record, cfg fitplot.Config) error {
	if cfg.Output == "-" {
		return Write(os.Stdout, rec, cfg, DefaultFormat)
	}
	wt, err := prepare(rec, cfg, FormatOf(cfg.Output))
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err = wt.WriteTo(&buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err = os.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	tracer().Infof("plot written to %q", cfg.Output)
	return nil
}

// FormatOf derives the image format from a file name's extension.
func FormatOf(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return DefaultFormat
	}
	return ext
}
