/*
Command fitplot draws a B-spline fit record: the input points, the fitted
curve and, if the record carries a position/tangent pair, an orientation
indicator at that position.

Usage:

	fitplot [flags] [file]            write the plot image (default plot.png)
	fitplot info [file]               print a summary of the record
	fitplot indicator [file]          print the indicator geometry

file defaults to out.jsn. Settings may be given in a YAML file (--config),
using the keys of package fitplot, e.g.

	plot:
	  halflength: 0.2
	  output: fit.svg
	tracing:
	  level:
	    root: Info

Command line flags take precedence over the configuration file.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/npillmayer/fitplot"
	"github.com/npillmayer/fitplot/fitrec"
	"github.com/npillmayer/fitplot/indicator"
	"github.com/npillmayer/fitplot/render"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// tracer writes to trace with key 'fitplot'
func tracer() tracing.Trace {
	return tracing.Select("fitplot")
}

// traceKeys are the tracers used throughout fitplot. Each gets its level
// from tracing.level.<key>.
var traceKeys = []string{"root", "fitplot", "fitrec", "indicator", "graphics"}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"output":      fitplot.KeyOutput,
	"half-length": fitplot.KeyHalfLength,
	"width":       fitplot.KeyWidth,
	"height":      fitplot.KeyHeight,
	"title":       fitplot.KeyTitle,
	"elevation":   fitplot.KeyElevation,
	"azimuth":     fitplot.KeyAzimuth,
	"grid":        fitplot.KeyGrid,
	"show":        fitplot.KeyShow,
}

type options struct {
	configFile string
	traceLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	dflt := fitplot.DefaultConfig()
	root := &cobra.Command{
		Use:   "fitplot [file]",
		Short: "Plot a B-spline fit record",
		Long: `Plot the input points and the fitted curve of a B-spline fit record,
together with an orientation indicator if the record has a position/tangent.
The record is read from out.jsn unless a file is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, opts)
			if err != nil {
				return report(cmd, err)
			}
			return report(cmd, plot(inputFile(args), cfg))
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	pf.StringVar(&opts.traceLevel, "trace", "", "trace level (Error, Info, Debug)")
	pf.Float64("half-length", dflt.HalfLength, "half-length of the orientation indicator")
	f := root.Flags()
	f.StringP("output", "o", dflt.Output, `output image; format from extension, "-" for PNG on stdout`)
	f.Float64("width", dflt.Width, "image width in inches")
	f.Float64("height", dflt.Height, "image height in inches")
	f.String("title", "", "plot title (default: record summary)")
	f.Float64("elevation", dflt.Elevation, "view elevation for 3D records, degrees")
	f.Float64("azimuth", dflt.Azimuth, "view azimuth for 3D records, degrees")
	f.Bool("grid", false, "draw a grid")
	f.Bool("show", false, "open the image with the system viewer")
	root.AddCommand(newInfoCmd(opts), newIndicatorCmd(opts))
	return root
}

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:           "info [file]",
		Short:         "Print a summary of a fit record",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(cmd, opts); err != nil {
				return report(cmd, err)
			}
			rec, err := fitrec.Load(inputFile(args))
			if err != nil {
				return report(cmd, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, rec.Summary())
			if rec.HasIndicator() {
				pt := rec.PosTangent
				fmt.Fprintf(out, "position %s, tangent %s\n",
					coords(pt.Pos[:], pt.Dim), coords(pt.Tangent[:], pt.Dim))
			}
			return nil
		},
	}
}

func newIndicatorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:           "indicator [file]",
		Short:         "Print the orientation indicator of a fit record",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, opts)
			if err != nil {
				return report(cmd, err)
			}
			rec, err := fitrec.Load(inputFile(args))
			if err != nil {
				return report(cmd, err)
			}
			if !rec.HasIndicator() {
				fmt.Fprintln(cmd.OutOrStdout(), "no position/tangent in record")
				return nil
			}
			ind, err := indicator.Build(*rec.PosTangent, cfg.HalfLength)
			if err != nil {
				return report(cmd, err)
			}
			printIndicator(cmd.OutOrStdout(), ind)
			return nil
		},
	}
}

func inputFile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fitrec.DefaultFile
}

func report(cmd *cobra.Command, err error) error {
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "fitplot: %v\n", err)
	}
	return err
}

// --- Configuration ---------------------------------------------------------

// setup assembles the configuration from defaults, the configuration file
// and the command line flags, in this order, and starts tracing.
func setup(cmd *cobra.Command, opts *options) (fitplot.Config, error) {
	conf := koanfadapter.New(nil, "", nil)
	conf.InitDefaults()
	for _, key := range traceKeys {
		conf.Set("tracing.level."+key, "Error")
	}
	if opts.configFile != "" {
		if err := loadYAML(conf, opts.configFile); err != nil {
			return fitplot.Config{}, err
		}
	}
	if opts.traceLevel != "" {
		for _, key := range traceKeys {
			conf.Set("tracing.level."+key, opts.traceLevel)
		}
	}
	for name, key := range flagKeys {
		fl := cmd.Flags().Lookup(name)
		if fl == nil || !fl.Changed {
			continue
		}
		conf.Set(key, flagValue(cmd, name, fl.Value.Type()))
	}
	if err := initTracing(conf); err != nil {
		return fitplot.Config{}, err
	}
	cfg := fitplot.ConfigFrom(conf)
	tracer().Debugf("configuration: %+v", cfg)
	return cfg, nil
}

func flagValue(cmd *cobra.Command, name, typ string) interface{} {
	switch typ {
	case "float64":
		x, _ := cmd.Flags().GetFloat64(name)
		return x
	case "bool":
		b, _ := cmd.Flags().GetBool(name)
		return b
	}
	return cmd.Flags().Lookup(name).Value.String()
}

// loadYAML merges a YAML configuration file into conf.
func loadYAML(conf *koanfadapter.KConf, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	m := make(map[string]interface{})
	if err = yaml.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("configuration %s: %w", path, err)
	}
	if err = conf.Koanf().Load(confmap.Provider(m, "."), nil); err != nil {
		return fmt.Errorf("configuration %s: %w", path, err)
	}
	return nil
}

func initTracing(conf schuko.Configuration) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "tracing.level", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// --- Actions ---------------------------------------------------------------

func plot(file string, cfg fitplot.Config) error {
	rec, err := fitrec.Load(file)
	if err != nil {
		return err
	}
	tracer().Infof("%s: %s", file, rec.Summary())
	if err = render.Render(rec, cfg); err != nil {
		return err
	}
	if cfg.Show {
		return show(cfg.Output)
	}
	return nil
}

// show hands an image file to the desktop's default viewer.
func show(path string) error {
	if path == "-" {
		return fmt.Errorf("cannot show an image written to stdout")
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("show %s: %w", path, err)
	}
	return cmd.Process.Release()
}

func printIndicator(w io.Writer, ind indicator.Indicator) {
	for _, pl := range ind.Polylines() {
		pts := make([]string, len(pl.Points))
		for i, v := range pl.Points {
			pts[i] = coords(v[:], ind.Dim)
		}
		fmt.Fprintf(w, "%-8s %s\n", pl.Name+":", strings.Join(pts, " -- "))
	}
}

func coords(v []float64, dim int) string {
	c := make([]string, dim)
	for i := range c {
		c[i] = fmt.Sprintf("%.6g", fitplot.Zap(v[i]))
	}
	return "(" + strings.Join(c, ",") + ")"
}
