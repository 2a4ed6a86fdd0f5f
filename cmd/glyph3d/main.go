// glyph3d - terminal 3D renderer
// Draws OBJ and glTF meshes as shaded glyphs using only cursor addressing.
//
// Controls:
//
//	Q/Esc/Ctrl+C - Quit
//	Space        - Kick the spin
//	R            - Reset spin and camera
//	X            - Toggle wireframe
//	B            - Toggle bounding boxes
//	+/-          - Move the camera in/out
//	?            - Toggle HUD
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taigrr/glyph3d/pkg/config"
)

// options holds command line flags. Flags override the config file only
// when given explicitly.
type options struct {
	configPath string
	fps        int
	stroke     string
	noFill     bool
	ramp       string
	workers    int
	cull       bool
	bounds     bool
	lenient    bool

	once   bool
	width  int
	height int
	png    string

	logFile  string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "glyph3d [flags] [model.obj|model.glb ...]",
		Short: "Render 3D meshes in the terminal",
		Long: `glyph3d rasterizes flat-shaded meshes onto the terminal grid.

Models come from the command line and from [[mesh]] tables in the config
file. Without --once it runs an interactive viewer:

  Q/Esc   quit            Space  kick the spin
  R       reset           X      toggle wireframe
  B       bounding boxes  +/-    move the camera
  ?       toggle HUD`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML scene config")
	f.IntVar(&opts.fps, "fps", 30, "target frames per second")
	f.StringVar(&opts.stroke, "stroke", "smooth", "edge mode: none, fast or smooth")
	f.BoolVar(&opts.noFill, "no-fill", false, "draw outlines only")
	f.StringVar(&opts.ramp, "ramp", "", "five glyphs from sparse to solid (default \" ░▒▓█\")")
	f.IntVar(&opts.workers, "workers", 1, "parallel raster bands (0 = one per CPU)")
	f.BoolVar(&opts.cull, "cull", true, "skip back faces and meshes outside the view")
	f.BoolVar(&opts.bounds, "bounds", false, "outline mesh bounding boxes")
	f.BoolVar(&opts.lenient, "lenient", false, "skip unsupported OBJ directives instead of failing")
	f.BoolVar(&opts.once, "once", false, "render a single frame to stdout and exit")
	f.IntVar(&opts.width, "width", 80, "frame width in cells for --once")
	f.IntVar(&opts.height, "height", 24, "frame height in cells for --once")
	f.StringVar(&opts.png, "png", "", "also save the --once frame as a greyscale PNG")
	f.StringVar(&opts.logFile, "log-file", "", "write logs here (stdout is the screen)")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	logger, closeLog, err := newLogger(opts.logFile, opts.logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd, opts, args)
	if err != nil {
		return err
	}

	scene, err := loadScene(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("scene loaded", "meshes", len(scene.Meshes), "triangles", triangleCount(scene))

	if opts.once {
		return renderOnce(cmd.OutOrStdout(), cfg, scene, opts, logger)
	}
	return runViewer(cmd.Context(), cfg, scene, logger)
}

// loadConfig reads the config file, if any, then applies explicitly set
// flags and positional model paths.
func loadConfig(cmd *cobra.Command, opts *options, args []string) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("fps") {
		cfg.FPS = opts.fps
	}
	if f.Changed("stroke") {
		cfg.Stroke = opts.stroke
	}
	if f.Changed("no-fill") {
		cfg.Fill = !opts.noFill
	}
	if f.Changed("ramp") {
		cfg.Ramp = opts.ramp
	}
	if f.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if f.Changed("cull") {
		cfg.CullBackfaces = opts.cull
		cfg.FrustumCull = opts.cull
	}
	if f.Changed("bounds") {
		cfg.ShowBounds = opts.bounds
	}
	for _, path := range args {
		cfg.Meshes = append(cfg.Meshes, config.Mesh{Path: path, Lenient: opts.lenient})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Meshes) == 0 {
		return nil, fmt.Errorf("no meshes: pass a model file or add a [[mesh]] table to the config")
	}
	return cfg, nil
}

// newLogger returns a text logger writing to path, or a discarding logger
// when path is empty.
func newLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newTextLogger(f, lvl), func() { f.Close() }, nil
}

func newTextLogger(w io.Writer, lvl slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
