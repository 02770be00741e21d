package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Carmen-Shannon/mood/common"
	"github.com/Carmen-Shannon/mood/engine"
	"github.com/Carmen-Shannon/mood/engine/config"
	"github.com/Carmen-Shannon/mood/engine/renderer"
	"github.com/Carmen-Shannon/mood/engine/window"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file (default: built-in settings)")
	logLevel   = flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	software   = flag.Bool("software", false, "force the software fallback adapter")
)

// GLFW and the wgpu surface must be driven from the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mood: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *software {
		cfg.Renderer.Software = true
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	rendererOptions, err := cfg.RendererOptions()
	if err != nil {
		return err
	}

	// One camera survives suspend/resume so the view does not jump back to the start pose.
	cam := cfg.NewCamera()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.NewEngine(
		engine.WithProfiling(cfg.Profiling),
		engine.WithWindowFactory(func() (window.Window, error) {
			return window.NewWindow(cfg.WindowOptions()...)
		}),
		engine.WithRendererFactory(func(ctx context.Context, win window.Window) (engine.Renderer, error) {
			r, err := renderer.NewRenderer(ctx, win, cam, rendererOptions...)
			if err != nil {
				return nil, err
			}
			return r, nil
		}),
	)

	common.Logger().Info("starting", "config", *configPath, "present_mode", cfg.Renderer.PresentMode, "software", cfg.Renderer.Software)
	return eng.Run(ctx)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: mood [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nControls: WASD move, Space/Shift up/down, mouse look, Escape quits.\n")
}
