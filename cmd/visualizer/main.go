package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alkime/visualizer/internal/audio"
	"github.com/alkime/visualizer/internal/config"
	"github.com/alkime/visualizer/internal/logger"
	"github.com/alkime/visualizer/internal/pipeline"
	"github.com/alkime/visualizer/internal/render"
	"github.com/alkime/visualizer/internal/style"
	"github.com/alkime/visualizer/pkg/channels"
	"golang.org/x/sync/errgroup"
)

// CLI defines the visualizer command structure.
type CLI struct {
	// Default command (runs when no subcommand given)
	Visualize VisualizeCmd `cmd:"" default:"withargs" help:"Draw a live spectrum of captured audio"`

	// Subcommands
	Devices DevicesCmd `cmd:"" help:"List available capture devices"`
}

// fastHandoff is how long a --fast replay waits for the renderer before
// skipping a frame.
const fastHandoff = time.Second

// VisualizeCmd draws the spectrum until interrupted.
type VisualizeCmd struct {
	ApplicationList bool     `short:"l" name:"application-list" help:"List capture sources and exit"`
	App             []string `short:"a" name:"app" sep:"none" help:"Capture from the named source (repeatable, case-insensitive)"`
	Colour          string   `short:"c" name:"colour" env:"VISUALIZER_COLOUR" placeholder:"R,G,B" help:"Bar colour, each channel 0-255"`
	Text            string   `short:"t" name:"text" env:"VISUALIZER_TEXT" placeholder:"CHAR" help:"Bar character"`
	Range           string   `short:"r" name:"range" env:"VISUALIZER_RANGE" placeholder:"LO,HI" help:"Decibel range (default 0,60)"`
	Size            string   `short:"s" name:"size" placeholder:"WxH" help:"Fixed grid size instead of the terminal size"`

	File       string `flag:"" type:"path" help:"Replay a WAV, MP3, OGG or FLAC file instead of capturing"`
	Fast       bool   `flag:"" help:"Replay the file as fast as frames are drawn"`
	Mono       bool   `flag:"" help:"Average channels into one bar set per frame"`
	Window     string `flag:"" default:"none" env:"VISUALIZER_WINDOW" help:"Analysis window: none, hann, hamming, blackman, bartlett"`
	HalfWindow bool   `flag:"" name:"half-window" help:"Transform only the first half of each buffer"`
	AllBins    bool   `flag:"" name:"all-bins" help:"Spread the whole spectrum across the columns"`

	Frames     int `flag:"" default:"1024" help:"Frames per capture period"`
	SampleRate int `flag:"" name:"sample-rate" default:"48000" help:"Capture sample rate"`
	Channels   int `flag:"" default:"2" help:"Capture channel count"`
}

// Run executes the visualize command.
//
//nolint:funlen // CLI command with multiple setup steps
func (c *VisualizeCmd) Run() error {
	if c.ApplicationList {
		return listDevices(os.Stdout, style.Names)
	}

	cfg := config.New(c.options())
	slog.Debug("visualizer config",
		"glyph", cfg.Glyph,
		"range", cfg.Range,
		"fixedSize", cfg.FixedSize,
		"sources", cfg.Sources,
		"window", cfg.Window,
		"mono", cfg.Mono,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dims := render.NewDimensionProvider(cfg.FixedSize, int(os.Stdout.Fd()))

	pipe, err := pipeline.New(cfg, dims, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	source := c.source(cfg)
	frames := channels.NewLatest[audio.Frame]()

	console := render.NewConsole(os.Stdout, cfg.Colour)
	if err := console.Setup(); err != nil {
		return err
	}

	// always put the terminal back, whatever ends the run
	defer func() {
		if err := console.Restore(); err != nil {
			slog.Error("failed to restore terminal", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer frames.Close()

		if err := source.Stream(gctx, frames); err != nil {
			return fmt.Errorf("audio source failed: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		return pipe.Run(gctx, frames.C())
	})

	err = g.Wait()

	ps, fs := pipe.Stats(), frames.Stats()
	slog.Info("visualizer stopped",
		"rendered", ps.Rendered,
		"skipped", ps.Skipped,
		"offered", fs.Offered,
		"dropped", fs.Dropped,
	)

	return err
}

func (c *VisualizeCmd) options() config.Options {
	return config.Options{
		Text:       c.Text,
		Colour:     c.Colour,
		Range:      c.Range,
		Size:       c.Size,
		Sources:    c.App,
		Window:     c.Window,
		HalfWindow: c.HalfWindow,
		AllBins:    c.AllBins,
		Mono:       c.Mono,
	}
}

func (c *VisualizeCmd) source(cfg config.Config) audio.Source {
	if c.File != "" {
		return audio.NewFileSource(audio.FileConfig{
			Path:         c.File,
			PeriodFrames: c.Frames,
			Realtime:     !c.Fast,
			Handoff:      fastHandoff,
		})
	}

	return audio.NewDevice(audio.DeviceConfig{
		SampleRate:   c.SampleRate,
		Channels:     c.Channels,
		PeriodFrames: c.Frames,
		Sources:      cfg.Sources,
	})
}

// DevicesCmd lists available capture devices with their formats.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run() error {
	return listDevices(os.Stdout, style.Devices)
}

func listDevices(w io.Writer, format func([]audio.Info) string) error {
	slog.Debug("enumerating capture devices")

	devices, err := audio.NewDevice(audio.DeviceConfig{}).EnumerateDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	if _, err := io.WriteString(w, format(devices)); err != nil {
		return fmt.Errorf("failed to write device list: %w", err)
	}

	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		return 1
	}

	_, closer, err := logger.SetupLogger(settings, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		return 1
	}
	defer func() {
		if err := closer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}()

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("visualizer"),
		kong.Description("Terminal bar-chart spectrogram of live or recorded audio."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		if errors.Is(err, audio.ErrNoMatchingSource) {
			slog.Error("no capture source matched", "sources", cli.Visualize.App)
		}
		ctx.Errorf("%s", err)

		return 1
	}

	return 0
}
