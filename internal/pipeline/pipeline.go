// Package pipeline wires the spectrum and render stages together and owns
// the per-frame state: one frame in, at most one terminal write out.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/alkime/visualizer/internal/audio"
	"github.com/alkime/visualizer/internal/config"
	"github.com/alkime/visualizer/internal/render"
	"github.com/alkime/visualizer/internal/spectrum"
)

// Pipeline renders audio frames to a writer. Process is serialized, so the
// smoother history and the output are never touched by two frames at once.
type Pipeline struct {
	cfg       config.Config
	transform *spectrum.Transform
	levels    spectrum.LevelMapper
	smoother  *render.Smoother
	grid      render.Grid
	dims      render.DimensionProvider
	out       io.Writer

	mu sync.Mutex

	rendered atomic.Int64
	skipped  atomic.Int64
}

// Stats counts what the pipeline did with the buffers it was given.
type Stats struct {
	Rendered int64
	Skipped  int64
}

// New builds a Pipeline. All fallible setup happens here, not per frame.
func New(cfg config.Config, dims render.DimensionProvider, out io.Writer) (*Pipeline, error) {
	if dims == nil {
		return nil, fmt.Errorf("dimension provider cannot be nil")
	}

	if out == nil {
		return nil, fmt.Errorf("output writer cannot be nil")
	}

	transform, err := spectrum.NewTransform(spectrum.TransformOptions{
		Window:     cfg.Window,
		HalfWindow: cfg.HalfWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create spectral transform: %w", err)
	}

	levels, err := spectrum.NewLevelMapper(cfg.Range.Min, cfg.Range.Max)
	if err != nil {
		return nil, fmt.Errorf("failed to create level mapper: %w", err)
	}

	return &Pipeline{ //nolint:exhaustruct // mu and counters zero
		cfg:       cfg,
		transform: transform,
		levels:    levels,
		smoother:  render.NewSmoother(),
		grid:      render.NewGrid(cfg.Glyph),
		dims:      dims,
		out:       out,
	}, nil
}

// Run processes frames until ctx is cancelled or frames is closed. Only a
// failed terminal write ends it with an error.
func (p *Pipeline) Run(ctx context.Context, frames <-chan audio.Frame) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			if err := p.Process(frame); err != nil {
				return err
			}
		}
	}
}

// Process renders one frame. By default every channel buffer is rendered
// in turn, each as its own terminal frame; in mono mode the channels are
// averaged first.
func (p *Pipeline) Process(frame audio.Frame) error {
	if p.cfg.Mono {
		return p.ProcessBuffer(frame.Mono())
	}

	for _, samples := range frame.Channels {
		if err := p.ProcessBuffer(samples); err != nil {
			return err
		}
	}

	return nil
}

// ProcessBuffer runs one channel buffer through the whole pipeline:
// transform, bucketize, map, smooth, render. When the grid size cannot be
// determined the buffer is skipped and the smoother is left untouched.
func (p *Pipeline) ProcessBuffer(samples []float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	size, err := p.dims.Dimensions()
	if err != nil {
		p.skipped.Add(1)
		slog.Debug("skipping frame", "reason", "no dimensions", "error", err)
		return nil
	}

	heights := p.heights(samples, size)

	if err := p.grid.Write(p.out, heights, size.Width, size.Height); err != nil {
		return err
	}

	p.rendered.Add(1)

	return nil
}

// Heights computes the bar heights for samples on a grid of size without
// writing anything. The smoother history advances as in ProcessBuffer.
func (p *Pipeline) Heights(samples []float32, size render.Size) []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.heights(samples, size)
}

func (p *Pipeline) heights(samples []float32, size render.Size) []int {
	spec := p.transform.Apply(samples)
	usable := spectrum.UsableBins(spec, p.cfg.AllBins)
	magnitudes := spectrum.Bucketize(spec, usable, size.Width)
	levels := p.levels.MapAll(magnitudes)

	return p.smoother.Heights(levels, size.Height)
}

// Stats returns the rendered and skipped buffer counts.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Rendered: p.rendered.Load(),
		Skipped:  p.skipped.Load(),
	}
}
