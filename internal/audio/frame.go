package audio

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/alkime/visualizer/pkg/channels"
)

// Frame is one delivery of captured audio: an equal-length sample buffer
// per channel.
type Frame struct {
	SampleRate int
	Channels   [][]float32
}

// Len returns the per-channel sample count.
func (f Frame) Len() int {
	if len(f.Channels) == 0 {
		return 0
	}

	return len(f.Channels[0])
}

// Mono averages all channels into a single buffer.
func (f Frame) Mono() []float32 {
	switch len(f.Channels) {
	case 0:
		return nil
	case 1:
		return f.Channels[0]
	}

	out := make([]float32, f.Len())
	for _, ch := range f.Channels {
		for i := range out {
			out[i] += ch[i]
		}
	}

	scale := 1 / float32(len(f.Channels))
	for i := range out {
		out[i] *= scale
	}

	return out
}

// Source delivers frames into a mailbox until ctx is cancelled, the input
// ends (nil) or a fatal error occurs.
type Source interface {
	Stream(ctx context.Context, out *channels.Latest[Frame]) error
}

// Deinterleave splits interleaved samples into one buffer per channel.
// A trailing partial frame is dropped.
func Deinterleave(interleaved []float32, numChannels int) [][]float32 {
	if numChannels <= 0 {
		return nil
	}

	frames := len(interleaved) / numChannels
	out := make([][]float32, numChannels)
	for c := range out {
		out[c] = make([]float32, frames)
	}

	for i := range frames {
		for c := range numChannels {
			out[c][i] = interleaved[i*numChannels+c]
		}
	}

	return out
}

// BytesToFloat32 converts F32LE bytes to float32 samples. The input is
// copied, so the caller may reuse data.
func BytesToFloat32(data []byte) []float32 {
	numSamples := len(data) / 4
	if numSamples == 0 {
		return nil
	}

	samples := make([]float32, numSamples)
	for i := range numSamples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	return samples
}

// BytesToInt16 converts S16LE (signed 16-bit little-endian) bytes to int16 samples.
func BytesToInt16(data []byte) []int16 {
	numSamples := len(data) / 2
	if numSamples == 0 {
		return nil
	}

	samples := make([]int16, numSamples)

	for i := 0; i < numSamples; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}

	return samples
}
