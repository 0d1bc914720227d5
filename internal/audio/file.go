package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/alkime/visualizer/pkg/channels"
)

// FileConfig configures a FileSource.
type FileConfig struct {
	Path         string
	PeriodFrames int

	// Realtime paces delivery at the file's sample rate, like a capture
	// device would. When false frames are offered as fast as the consumer
	// takes them.
	Realtime bool

	// Handoff bounds how long an unpaced replay waits for the consumer to
	// take the previous frame before replacing it. Zero never waits.
	Handoff time.Duration
}

// FileSource replays a WAV or MP3 file through the same mailbox a capture
// device uses. Reaching the end of the file ends the stream cleanly.
type FileSource struct {
	conf FileConfig
}

// NewFileSource returns a FileSource for conf.
func NewFileSource(conf FileConfig) *FileSource {
	if conf.PeriodFrames <= 0 {
		conf.PeriodFrames = DefaultPeriodFrames
	}

	return &FileSource{conf: conf}
}

func (s *FileSource) handoff() time.Duration {
	if s.conf.Realtime {
		return 0
	}

	return s.conf.Handoff
}

// pcmReader yields fixed-size frames from a decoded file.
type pcmReader interface {
	SampleRate() int
	// ReadFrame returns up to n frames; io.EOF once nothing is left.
	ReadFrame(n int) (Frame, error)
}

// Stream implements Source.
func (s *FileSource) Stream(ctx context.Context, out *channels.Latest[Frame]) error {
	f, err := os.Open(s.conf.Path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer closeFile(f)

	r, err := newPCMReader(f)
	if err != nil {
		return err
	}

	var tick <-chan time.Time
	if s.conf.Realtime && r.SampleRate() > 0 {
		period := time.Duration(s.conf.PeriodFrames) * time.Second / time.Duration(r.SampleRate())
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		tick = ticker.C
	}

	slog.Info("replaying audio file", "path", s.conf.Path, "sampleRate", r.SampleRate())

	for {
		frame, err := r.ReadFrame(s.conf.PeriodFrames)
		if errors.Is(err, io.EOF) {
			slog.Info("audio file finished", "path", s.conf.Path)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to decode audio file: %w", err)
		}

		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return nil
			}
		} else if ctx.Err() != nil {
			return nil
		}

		if err := out.OfferWithin(frame, s.handoff()); err != nil {
			return nil //nolint:nilerr // consumer has gone away; nothing left to feed
		}
	}
}

// newPCMReader detects format by file extension.
func newPCMReader(f *os.File) (pcmReader, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".wav":
		return newWAVReader(f)
	case ".mp3":
		return newMP3Reader(f)
	case ".ogg", ".oga":
		return newOGGReader(f)
	case ".flac":
		return newFLACReader(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
}

// --- WAV ---

type wavReader struct {
	dec      *wav.Decoder
	channels int
	rate     int
	scale    float32
	offset   int
	buf      *goaudio.IntBuffer
}

func newWAVReader(r io.ReadSeeker) (*wavReader, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file", ErrUnsupportedFile)
	}

	// FwdToPCM positions the reader at the start of PCM data
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	wr := &wavReader{
		dec:      dec,
		channels: int(dec.NumChans),
		rate:     int(dec.SampleRate),
		scale:    float32(int(1) << (bitDepth - 1)),
	}
	// 8-bit PCM is unsigned.
	if bitDepth == 8 {
		wr.offset = 128
	}

	if wr.channels <= 0 {
		return nil, fmt.Errorf("%w: WAV file has no channels", ErrUnsupportedFile)
	}

	wr.buf = &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: wr.channels, SampleRate: wr.rate},
		SourceBitDepth: bitDepth,
	}

	return wr, nil
}

func (w *wavReader) SampleRate() int { return w.rate }

func (w *wavReader) ReadFrame(n int) (Frame, error) {
	want := n * w.channels
	if cap(w.buf.Data) < want {
		w.buf.Data = make([]int, want)
	}
	w.buf.Data = w.buf.Data[:want]

	read, err := w.dec.PCMBuffer(w.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Frame{}, fmt.Errorf("reading WAV samples: %w", err)
	}

	read -= read % w.channels
	if read == 0 {
		return Frame{}, io.EOF
	}

	samples := make([]float32, read)
	for i, v := range w.buf.Data[:read] {
		samples[i] = float32(v-w.offset) / w.scale
	}

	return Frame{SampleRate: w.rate, Channels: Deinterleave(samples, w.channels)}, nil
}

// --- MP3 ---

// go-mp3 always decodes to 16-bit little-endian stereo.
const mp3Channels = 2

type mp3Reader struct {
	dec *mp3.Decoder
	buf []byte
}

func newMP3Reader(r io.Reader) (*mp3Reader, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFile, err)
	}

	return &mp3Reader{dec: dec}, nil
}

func (m *mp3Reader) SampleRate() int { return m.dec.SampleRate() }

func (m *mp3Reader) ReadFrame(n int) (Frame, error) {
	want := n * mp3Channels * 2
	if cap(m.buf) < want {
		m.buf = make([]byte, want)
	}
	m.buf = m.buf[:want]

	read, err := io.ReadFull(m.dec, m.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Frame{}, fmt.Errorf("reading MP3 samples: %w", err)
	}

	ints := BytesToInt16(m.buf[:read-read%(mp3Channels*2)])
	if len(ints) == 0 {
		return Frame{}, io.EOF
	}

	samples := make([]float32, len(ints))
	for i, v := range ints {
		samples[i] = float32(v) / 32768.0
	}

	return Frame{SampleRate: m.SampleRate(), Channels: Deinterleave(samples, mp3Channels)}, nil
}

// --- OGG Vorbis ---

type oggReader struct {
	dec      *oggvorbis.Reader
	channels int
}

func newOGGReader(r io.Reader) (*oggReader, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFile, err)
	}

	if dec.Channels() <= 0 {
		return nil, fmt.Errorf("%w: OGG stream has no channels", ErrUnsupportedFile)
	}

	return &oggReader{dec: dec, channels: dec.Channels()}, nil
}

func (o *oggReader) SampleRate() int { return o.dec.SampleRate() }

func (o *oggReader) ReadFrame(n int) (Frame, error) {
	// Read returns interleaved values, a multiple of the channel count,
	// and may stop short of the buffer at packet boundaries.
	samples := make([]float32, n*o.channels)
	read := 0
	for read < len(samples) {
		k, err := o.dec.Read(samples[read:])
		read += k
		if errors.Is(err, io.EOF) || (err == nil && k == 0) {
			break
		}
		if err != nil {
			return Frame{}, fmt.Errorf("reading OGG samples: %w", err)
		}
	}

	read -= read % o.channels
	if read == 0 {
		return Frame{}, io.EOF
	}

	return Frame{SampleRate: o.SampleRate(), Channels: Deinterleave(samples[:read], o.channels)}, nil
}

// --- FLAC ---

type flacReader struct {
	stream   *flac.Stream
	channels int
	rate     int
	scale    float32
	pending  []float32 // interleaved samples decoded but not yet delivered
}

func newFLACReader(r io.Reader) (*flacReader, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFile, err)
	}

	info := stream.Info
	if info.NChannels == 0 || info.BitsPerSample == 0 {
		return nil, fmt.Errorf("%w: FLAC stream has no channels", ErrUnsupportedFile)
	}

	return &flacReader{
		stream:   stream,
		channels: int(info.NChannels),
		rate:     int(info.SampleRate),
		scale:    float32(int64(1) << (info.BitsPerSample - 1)),
	}, nil
}

func (f *flacReader) SampleRate() int { return f.rate }

func (f *flacReader) ReadFrame(n int) (Frame, error) {
	want := n * f.channels

	for len(f.pending) < want {
		block, err := f.stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Frame{}, fmt.Errorf("reading FLAC samples: %w", err)
		}

		for i := range int(block.Subframes[0].NSamples) {
			for ch := range f.channels {
				f.pending = append(f.pending, float32(block.Subframes[ch].Samples[i])/f.scale)
			}
		}
	}

	take := min(want, len(f.pending))
	take -= take % f.channels
	if take == 0 {
		return Frame{}, io.EOF
	}

	frame := Frame{SampleRate: f.rate, Channels: Deinterleave(f.pending[:take], f.channels)}
	f.pending = append(f.pending[:0], f.pending[take:]...)

	return frame, nil
}

func closeFile(f *os.File) {
	if err := f.Close(); err != nil {
		slog.Warn("failed to close file descriptor", "error", err)
	}
}
