package audio

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/alkime/visualizer/pkg/channels"
	"github.com/alkime/visualizer/pkg/collections"
	"github.com/gen2brain/malgo"
)

// Device is a live capture source backed by the system's default audio
// backend.
type Device interface {
	Source

	// EnumerateDevices lists available capture devices.
	// It ignores any device configuration passed in.
	EnumerateDevices(ctx context.Context) ([]Info, error)
}

type device struct {
	conf DeviceConfig
}

// NewDevice returns a capture Device. Nothing is allocated until Stream.
func NewDevice(conf DeviceConfig) Device {
	return &device{conf: conf.WithDefaults()}
}

func (d *device) EnumerateDevices(ctx context.Context) ([]Info, error) {
	// Initialize an empty context. AFAICT this is fine for just
	// enumrating the available devices.
	devCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer uninitializeContext(devCtx)

	captureDevices, err := devCtx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to get capture devices: %w", err)
	}

	return collections.Apply(captureDevices, malgoDeviceInfoToDeviceInfo), nil
}

// Stream captures float32 frames into out until ctx is cancelled (nil) or
// the device stops by itself (ErrStreamStopped). The data callback runs on
// the backend's thread and never blocks: out drops stale frames.
//
//nolint:funlen // device setup, callbacks and teardown belong together
func (d *device) Stream(ctx context.Context, out *channels.Latest[Frame]) error {
	mgCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		slog.Debug("malgo audio device log", "msg", strings.TrimSpace(msg))
	})
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer uninitializeContext(mgCtx)

	devCnf := malgo.DefaultDeviceConfig(malgo.Capture)
	devCnf.Capture.Format = malgo.FormatF32
	devCnf.Capture.Channels = uint32(d.conf.Channels)
	devCnf.SampleRate = uint32(d.conf.SampleRate)
	devCnf.PeriodSizeInFrames = uint32(d.conf.PeriodFrames)

	if len(d.conf.Sources) > 0 {
		captureDevices, err := mgCtx.Devices(malgo.Capture)
		if err != nil {
			return fmt.Errorf("failed to get capture devices: %w", err)
		}

		names := collections.Apply(captureDevices, func(mdi malgo.DeviceInfo) string { return mdi.Name() })
		idx, ok := matchSource(names, d.conf.Sources)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoMatchingSource, strings.Join(d.conf.Sources, ", "))
		}

		slog.Info("capturing from source", "name", names[idx])
		devCnf.Capture.DeviceID = captureDevices[idx].ID.Pointer()
	}

	var (
		stopping atomic.Bool
		stopC    = make(chan struct{}, 1)
		numChans = d.conf.Channels
		rate     = d.conf.SampleRate
	)

	callBacks := malgo.DeviceCallbacks{
		Data: func(_, samples []byte, _ uint32) {
			frame := Frame{
				SampleRate: rate,
				Channels:   Deinterleave(BytesToFloat32(samples), numChans),
			}
			if err := out.Offer(frame); err != nil {
				slog.Debug("dropping captured frame", "error", err)
			}
		},
		Stop: func() {
			if stopping.Load() {
				return
			}
			select {
			case stopC <- struct{}{}:
			default:
			}
		},
	}

	mgDevice, err := malgo.InitDevice(mgCtx.Context, devCnf, callBacks)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo device: %w", err)
	}
	defer func() {
		stopping.Store(true)
		mgDevice.Uninit()
	}()

	if err := mgDevice.Start(); err != nil {
		return fmt.Errorf("failed to start malgo device: %w", err)
	}

	slog.Debug("capture started",
		"sampleRate", rate,
		"channels", numChans,
		"periodFrames", d.conf.PeriodFrames)

	select {
	case <-ctx.Done():
		stopping.Store(true)
		if err := mgDevice.Stop(); err != nil {
			slog.Warn("failed to stop audio device", "error", err)
		}
		return nil
	case <-stopC:
		return ErrStreamStopped
	}
}

// matchSource returns the index of the first name equal, ignoring case, to
// one of the wanted names.
func matchSource(names, wanted []string) (int, bool) {
	idx := slices.IndexFunc(names, func(name string) bool {
		return slices.Contains(wanted, strings.ToLower(strings.TrimSpace(name)))
	})

	return idx, idx >= 0
}

type Info struct {
	Name        string
	IsDefault   bool
	FormatCount int
	Formats     []string
}

func malgoDeviceInfoToDeviceInfo(mdi malgo.DeviceInfo) Info {
	formats := make([]string, len(mdi.Formats))
	for i, mf := range mdi.Formats {
		formats[i] = fmt.Sprintf("(SampleSizeBytes: %d, Channels: %d, SampleRate: %d)",
			malgo.SampleSizeInBytes(mf.Format),
			mf.Channels, mf.SampleRate)
	}
	return Info{
		Name:        mdi.Name(),
		IsDefault:   mdi.IsDefault != 0,
		FormatCount: int(mdi.FormatCount),
		Formats:     formats,
	}
}

// SortedNames returns the non-empty device names in ascending order.
func SortedNames(infos []Info) []string {
	names := collections.Apply(
		collections.Filter(infos, func(i Info) bool { return i.Name != "" }),
		func(i Info) string { return i.Name },
	)
	slices.Sort(names)

	return names
}

func uninitializeContext(deviceCtx *malgo.AllocatedContext) {
	if deviceCtx == nil {
		return
	}

	if err := deviceCtx.Uninit(); err != nil {
		slog.Error("failed to uninitialize malgo context", "error", err)
	}
	deviceCtx.Free()
}
