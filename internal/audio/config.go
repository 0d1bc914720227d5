package audio

const (
	// DefaultSampleRate matches most desktop capture devices.
	DefaultSampleRate = 48_000
	// DefaultChannels captures stereo.
	DefaultChannels = 2
	// DefaultPeriodFrames is the number of frames delivered per callback.
	DefaultPeriodFrames = 1024
)

// DeviceConfig configures live capture.
type DeviceConfig struct {
	SampleRate   int
	Channels     int
	PeriodFrames int

	// Sources lists lower-cased capture device names to choose from. The
	// first device whose name matches is used; empty selects the default.
	Sources []string
}

// WithDefaults returns a config with default values applied to zero fields.
func (c DeviceConfig) WithDefaults() DeviceConfig {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}

	if c.Channels <= 0 {
		c.Channels = DefaultChannels
	}

	if c.PeriodFrames <= 0 {
		c.PeriodFrames = DefaultPeriodFrames
	}

	return c
}
