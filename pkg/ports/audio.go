package ports

import "io"

// AudioFormat describes interleaved signed little-endian PCM.
type AudioFormat struct {
	SampleRate     int
	Channels       int
	BytesPerSample int
}

// AudioSinkOptions configures an audio sink when it is opened.
type AudioSinkOptions struct {
	// BufferSize is the number of PCM bytes the sink can hold ahead of the
	// device.
	BufferSize int

	// LowLatency asks the device for its smallest internal buffer.
	LowLatency bool

	// Volume is the initial volume in [0, 1].
	Volume float64
}

// AudioOutput opens audio sinks.
type AudioOutput interface {
	Open(format AudioFormat, opts AudioSinkOptions) (AudioSink, error)
}

// AudioSink is a writable PCM stream bound to one output format.
type AudioSink interface {
	io.Writer

	// SetVolume applies a volume in [0, 1] without reopening the sink.
	SetVolume(volume float64)

	// Play starts consuming written samples.
	Play()

	// Discard drops written samples the device has not consumed yet.
	Discard()

	// Close stops playback and releases the sink.
	Close() error
}
