// Package pcm holds the arithmetic and buffering for interleaved PCM audio
// shared by the resampler and the audio sink.
package pcm

import "math"

// Output layout produced by the resampling pipeline.
const (
	Channels       = 2
	BytesPerSample = 2
)

// ExpectedSamples returns the number of output samples a resampler may
// produce for a frame of frameSamples input samples when delay samples are
// still buffered inside it. Both are expressed at the output rate.
func ExpectedSamples(delay, frameSamples int64) int {
	if delay < 0 {
		delay = 0
	}
	if frameSamples < 0 {
		frameSamples = 0
	}
	return int(math.Ceil(float64(delay + frameSamples)))
}

// BufferSize returns the byte length of samples interleaved samples.
func BufferSize(samples, channels, bytesPerSample int) int {
	if samples <= 0 || channels <= 0 || bytesPerSample <= 0 {
		return 0
	}
	return samples * channels * bytesPerSample
}
