// Package encoder turns a captured sample buffer into an on-disk audio
// artifact for upload.
package encoder

import "fmt"

const (
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

type Encoder interface {
	// Encode writes the mono float32 buffer to path at the given rate.
	Encode(path string, samples []float32, sampleRate int) error
	// Ext is the artifact file extension without the dot.
	Ext() string
}

func New(format string) (Encoder, error) {
	switch format {
	case "wav":
		return &WavEncoder{}, nil
	case "flac":
		return &FlacEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// pcm16 converts float samples to 16-bit PCM, clipping to [-1, 1] first so
// out-of-range input wraps to full scale instead of garbage.
func pcm16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		out[i] = int16(s * 32767)
	}
	return out
}
