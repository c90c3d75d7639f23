package tts

import (
	"encoding/binary"
	"time"
)

// SampleRate of the synthesized audio: 24 kHz mono 16-bit signed PCM.
const SampleRate = 24000

// DecodePCM16 converts raw little-endian 16-bit PCM into normalized
// floating-point samples in [-1, 1).
func DecodePCM16(data []byte) []float32 {
	frames := len(data) / 2
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(s) / 32768.0
	}
	return samples
}

// Duration reports how long a decoded sample buffer plays for.
func Duration(samples []float32) time.Duration {
	return time.Duration(float64(len(samples)) / SampleRate * float64(time.Second))
}
