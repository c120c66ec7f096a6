package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// SampleBuffer holds decoded audio as normalized float samples, one slice per
// channel. Buffers are produced per utterance and handed straight to a
// playback client, they are not pooled or reused.
type SampleBuffer struct {
	SampleRate int
	Channels   [][]float32
}

// NumChannels returns the channel count of the buffer.
func (b *SampleBuffer) NumChannels() int {
	return len(b.Channels)
}

// FrameCount returns the number of frames (samples per channel) in the
// buffer, 0 when the buffer holds no channels.
func (b *SampleBuffer) FrameCount() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback length of the buffer in seconds.
func (b *SampleBuffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(b.FrameCount()) / float64(b.SampleRate)
}

// DecodePCM16 interprets data as interleaved signed 16-bit little-endian PCM
// and de-interleaves it into per-channel samples normalized to [-1, 1].
//
// Trailing bytes that do not make up a whole frame are discarded. The sample
// rate is taken at face value from the caller, it is metadata the raw stream
// does not carry. The transform is deterministic: the same bytes and
// parameters always produce the same samples.
func DecodePCM16(data []byte, sampleRate int, channels int) *SampleBuffer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if channels <= 0 {
		channels = DefaultChannels
	}

	bytesPerFrame := 2 * channels
	frames := len(data) / bytesPerFrame

	buffer := &SampleBuffer{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for channel := range buffer.Channels {
		buffer.Channels[channel] = make([]float32, frames)
	}

	for frame := 0; frame < frames; frame++ {
		for channel := 0; channel < channels; channel++ {
			offset := (frame*channels + channel) * 2
			sample := int16(binary.LittleEndian.Uint16(data[offset:]))
			buffer.Channels[channel][frame] = float32(sample) / 32768.0
		}
	}

	return buffer
}

// DecodeBase64PCM16 decodes a base64 payload and passes the raw bytes through
// [DecodePCM16]. The only error condition is invalid base64, malformed PCM
// degrades to a truncated buffer instead.
func DecodeBase64PCM16(payload string, sampleRate int, channels int) (*SampleBuffer, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 audio payload: %w", err)
	}

	return DecodePCM16(data, sampleRate, channels), nil
}

// EncodePCM16 re-quantizes a sample buffer back into interleaved signed
// 16-bit little-endian PCM. Samples outside [-1, 1] are clamped. This is the
// inverse of [DecodePCM16] up to quantization and is what the playback
// clients feed to s16 output devices.
func EncodePCM16(buffer *SampleBuffer) []byte {
	channels := buffer.NumChannels()
	if channels == 0 {
		return nil
	}

	frames := buffer.FrameCount()
	data := make([]byte, frames*channels*2)
	for frame := 0; frame < frames; frame++ {
		for channel := 0; channel < channels; channel++ {
			sample := buffer.Channels[channel][frame]
			if sample > 1 {
				sample = 1
			} else if sample < -1 {
				sample = -1
			}

			quantized := int16(sample * 32767.0)
			offset := (frame*channels + channel) * 2
			binary.LittleEndian.PutUint16(data[offset:], uint16(quantized))
		}
	}

	return data
}
