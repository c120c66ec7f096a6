// Package portaudio is an alternative playback backend built on PortAudio.
// Like the miniaudio backend it opens and closes a stream per utterance.
package portaudio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/usakkolabs/usakko-core/core/audio"
)

const framesPerBuffer = 1024

type Player struct{}

func NewPlayer() *Player {
	return &Player{}
}

// Play blocks until the buffer has been written to the output stream or the
// context is cancelled.
func (p *Player) Play(ctx context.Context, buffer *audio.SampleBuffer) error {
	if buffer == nil || buffer.FrameCount() == 0 {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	channels := buffer.NumChannels()
	out := make([]float32, framesPerBuffer*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(buffer.SampleRate), framesPerBuffer, &out)
	if err != nil {
		return fmt.Errorf("failed to open PortAudio stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start PortAudio stream: %w", err)
	}
	defer stream.Stop()

	frames := buffer.FrameCount()
	for offset := 0; offset < frames; offset += framesPerBuffer {
		if err := ctx.Err(); err != nil {
			return err
		}

		for frame := 0; frame < framesPerBuffer; frame++ {
			for channel := 0; channel < channels; channel++ {
				sample := float32(0)
				if offset+frame < frames {
					sample = buffer.Channels[channel][offset+frame]
				}
				out[frame*channels+channel] = sample
			}
		}

		if err := stream.Write(); err != nil {
			return fmt.Errorf("failed to write to PortAudio stream: %w", err)
		}
	}

	return nil
}
