// Package miniaudio plays decoded sample buffers through malgo.
//
// Playback is per utterance: every Play call initializes a fresh device,
// drains the buffer and tears the device down again. Nothing is pooled, two
// overlapping calls play over each other, which is accepted behavior.
package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/usakkolabs/usakko-core/core/audio"
)

type Player struct{}

func NewPlayer() *Player {
	return &Player{}
}

// Play blocks until the buffer has been fully handed to the output device or
// the context is cancelled.
func (p *Player) Play(ctx context.Context, buffer *audio.SampleBuffer) error {
	if buffer == nil || buffer.FrameCount() == 0 {
		return nil
	}

	audioContext, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return fmt.Errorf("malgo InitContext failed: %w", err)
	}
	defer func() {
		_ = audioContext.Uninit()
		audioContext.Free()
	}()

	channels := buffer.NumChannels()
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = uint32(buffer.SampleRate)
	config.Playback.Format = format
	config.Playback.Channels = uint32(channels)
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = uint32(buffer.SampleRate) / 10 // ~100ms of audio
	config.Periods = 4

	data := audio.EncodePCM16(buffer)
	playhead := 0
	var mu sync.Mutex
	done := make(chan struct{})
	var doneOnce sync.Once

	onData := func(pOutput, _ []byte, frameCount uint32) {
		mu.Lock()
		defer mu.Unlock()

		need := int(frameCount) * bytesPerFrame
		remaining := len(data) - playhead
		if remaining <= 0 {
			doneOnce.Do(func() { close(done) })
			return
		}

		if remaining < need {
			copy(pOutput, data[playhead:])
			playhead = len(data)
			doneOnce.Do(func() { close(done) })
			return
		}

		copy(pOutput, data[playhead:playhead+need])
		playhead += need
	}

	device, err := malgo.InitDevice(
		audioContext.Context,
		config,
		malgo.DeviceCallbacks{Data: onData},
	)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		_ = device.Stop()
		return ctx.Err()
	}

	if err := device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	return nil
}
