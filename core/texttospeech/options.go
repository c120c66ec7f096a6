// Package texttospeech holds the options shared by the speech synthesis
// backends.
package texttospeech

import "github.com/usakkolabs/usakko-core/core/audio"

type SynthesisOptions struct {
	// EncodingInfo describes the audio encoding the backend should produce.
	// Zero value means the backend's default (24kHz mono linear16).
	EncodingInfo audio.EncodingInfo
	// Voice overrides the backend's default voice. Voice identifiers are
	// backend specific.
	Voice string
}

type SynthesisOption func(*SynthesisOptions)

// WithEncodingInfo sets the audio encoding the backend should produce.
func WithEncodingInfo(encodingInfo audio.EncodingInfo) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.EncodingInfo = encodingInfo
	}
}

// WithVoice sets the voice used for synthesis.
func WithVoice(voice string) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Voice = voice
	}
}
