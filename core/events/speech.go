package events

const (
	// KindSpeechStarted identifies the start of utterance playback.
	KindSpeechStarted Kind = "speech.started"
	// KindSpeechEnded identifies the end of utterance playback.
	KindSpeechEnded Kind = "speech.ended"
)

// SpeechStarted reports that playback of a synthesized utterance began.
type SpeechStarted struct {
	Base
	UtteranceID string
}

// NewSpeechStarted creates a speech started event.
func NewSpeechStarted(utteranceID string) SpeechStarted {
	return SpeechStarted{Base: NewBase(KindSpeechStarted), UtteranceID: utteranceID}
}

// SpeechEnded reports that playback of a synthesized utterance finished.
type SpeechEnded struct {
	Base
	UtteranceID string
}

// NewSpeechEnded creates a speech ended event.
func NewSpeechEnded(utteranceID string) SpeechEnded {
	return SpeechEnded{Base: NewBase(KindSpeechEnded), UtteranceID: utteranceID}
}
