package events

const (
	// KindGenerationStarted identifies a dispatched generation call.
	KindGenerationStarted Kind = "generation.started"
	// KindGenerationEnded identifies a resolved generation call.
	KindGenerationEnded Kind = "generation.ended"
)

// GenerationStarted reports a prompt dispatched to the generation backend.
// Mode is the mode captured at dispatch time; the eventual response is
// labeled with it even if the conversation was reset meanwhile.
type GenerationStarted struct {
	Base
	Mode string
}

// NewGenerationStarted creates a generation started event.
func NewGenerationStarted(mode string) GenerationStarted {
	return GenerationStarted{Base: NewBase(KindGenerationStarted), Mode: mode}
}

// GenerationEnded reports that a generation call resolved.
type GenerationEnded struct {
	Base
	Mode   string
	Failed bool
}

// NewGenerationEnded creates a generation ended event.
func NewGenerationEnded(mode string, failed bool) GenerationEnded {
	return GenerationEnded{Base: NewBase(KindGenerationEnded), Mode: mode, Failed: failed}
}
