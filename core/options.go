package dialogue

import (
	"context"

	"github.com/usakkolabs/usakko-core/core/audio"
	"github.com/usakkolabs/usakko-core/core/events"
	"github.com/usakkolabs/usakko-core/core/llms"
	"github.com/usakkolabs/usakko-core/core/texttospeech"
)

type OrchestratorOption func(*Orchestrator)

// Generator produces assistant replies. Failures are caught at the
// orchestrator boundary and surfaced as an apology turn, never propagated.
type Generator interface {
	Prompt(ctx context.Context, prompt string, opts ...llms.PromptOption) (*llms.Response, error)
}

func WithGenerator(client Generator) OrchestratorOption {
	return func(o *Orchestrator) { o.generator = client }
}

// Synthesizer turns assistant text into base64-encoded PCM audio. An empty
// payload is a normal, silent outcome, not an error.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) (string, error)
}

func WithSynthesizer(client Synthesizer) OrchestratorOption {
	return func(o *Orchestrator) { o.synthesizer = client }
}

// SpeechPlayer plays a decoded sample buffer to completion.
type SpeechPlayer interface {
	Play(ctx context.Context, buffer *audio.SampleBuffer) error
}

func WithSpeechPlayer(client SpeechPlayer) OrchestratorOption {
	return func(o *Orchestrator) { o.player = client }
}

// ModeClassifier infers a mode-switch intent from free text. It is
// consulted only from the start screen, and only after lexical routing
// found nothing; its failure falls back to ordinary generation.
type ModeClassifier interface {
	Classify(ctx context.Context, text string) (Mode, bool, error)
}

func WithModeClassifier(classifier ModeClassifier) OrchestratorOption {
	return func(o *Orchestrator) { o.classifier = classifier }
}

// WithRouter replaces the default trigger router.
func WithRouter(router *Router) OrchestratorOption {
	return func(o *Orchestrator) { o.router = router }
}

// WithGreeting replaces the default start-screen greeting.
func WithGreeting(greeting string) OrchestratorOption {
	return func(o *Orchestrator) { o.greeting = greeting }
}

// WithSynthesisVoice sets the voice passed to the synthesizer.
func WithSynthesisVoice(voice string) OrchestratorOption {
	return func(o *Orchestrator) { o.voice = voice }
}

type callbacks struct {
	onEvent                  func(events.Event)
	onModeChanged            func(previous, current Mode)
	onReset                  func()
	onTurnAppended           func(role llms.TurnRole, content string, mode Mode)
	onGenerationStateChanged func(generating bool)
	onSpeechStateChanged     func(speaking bool)
}

// OnEvent registers a callback receiving every emitted event, for callers
// that want the raw stream instead of the typed callbacks below.
func OnEvent(callback func(events.Event)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onEvent = callback }
}

// OnModeChanged registers a callback invoked after every persona switch,
// including in-band and external resets.
func OnModeChanged(callback func(previous, current Mode)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onModeChanged = callback }
}

// OnReset registers a callback invoked after an external reset cleared the
// conversation log.
func OnReset(callback func()) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onReset = callback }
}

// OnTurnAppended registers a callback invoked for every turn appended to
// the conversation log, including the seeded greeting.
func OnTurnAppended(callback func(role llms.TurnRole, content string, mode Mode)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onTurnAppended = callback }
}

// OnGenerationStateChanged registers a callback invoked when a generation
// call is dispatched and when it resolves.
func OnGenerationStateChanged(callback func(generating bool)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onGenerationStateChanged = callback }
}

// OnSpeechStateChanged registers a callback invoked when utterance playback
// starts and ends. Playback is fire-and-forget, so it may arrive after the
// submitting call already returned.
func OnSpeechStateChanged(callback func(speaking bool)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onSpeechStateChanged = callback }
}
