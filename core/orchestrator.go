// Package dialogue owns the tutoring conversation state machine: the
// active persona mode, the append-only turn log, and the per-turn decision
// between applying a mode switch and forwarding to the generation backend.
package dialogue

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jinzhu/copier"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/usakkolabs/usakko-core/core/events"
	"github.com/usakkolabs/usakko-core/core/llms"
)

var (
	// ErrEmptyPrompt is returned when the submitted text is empty after
	// trimming.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrTurnInFlight is returned when a submission arrives while a prior
	// turn is still unresolved. Submissions are rejected outright, never
	// queued.
	ErrTurnInFlight = errors.New("a turn is already in flight")
)

// defaultTemperature is the sampling temperature the persona instructions
// were tuned against.
const defaultTemperature = 0.8

// Orchestrator drives one tutoring conversation. The zero value is not
// usable; construct with [New].
//
// All state is owned by the orchestrator and exposed only through read
// accessors; the only mutating entry points are [Orchestrator.Submit] and
// [Orchestrator.Reset].
type Orchestrator struct {
	mu    sync.Mutex
	busy  bool
	mode  Mode
	turns Turns

	router      *Router
	generator   Generator
	synthesizer Synthesizer
	player      SpeechPlayer
	classifier  ModeClassifier

	greeting  string
	voice     string
	callbacks callbacks
	emitEvent eventEmitter
}

// New creates an orchestrator on the start screen with the greeting turn
// already seeded. Without a [WithGenerator] collaborator every forwarded
// turn resolves to the apology.
func New(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		mode:      ModeUnselected,
		router:    NewRouter(),
		greeting:  Greeting,
		emitEvent: noopEventEmitter,
	}

	for _, opt := range opts {
		opt(o)
	}

	o.emitEvent = newCallbackEventEmitter(o.callbacks)
	o.appendTurn(newTurn(llms.TurnRoleAssistant, o.greeting, ModeUnselected))

	return o
}

// Submit processes one user turn to completion: it appends the user turn,
// then either applies a mode switch or forwards the text to the generation
// backend, and appends exactly one assistant turn in response (an
// announcement, a greeting, a generated reply, or the apology). It blocks
// until the assistant turn is appended; speech playback continues in the
// background after it returns.
//
// While a submission is unresolved further submissions fail with
// [ErrTurnInFlight].
func (o *Orchestrator) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyPrompt
	}

	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return ErrTurnInFlight
	}
	o.busy = true
	currentMode := o.mode
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	ctx, span := tracer.Start(ctx, "submit turn")
	defer span.End()
	span.SetAttributes(attribute.String("conversation.mode", string(currentMode)))

	o.appendTurn(newTurn(llms.TurnRoleUser, text, currentMode))

	if target, ok := o.router.Decide(text); ok {
		if target == ModeUnselected {
			o.returnToStart()
			return nil
		}
		if o.router.ShouldActivate(currentMode, text) {
			o.switchMode(ctx, target)
			return nil
		}
	} else if currentMode == ModeUnselected && o.classifier != nil {
		if target, ok := o.classifyMode(ctx, text); ok {
			o.switchMode(ctx, target)
			return nil
		}
	}

	o.generate(ctx, currentMode, text)
	return nil
}

// Reset forces the conversation back to the start screen, clearing the
// turn log and re-seeding the greeting. Unlike the in-band return-to-start
// trigger it discards history. A generation call already in flight is not
// aborted; its eventual turn keeps the mode captured at dispatch time.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	previous := o.mode
	o.mode = ModeUnselected
	o.turns.Clear()
	o.mu.Unlock()

	if previous != ModeUnselected {
		o.emitEvent(events.NewModeChanged(string(previous), string(ModeUnselected)))
	}
	o.emitEvent(events.NewConversationReset())
	o.appendTurn(newTurn(llms.TurnRoleAssistant, o.greeting, ModeUnselected))
}

// Mode returns the currently active persona mode.
func (o *Orchestrator) Mode() Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// IsBusy reports whether a submitted turn is still unresolved.
func (o *Orchestrator) IsBusy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Turns returns a copy of the conversation log, oldest first.
func (o *Orchestrator) Turns() []Turn {
	o.mu.Lock()
	defer o.mu.Unlock()

	var snapshot []Turn
	if err := copier.Copy(&snapshot, &o.turns.turns); err != nil {
		logger.Error("failed to copy conversation log", "error", err)
		return nil
	}
	return snapshot
}

// returnToStart handles the in-band return-to-start trigger: the mode
// resets and a fresh greeting is appended, but the log is kept.
func (o *Orchestrator) returnToStart() {
	o.mu.Lock()
	previous := o.mode
	o.mode = ModeUnselected
	o.mu.Unlock()

	if previous != ModeUnselected {
		o.emitEvent(events.NewModeChanged(string(previous), string(ModeUnselected)))
	}
	o.appendTurn(newTurn(llms.TurnRoleAssistant, o.greeting, ModeUnselected))
}

// switchMode applies a persona switch and announces it. Mode switches are
// free: they never consume a generation call.
func (o *Orchestrator) switchMode(ctx context.Context, target Mode) {
	profile, ok := Persona(target)
	if !ok {
		return
	}

	o.mu.Lock()
	previous := o.mode
	o.mode = target
	o.mu.Unlock()

	if previous != target {
		o.emitEvent(events.NewModeChanged(string(previous), string(target)))
	}

	text := announcement(profile)
	o.appendTurn(newTurn(llms.TurnRoleAssistant, text, target))
	o.speak(ctx, text)
}

// classifyMode consults the optional classifier. Classifier failure is
// never surfaced; the turn falls back to ordinary generation.
func (o *Orchestrator) classifyMode(ctx context.Context, text string) (Mode, bool) {
	target, ok, err := o.classifier.Classify(ctx, text)
	if err != nil {
		logger.WarnContext(ctx, "mode classification failed", "error", err)
		return ModeUnselected, false
	}
	if !ok || target == ModeUnselected {
		return ModeUnselected, false
	}
	if _, known := Persona(target); !known {
		return ModeUnselected, false
	}
	return target, true
}

// generate forwards the turn to the generation backend. The mode label on
// the resulting turn is the one captured at dispatch time, so a reset that
// lands while the call is outstanding does not relabel the response.
func (o *Orchestrator) generate(ctx context.Context, mode Mode, prompt string) {
	ctx, span := tracer.Start(ctx, "generate response")
	defer span.End()

	o.mu.Lock()
	history := o.turns.history()
	o.mu.Unlock()
	// The submitted text travels as the prompt, not as history.
	if len(history) > 0 {
		history = history[:len(history)-1]
	}

	o.emitEvent(events.NewGenerationStarted(string(mode)))

	var response *llms.Response
	var err error
	if o.generator == nil {
		err = errors.New("no generation client configured")
	} else {
		response, err = o.generator.Prompt(ctx, prompt,
			llms.WithInstructions(Instructions(mode)),
			llms.WithTurns(history...),
			llms.WithTemperature(defaultTemperature),
		)
	}

	if err != nil || response == nil {
		o.emitEvent(events.NewGenerationEnded(string(mode), true))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "generation failed", "error", err)
		}
		o.appendTurn(newTurn(llms.TurnRoleAssistant, Apology, ModeUnselected))
		return
	}

	o.emitEvent(events.NewGenerationEnded(string(mode), false))
	o.appendTurn(newTurn(llms.TurnRoleAssistant, response.Content, mode))
	o.speak(ctx, response.Content)
}

func (o *Orchestrator) appendTurn(turn Turn) {
	o.mu.Lock()
	o.turns.Push(turn)
	o.mu.Unlock()

	o.emitEvent(events.NewTurnAppended(turn.ID.String(), string(turn.Role), string(turn.Mode), turn.Content))
}
