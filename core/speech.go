package dialogue

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/usakkolabs/usakko-core/core/audio"
	"github.com/usakkolabs/usakko-core/core/content"
	"github.com/usakkolabs/usakko-core/core/events"
	"github.com/usakkolabs/usakko-core/core/texttospeech"
)

// speak synthesizes and plays an assistant turn in the background. It is
// fire-and-forget: playback neither blocks nor is blocked by the next
// turn's dispatch, and overlapping utterances are accepted behavior. The
// audio pipeline is created fresh per utterance and not pooled.
func (o *Orchestrator) speak(ctx context.Context, text string) {
	if o.synthesizer == nil || o.player == nil {
		return
	}

	spoken := spokenText(text)
	if spoken == "" {
		return
	}

	// Playback outlives the submitting call; only cancellation is dropped,
	// the trace linkage is kept.
	ctx = context.WithoutCancel(ctx)

	go func() {
		ctx, span := tracer.Start(ctx, "speak utterance")
		defer span.End()

		utteranceID := uuid.NewString()
		span.SetAttributes(attribute.String("utterance.id", utteranceID))

		var opts []texttospeech.SynthesisOption
		if o.voice != "" {
			opts = append(opts, texttospeech.WithVoice(o.voice))
		}

		payload, err := o.synthesizer.Synthesize(ctx, spoken, opts...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.WarnContext(ctx, "speech synthesis failed", "error", err)
			return
		}
		if payload == "" {
			// Absence of audio is a normal, silent outcome.
			return
		}

		buffer, err := audio.DecodeBase64PCM16(payload, audio.DefaultSampleRate, audio.DefaultChannels)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.WarnContext(ctx, "failed to decode synthesized audio", "error", err)
			return
		}

		o.emitEvent(events.NewSpeechStarted(utteranceID))
		defer o.emitEvent(events.NewSpeechEnded(utteranceID))

		if err := o.player.Play(ctx, buffer); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.WarnContext(ctx, "speech playback failed", "error", err)
		}
	}()
}

// spokenText reduces an assistant turn to what should be read aloud:
// flashcard markup is dropped and only the prose blocks are kept.
func spokenText(text string) string {
	var parts []string
	for _, block := range content.Parse(text) {
		if prose, ok := block.(content.Prose); ok {
			parts = append(parts, prose.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
