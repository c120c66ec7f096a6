// Package llm provides a generation-backed mode classifier, for catching
// switch intents the lexical trigger router cannot see ("クイズがしたい"
// contains no trigger token). It is opt-in and strictly best-effort.
package llm

import (
	"context"
	_ "embed"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	dialogue "github.com/usakkolabs/usakko-core/core"
	"github.com/usakkolabs/usakko-core/core/llms"
	"github.com/usakkolabs/usakko-core/core/llms/gemini"
)

//go:embed classifierInstr.tmpl
var modeClassifierSystemPrompt string

// Classification is the structured output contract with the backend.
type Classification struct {
	Intent string `json:"intent" jsonschema:"title=Intent,description=The learning mode the child is asking for,enum=reflect,enum=training,enum=idea,enum=none"`
}

// Classifier infers mode-switch intents from free text.
type Classifier struct {
	apiKey string
	model  string
}

// ClassifierOption configures a [Classifier].
type ClassifierOption func(*Classifier)

// WithModel overrides [gemini.DefaultModel] for classification calls.
func WithModel(model string) ClassifierOption {
	return func(c *Classifier) {
		c.model = model
	}
}

// NewClassifier creates a classifier that calls the generation backend
// with a structured output schema.
func NewClassifier(apiKey string, opts ...ClassifierOption) *Classifier {
	classifier := &Classifier{
		apiKey: apiKey,
		model:  gemini.DefaultModel,
	}

	for _, opt := range opts {
		opt(classifier)
	}

	return classifier
}

// Classify returns the mode the text asks for, if any. A "none" intent is
// reported as no switch, not as an error.
func (c *Classifier) Classify(ctx context.Context, text string) (dialogue.Mode, bool, error) {
	ctx, span := tracer.Start(ctx, "classify mode intent")
	defer span.End()

	response, err := gemini.PromptJSONSchema(ctx, c.apiKey, c.model, text,
		modeClassifierSystemPrompt, Classification{},
		llms.WithTemperature(0),
	)
	if err != nil {
		span.RecordError(err)
		return dialogue.ModeUnselected, false, fmt.Errorf("failed to prompt mode classifier: %w", err)
	}

	span.SetAttributes(attribute.String("classification.intent", response.Intent))

	mode, err := toMode(response.Intent)
	if err != nil {
		return dialogue.ModeUnselected, false, err
	}
	return mode, mode != dialogue.ModeUnselected, nil
}

func toMode(intent string) (dialogue.Mode, error) {
	switch intent {
	case "reflect":
		return dialogue.ModeReflect, nil
	case "training":
		return dialogue.ModeTraining, nil
	case "idea":
		return dialogue.ModeIdea, nil
	case "none":
		return dialogue.ModeUnselected, nil
	default:
		return dialogue.ModeUnselected, fmt.Errorf("unknown mode intent: %s", intent)
	}
}
