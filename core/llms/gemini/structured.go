package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/usakkolabs/usakko-core/core/llms"
	"go.opentelemetry.io/otel/attribute"
)

// PromptJSONSchema sends a generateContent request constrained to a JSON
// schema reflected from the output type and unmarshals the candidate into it.
func PromptJSONSchema[T any](
	ctx context.Context,
	apiKey string,
	model string,
	prompt string,
	systemPrompt string,
	outputSchema T,
	opts ...llms.PromptOption,
) (*T, error) {
	ctx, span := tracer.Start(ctx, "prompt llm structured")
	defer span.End()

	options := llms.PromptOptions{Instructions: systemPrompt}
	for _, opt := range opts {
		opt(&options)
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	var schema *jsonschema.Schema
	if reflect.TypeOf(outputSchema).Kind() == reflect.Ptr {
		schema = reflector.ReflectFromType(reflect.TypeOf(outputSchema).Elem())
	} else {
		schema = reflector.Reflect(outputSchema)
	}
	// The API rejects schemas carrying a $schema version marker.
	schema.Version = ""

	reqBody := requestBody{
		SystemInstruction: toSystemInstruction(options.Instructions),
		Contents:          toContents(options.Turns, prompt),
		GenerationConfig: &generationConfig{
			Temperature:        options.Temperature,
			ResponseMimeType:   "application/json",
			ResponseJSONSchema: schema,
		},
	}

	span.SetAttributes(attribute.String("request.model", model))
	schemaString, _ := schema.MarshalJSON()
	span.SetAttributes(attribute.String("request.schema", string(schemaString)))

	response, err := doGenerateContent(ctx, apiKey, model, reqBody)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return nil, err
	}

	var output T
	if err := json.Unmarshal([]byte(response.collectText()), &output); err != nil {
		err = fmt.Errorf("error unmarshalling structured response: %w", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return nil, err
	}

	return &output, nil
}
