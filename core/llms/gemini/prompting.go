package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/usakkolabs/usakko-core/core/llms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	baseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// DefaultModel is the generation model the tutoring personas were tuned
	// against.
	DefaultModel = "gemini-3-flash-preview"
)

// Prompt sends a single generateContent request and returns the first
// candidate's text.
func Prompt(
	ctx context.Context,
	apiKey string,
	model string,
	prompt string,
	systemPrompt string,
	opts ...llms.PromptOption,
) (*llms.Response, error) {
	ctx, span := tracer.Start(ctx, "prompt llm")
	defer span.End()

	options := llms.PromptOptions{Instructions: systemPrompt}
	for _, opt := range opts {
		opt(&options)
	}

	reqBody := requestBody{
		SystemInstruction: toSystemInstruction(options.Instructions),
		Contents:          toContents(options.Turns, prompt),
	}
	if options.Temperature != nil {
		reqBody.GenerationConfig = &generationConfig{Temperature: options.Temperature}
	}

	span.SetAttributes(attribute.String("request.model", model))

	response, err := doGenerateContent(ctx, apiKey, model, reqBody)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return nil, err
	}

	return &llms.Response{Content: response.collectText()}, nil
}

// doGenerateContent performs the HTTP round trip shared by plain and
// structured prompting.
func doGenerateContent(ctx context.Context, apiKey, model string, reqBody requestBody) (*responseBody, error) {
	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling JSON: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", baseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	var response responseBody
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error unmarshalling JSON: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var err error
		if response.Error != nil {
			err = fmt.Errorf("non-OK HTTP status %s: %s", resp.Status, response.Error.Message)
		} else {
			err = fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		}
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &response, nil
}
