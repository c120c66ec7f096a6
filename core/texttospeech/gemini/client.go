// Package gemini synthesizes speech through the Gemini TTS models.
//
// The API returns base64-encoded raw 16-bit PCM at 24kHz, which is exactly
// what the audio package decodes, so the payload is passed through untouched.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/usakkolabs/usakko-core/core/texttospeech"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	baseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// DefaultModel is the TTS-capable generation model.
	DefaultModel = "gemini-2.5-flash-preview-tts"
	// DefaultVoice is the prebuilt voice used when no voice option is given.
	DefaultVoice = "Kore"
)

type SynthesisClient struct {
	apiKey string
	model  string
}

type SynthesisClientOption func(*SynthesisClient)

// WithModel overrides the TTS model.
func WithModel(model string) SynthesisClientOption {
	return func(c *SynthesisClient) { c.model = model }
}

func NewSynthesisClient(apiKey string, opts ...SynthesisClientOption) *SynthesisClient {
	client := &SynthesisClient{apiKey: apiKey, model: DefaultModel}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type requestBody struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type responseBody struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Synthesize converts text to speech and returns the base64 PCM payload.
//
// A response without audio data is a normal outcome and returns an empty
// payload with no error.
func (c *SynthesisClient) Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) (string, error) {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()

	options := texttospeech.SynthesisOptions{Voice: DefaultVoice}
	for _, opt := range opts {
		opt(&options)
	}

	reqBody := requestBody{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: options.Voice},
				},
			},
		},
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent", baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	span.SetAttributes(
		attribute.String("request.model", c.model),
		attribute.String("request.voice", options.Voice),
	)

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	resp, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading response body: %w", err)
		span.RecordError(err)
		return "", err
	}

	var response responseBody
	if err := json.Unmarshal(body, &response); err != nil {
		err = fmt.Errorf("error unmarshalling JSON: %w", err)
		span.RecordError(err)
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		if response.Error != nil {
			err = fmt.Errorf("non-OK HTTP status %s: %s", resp.Status, response.Error.Message)
		} else {
			err = fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		}
		span.RecordError(err)
		return "", err
	}

	return extractAudioPayload(response), nil
}

// extractAudioPayload returns the first inline audio payload, empty when the
// response carries none.
func extractAudioPayload(response responseBody) string {
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData.Data
			}
		}
	}
	return ""
}
