package gemini

import (
	"strings"

	"github.com/usakkolabs/usakko-core/core/llms"
)

type content struct {
	Role  contentRole `json:"role,omitempty"`
	Parts []part      `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type contentRole string

const (
	contentRoleUser  contentRole = "user"
	contentRoleModel contentRole = "model"
)

type generationConfig struct {
	Temperature        *float64 `json:"temperature,omitempty"`
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseJSONSchema any      `json:"responseJsonSchema,omitempty"`
}

type requestBody struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type responseBody struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// toContents maps prior conversation turns plus the current prompt into the
// contents array the API expects. Empty turns are skipped, the API rejects
// parts with no text.
func toContents(turns []llms.Turn, prompt string) []content {
	contents := []content{}
	for _, turn := range turns {
		if turn.Content == "" {
			continue
		}

		role := contentRoleUser
		if turn.Role == llms.TurnRoleAssistant {
			role = contentRoleModel
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: turn.Content}}})
	}

	return append(contents, content{Role: contentRoleUser, Parts: []part{{Text: prompt}}})
}

// toSystemInstruction wraps non-empty instructions in a content block.
func toSystemInstruction(instructions string) *content {
	if instructions == "" {
		return nil
	}
	return &content{Parts: []part{{Text: instructions}}}
}

// collectText concatenates the text parts of the first candidate.
func (r responseBody) collectText() string {
	if len(r.Candidates) == 0 {
		return ""
	}

	var text strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String()
}
