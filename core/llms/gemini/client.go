package gemini

import (
	"context"

	"github.com/usakkolabs/usakko-core/core/llms"
)

// Client is a reusable generation client bound to an API key and model.
type Client struct {
	apiKey string
	model  string
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithModel overrides [DefaultModel].
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// NewClient creates a generation client. The API key is passed through on
// every request; it is not validated up front.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		apiKey: apiKey,
		model:  DefaultModel,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Prompt sends a single generateContent request using the client's key and
// model.
func (c *Client) Prompt(ctx context.Context, prompt string, opts ...llms.PromptOption) (*llms.Response, error) {
	return Prompt(ctx, c.apiKey, c.model, prompt, "", opts...)
}
