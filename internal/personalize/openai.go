package personalize

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider rewrites copy with a chat completion model.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider builds a provider; baseURL is optional and lets the
// service talk to an OpenAI-compatible gateway.
func NewOpenAIProvider(apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (p *OpenAIProvider) Rewrite(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(req)},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no chat choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

const systemPrompt = "You rewrite short marketing copy for a landing page so it speaks to a specific visitor. " +
	"Keep the meaning, language and approximate length. Reply with the new text only."

func userPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Element: %s\n", req.ElementType)
	if req.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", req.Tone)
	}
	if len(req.Profile) > 0 {
		keys := make([]string, 0, len(req.Profile))
		for k := range req.Profile {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("Visitor:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, req.Profile[k])
		}
	}
	fmt.Fprintf(&b, "Text: %s", req.Content)
	return b.String()
}
