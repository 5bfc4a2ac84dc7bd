package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.ModelClaude3_5HaikuLatest,
		modelName: "claude-3-5-haiku-latest",
	}
}

func (c *AnthropicClient) Classify(ctx context.Context, query string, history []model.Turn) (model.Route, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   16,
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: routerSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildRouterUserPrompt(query, history))),
		},
	})
	if err != nil {
		return model.RouteGeneral, fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return model.RouteGeneral, fmt.Errorf("no response from anthropic")
	}

	return model.ParseRoute(resp.Content[0].Text), nil
}

func (c *AnthropicClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: systemPromptFor(req.Route)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPromptFor(req))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return resp.Content[0].Text, nil
}

func (c *AnthropicClient) ModelName() string {
	return c.modelName
}
