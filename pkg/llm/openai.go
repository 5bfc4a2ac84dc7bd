package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4oMini,
		modelName: "gpt-4o-mini",
	}
}

// Classify routes the query. Temperature 0 keeps the same (query, history)
// pair classifying the same way across calls.
func (c *OpenAIClient) Classify(ctx context.Context, query string, history []model.Turn) (model.Route, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Temperature: openai.Float(0),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(routerSystemPrompt),
			openai.UserMessage(buildRouterUserPrompt(query, history)),
		},
	})
	if err != nil {
		return model.RouteGeneral, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return model.RouteGeneral, fmt.Errorf("no response from openai")
	}

	return model.ParseRoute(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPromptFor(req.Route)),
			openai.UserMessage(userPromptFor(req)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) ModelName() string {
	return c.modelName
}
