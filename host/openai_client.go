package host

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"modelbridge/domain"
)

// OpenaiClient backs the gateway with an OpenAI-compatible upstream when the
// bridge runs standalone, without a real host runtime. The upstream's
// streaming deltas become the lazy fragment delivery the gateway flattens.
type OpenaiClient struct {
	BaseURL      string
	ApiKey       string
	Models       []domain.ModelDescriptor
	DefaultModel string
}

func (c *OpenaiClient) newClient() *openai.Client {
	config := openai.DefaultConfig(c.ApiKey)
	if c.BaseURL != "" {
		config.BaseURL = c.BaseURL
	}
	return openai.NewClientWithConfig(config)
}

// ListModels returns the configured model list when one is given, otherwise
// queries the upstream's model listing endpoint. When DefaultModel names one
// of the listed models it is moved to the front, so requests that name no
// model resolve to it.
func (c *OpenaiClient) ListModels(ctx context.Context) ([]domain.ModelDescriptor, error) {
	if len(c.Models) > 0 {
		return c.defaultFirst(c.Models), nil
	}

	list, err := c.newClient().ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list upstream models: %w", err)
	}

	models := make([]domain.ModelDescriptor, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, domain.ModelDescriptor{
			Id:     m.ID,
			Vendor: m.OwnedBy,
			Family: m.ID,
			Name:   m.ID,
		})
	}
	return c.defaultFirst(models), nil
}

// defaultFirst moves the configured default model to the front, leaving the
// rest of the list in order. A default that matches nothing changes nothing.
func (c *OpenaiClient) defaultFirst(models []domain.ModelDescriptor) []domain.ModelDescriptor {
	if c.DefaultModel == "" {
		return models
	}
	for i, m := range models {
		if m.Id != c.DefaultModel {
			continue
		}
		ordered := make([]domain.ModelDescriptor, 0, len(models))
		ordered = append(ordered, m)
		ordered = append(ordered, models[:i]...)
		ordered = append(ordered, models[i+1:]...)
		return ordered
	}
	return models
}

func (c *OpenaiClient) Invoke(ctx context.Context, model domain.ModelDescriptor, messages []domain.ChatMessage, options InvokeOptions, token *CancellationToken, fragmentChan chan<- string) error {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		// the bridge protocol carries no roles, so everything is sent as user
		// content
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:    model.Id,
		Messages: openaiMessages,
		Stream:   true,
	}
	if temperature, ok := options["temperature"].(float64); ok {
		req.Temperature = float32(temperature)
	}

	stream, err := c.newClient().CreateChatCompletionStream(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		res, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(res.Choices) == 0 {
			continue
		}
		if content := res.Choices[0].Delta.Content; content != "" {
			fragmentChan <- content
		}
	}
}
