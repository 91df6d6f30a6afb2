package host

import (
	"context"
	"fmt"
	"strings"

	"modelbridge/domain"
)

// StaticClient serves a fixed model list and a scripted responder. It stands
// in for a real host runtime in tests and demo runs.
type StaticClient struct {
	Models []domain.ModelDescriptor

	// Respond computes the reply for an invocation. When nil, a default
	// echo-style responder is used.
	Respond func(model domain.ModelDescriptor, messages []domain.ChatMessage) (string, error)

	// FragmentSize controls how the response is sliced into lazy fragments.
	// Zero means deliver the whole response as one fragment.
	FragmentSize int
}

func (c *StaticClient) ListModels(ctx context.Context) ([]domain.ModelDescriptor, error) {
	return c.Models, nil
}

func (c *StaticClient) Invoke(ctx context.Context, model domain.ModelDescriptor, messages []domain.ChatMessage, options InvokeOptions, token *CancellationToken, fragmentChan chan<- string) error {
	respond := c.Respond
	if respond == nil {
		respond = defaultRespond
	}
	response, err := respond(model, messages)
	if err != nil {
		return err
	}

	size := c.FragmentSize
	if size <= 0 {
		size = len(response)
	}
	for start := 0; start < len(response); start += size {
		end := min(start+size, len(response))
		fragmentChan <- response[start:end]
	}
	return nil
}

func defaultRespond(model domain.ModelDescriptor, messages []domain.ChatMessage) (string, error) {
	var parts []string
	for _, msg := range messages {
		parts = append(parts, msg.Content)
	}
	return fmt.Sprintf("[%s] %s", model.Name, strings.Join(parts, "\n")), nil
}
