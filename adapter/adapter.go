package adapter

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/segmentio/ksuid"

	"modelbridge/client"
	"modelbridge/domain"
)

// Adapter translates between the bridge's minimal JSON protocol and the
// standard chat-completion wire protocol. It is invoked in-process by the
// hosting provider framework; it is not a listening service of its own.
//
// Every failure, whether validation, missing models, transport, or a host
// invocation error, surfaces as one generic error carrying the bridge's
// message string. Callers cannot distinguish the kinds without inspecting
// the text.
type Adapter struct {
	client  *client.Client
	session *Session
}

func New(bridgeClient *client.Client) *Adapter {
	return &Adapter{
		client:  bridgeClient,
		session: NewSession(),
	}
}

// Session exposes the adapter-owned selected-model state.
func (a *Adapter) Session() *Session {
	return a.session
}

// selectorFor resolves which model to ask the bridge for: the request's model
// name when present, else the session's selection, else nothing (the bridge
// then uses the first available model).
func (a *Adapter) selectorFor(req openai.ChatCompletionRequest) *domain.ModelSelector {
	if req.Model != "" {
		return &domain.ModelSelector{Id: req.Model}
	}
	if selected := a.session.Selected(); selected != nil {
		return &domain.ModelSelector{Id: selected.Id}
	}
	return nil
}

func (a *Adapter) callBridge(ctx context.Context, req openai.ChatCompletionRequest) (*domain.BridgeResponse, error) {
	bridgeReq := domain.BridgeRequest{
		Messages: buildBridgeMessages(req.Messages),
		Model:    a.selectorFor(req),
	}
	resp, err := a.client.Chat(ctx, bridgeReq)
	if err != nil {
		return nil, err
	}
	a.session.refresh(resp.Model)
	return resp, nil
}

// ChatCompletion handles the non-streaming path: one HTTP call to the
// bridge, mapped into a standard chat-completion object with a single
// choice and finish_reason "stop".
func (a *Adapter) ChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	resp, err := a.callBridge(ctx, req)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	model := req.Model
	if resp.Model != nil {
		model = resp.Model.Id
	}

	return openai.ChatCompletionResponse{
		ID:      completionId(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []openai.ChatCompletionChoice{
			{
				Index: 0,
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: resp.Response,
				},
				FinishReason: openai.FinishReasonStop,
			},
		},
		Usage: coerceUsage(resp.Usage),
	}, nil
}

func completionId() string {
	return "chatcmpl-" + ksuid.New().String()
}
