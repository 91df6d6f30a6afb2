package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelbridge/domain"
)

var testModels = []domain.ModelDescriptor{
	{Id: "gpt-4o", Vendor: "copilot", Family: "gpt-4o", Name: "GPT 4o", MaxInputTokens: 64000},
	{Id: "gpt-4o-mini", Vendor: "copilot", Family: "gpt-4o-mini", Name: "GPT 4o mini", MaxInputTokens: 12000},
	{Id: "claude-sonnet", Vendor: "anthropic", Family: "claude", Name: "Claude Sonnet", MaxInputTokens: 200000},
}

func TestGatewayListModels(t *testing.T) {
	testCases := []struct {
		name        string
		models      []domain.ModelDescriptor
		selector    *domain.ModelSelector
		expectedIds []string
		expectedErr error
	}{
		{
			name:        "no selector returns everything in host order",
			models:      testModels,
			expectedIds: []string{"gpt-4o", "gpt-4o-mini", "claude-sonnet"},
		},
		{
			name:        "empty selector behaves like no selector",
			models:      testModels,
			selector:    &domain.ModelSelector{},
			expectedIds: []string{"gpt-4o", "gpt-4o-mini", "claude-sonnet"},
		},
		{
			name:        "filter by vendor",
			models:      testModels,
			selector:    &domain.ModelSelector{Vendor: "anthropic"},
			expectedIds: []string{"claude-sonnet"},
		},
		{
			name:        "filter by id and vendor",
			models:      testModels,
			selector:    &domain.ModelSelector{Id: "gpt-4o", Vendor: "copilot"},
			expectedIds: []string{"gpt-4o"},
		},
		{
			name:        "exact match only, no prefix matching",
			models:      testModels,
			selector:    &domain.ModelSelector{Family: "gpt"},
			expectedErr: ErrNoModelsAvailable,
		},
		{
			name:        "zero models from host",
			models:      nil,
			expectedErr: ErrNoModelsAvailable,
		},
		{
			name:        "selector matching nothing",
			models:      testModels,
			selector:    &domain.ModelSelector{Id: "nonexistent"},
			expectedErr: ErrNoModelsAvailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := NewGateway(&StaticClient{Models: tc.models})
			models, err := gateway.ListModels(context.Background(), tc.selector)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(models))
			for _, m := range models {
				ids = append(ids, m.Id)
			}
			assert.Equal(t, tc.expectedIds, ids)
		})
	}
}

func TestGatewayInvokeFlattensFragments(t *testing.T) {
	gateway := NewGateway(&StaticClient{
		Models: testModels,
		Respond: func(model domain.ModelDescriptor, messages []domain.ChatMessage) (string, error) {
			return "a composed answer from the host", nil
		},
		FragmentSize: 3,
	})

	response, err := gateway.Invoke(context.Background(), testModels[0], []domain.ChatMessage{{Content: "hi"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a composed answer from the host", response)
}

func TestGatewayInvokeEmptyResponse(t *testing.T) {
	gateway := NewGateway(&StaticClient{
		Models: testModels,
		Respond: func(model domain.ModelDescriptor, messages []domain.ChatMessage) (string, error) {
			return "", nil
		},
	})

	response, err := gateway.Invoke(context.Background(), testModels[0], []domain.ChatMessage{{Content: "hi"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", response)
}

func TestGatewayInvokePropagatesHostError(t *testing.T) {
	hostErr := errors.New("model exploded")
	gateway := NewGateway(&StaticClient{
		Models: testModels,
		Respond: func(model domain.ModelDescriptor, messages []domain.ChatMessage) (string, error) {
			return "", hostErr
		},
	})

	_, err := gateway.Invoke(context.Background(), testModels[0], []domain.ChatMessage{{Content: "hi"}}, nil)
	assert.ErrorIs(t, err, hostErr)
}

func TestCancellationToken(t *testing.T) {
	token := NewCancellationToken()

	select {
	case <-token.Done():
		t.Fatal("token should not start cancelled")
	default:
	}

	token.Cancel()
	token.Cancel() // idempotent

	select {
	case <-token.Done():
	default:
		t.Fatal("token should be cancelled after Cancel")
	}
}
