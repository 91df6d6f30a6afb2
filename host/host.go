package host

import (
	"context"
	"errors"
	"strings"
	"sync"

	"modelbridge/domain"
)

// ErrNoModelsAvailable is returned when the host reports zero models, or when
// a selector filters the available set down to nothing.
var ErrNoModelsAvailable = errors.New("No language models available")

// InvokeOptions carries pass-through invocation options from the bridge
// request. The host decides what, if anything, it honors.
type InvokeOptions map[string]any

// Client is the host collaborator interface: whatever runtime actually owns
// the models. Invoke delivers text lazily, fragment by fragment, over
// fragmentChan and returns once delivery is complete. Implementations must
// close nothing; the caller owns the channel.
type Client interface {
	ListModels(ctx context.Context) ([]domain.ModelDescriptor, error)
	Invoke(ctx context.Context, model domain.ModelDescriptor, messages []domain.ChatMessage, options InvokeOptions, token *CancellationToken, fragmentChan chan<- string) error
}

// CancellationToken is created per invocation. Nothing in the bridge ever
// fires it: once issued, a call runs to completion or hangs with the host.
// That is a documented limitation, not something callers should rely on
// changing.
type CancellationToken struct {
	once sync.Once
	done chan struct{}
}

func NewCancellationToken() *CancellationToken {
	return &CancellationToken{done: make(chan struct{})}
}

// Cancel requests cancellation. Safe to call more than once.
func (t *CancellationToken) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Done returns a channel closed on cancellation.
func (t *CancellationToken) Done() <-chan struct{} {
	return t.done
}

// Gateway wraps the host's model enumeration and invocation capability and
// flattens the host's lazy text delivery into one composed string per call.
type Gateway struct {
	client Client
}

func NewGateway(client Client) *Gateway {
	return &Gateway{client: client}
}

// ListModels returns the host's models, filtered by the selector when one is
// given. Filtering is exact-match on each non-empty selector field.
func (g *Gateway) ListModels(ctx context.Context, selector *domain.ModelSelector) ([]domain.ModelDescriptor, error) {
	models, err := g.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, ErrNoModelsAvailable
	}
	if selector == nil || selector.IsZero() {
		return models, nil
	}

	var matched []domain.ModelDescriptor
	for _, m := range models {
		if selector.Matches(m) {
			matched = append(matched, m)
		}
	}
	if len(matched) == 0 {
		return nil, ErrNoModelsAvailable
	}
	return matched, nil
}

// Invoke drives the host's fragment delivery to completion and concatenates
// every fragment before returning. There is no timeout and the cancellation
// token is never fired, so a non-terminating host call hangs this request
// indefinitely without blocking others.
func (g *Gateway) Invoke(ctx context.Context, model domain.ModelDescriptor, messages []domain.ChatMessage, options InvokeOptions) (string, error) {
	token := NewCancellationToken()
	fragmentChan := make(chan string, 16)

	var builder strings.Builder
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for fragment := range fragmentChan {
			builder.WriteString(fragment)
		}
	}()

	err := g.client.Invoke(ctx, model, messages, options, token, fragmentChan)
	close(fragmentChan)
	wg.Wait()

	if err != nil {
		return "", err
	}
	return builder.String(), nil
}
