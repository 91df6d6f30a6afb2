package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompletionStream handles the streaming path. The bridge has no
// incremental source, so this issues the identical single synchronous call
// and synthesizes a fixed event stream from the composed answer: one delta
// event carrying the entire response text, one terminal event with an empty
// delta and finish_reason "stop", then the [DONE] sentinel. Clients
// expecting token-by-token rendering see the full answer appear atomically.
func (a *Adapter) ChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest, w io.Writer) error {
	resp, err := a.callBridge(ctx, req)
	if err != nil {
		return err
	}

	model := req.Model
	if resp.Model != nil {
		model = resp.Model.Id
	}
	id := completionId()
	created := time.Now().Unix()

	contentChunk := openai.ChatCompletionStreamResponse{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []openai.ChatCompletionStreamChoice{
			{
				Index: 0,
				Delta: openai.ChatCompletionStreamChoiceDelta{
					Role:    openai.ChatMessageRoleAssistant,
					Content: resp.Response,
				},
			},
		},
	}
	if err := writeStreamEvent(w, contentChunk); err != nil {
		return err
	}

	usage := coerceUsage(resp.Usage)
	terminalChunk := openai.ChatCompletionStreamResponse{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []openai.ChatCompletionStreamChoice{
			{
				Index:        0,
				Delta:        openai.ChatCompletionStreamChoiceDelta{},
				FinishReason: openai.FinishReasonStop,
			},
		},
		Usage: &usage,
	}
	if err := writeStreamEvent(w, terminalChunk); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "data: [DONE]\n\n"); err != nil {
		return fmt.Errorf("failed to write stream sentinel: %w", err)
	}
	flush(w)
	return nil
}

func writeStreamEvent(w io.Writer, chunk openai.ChatCompletionStreamResponse) error {
	payload, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("failed to marshal stream chunk: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("failed to write stream chunk: %w", err)
	}
	flush(w)
	return nil
}

func flush(w io.Writer) {
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
