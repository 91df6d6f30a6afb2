package adapter

import (
	openai "github.com/sashabaranov/go-openai"

	"modelbridge/domain"
)

// messageContent is the tagged form of an incoming message body: either plain
// text or a list of typed parts. Exactly one of the two variants is active.
type messageContent struct {
	text    string
	parts   []openai.ChatMessagePart
	isParts bool
}

func contentOf(msg openai.ChatCompletionMessage) messageContent {
	if msg.MultiContent != nil {
		return messageContent{parts: msg.MultiContent, isParts: true}
	}
	return messageContent{text: msg.Content}
}

// flatten is the single total extraction function over both variants: plain
// text verbatim, otherwise the first text-typed part. Non-text parts (images
// etc) are silently discarded; the bridge protocol cannot carry them.
func (mc messageContent) flatten() string {
	if !mc.isParts {
		return mc.text
	}
	for _, part := range mc.parts {
		if part.Type == openai.ChatMessagePartTypeText {
			return part.Text
		}
	}
	return ""
}

// NormalizeContent flattens a chat-completion message body to the plain text
// the bridge protocol carries.
func NormalizeContent(msg openai.ChatCompletionMessage) string {
	return contentOf(msg).flatten()
}

// buildBridgeMessages maps each message to the neutral bridge shape,
// discarding roles entirely: system/user/assistant distinctions are not
// representable across the bridge.
func buildBridgeMessages(messages []openai.ChatCompletionMessage) []domain.ChatMessage {
	bridgeMessages := make([]domain.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		bridgeMessages = append(bridgeMessages, domain.ChatMessage{Content: NormalizeContent(msg)})
	}
	return bridgeMessages
}
