package adapter

import (
	"strconv"

	openai "github.com/sashabaranov/go-openai"
)

// coerceUsage extracts token counters from the bridge's untyped usage map.
// Every field defaults to 0 when missing or not a valid number; malformed
// counters never fail a request.
func coerceUsage(usage map[string]any) openai.Usage {
	prompt := coerceCount(usage["promptTokens"])
	if prompt == 0 {
		prompt = coerceCount(usage["prompt_tokens"])
	}
	completion := coerceCount(usage["completionTokens"])
	if completion == 0 {
		completion = coerceCount(usage["completion_tokens"])
	}

	return openai.Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

func coerceCount(value any) int {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0
		}
		return int(v)
	case int:
		if v < 0 {
			return 0
		}
		return v
	case string:
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0
		}
		return n
	default:
		return 0
	}
}
