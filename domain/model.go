package domain

// ModelDescriptor identifies one invocable host model. Immutable once fetched
// from the host; the bridge never mutates or caches these across requests.
type ModelDescriptor struct {
	Id               string `json:"id"`
	Vendor           string `json:"vendor"`
	Family           string `json:"family"`
	Name             string `json:"name"`
	MaxInputTokens   int    `json:"maxInputTokens"`
	SupportsCounting bool   `json:"countTokens"`
}

// ModelSelector filters available models by exact match. All fields are
// optional; empty fields match everything.
type ModelSelector struct {
	Id     string `json:"id,omitempty"`
	Vendor string `json:"vendor,omitempty"`
	Family string `json:"family,omitempty"`
}

// IsZero reports whether the selector has no criteria at all.
func (s ModelSelector) IsZero() bool {
	return s.Id == "" && s.Vendor == "" && s.Family == ""
}

// Matches reports whether the descriptor satisfies every non-empty field of
// the selector.
func (s ModelSelector) Matches(m ModelDescriptor) bool {
	if s.Id != "" && s.Id != m.Id {
		return false
	}
	if s.Vendor != "" && s.Vendor != m.Vendor {
		return false
	}
	if s.Family != "" && s.Family != m.Family {
		return false
	}
	return true
}
