package adapter

import (
	"sync"

	"modelbridge/domain"
)

// Session holds the adapter-owned selected-model state for the lifetime of
// the hosting framework's session. It starts empty, updates on explicit
// selection and on every successful invocation, and is read when a request
// names no model. Selection applies to the next invocation only, never to
// ones already in flight.
type Session struct {
	mu       sync.Mutex
	selected *domain.ModelDescriptor
}

func NewSession() *Session {
	return &Session{}
}

// Select records an explicit model choice.
func (s *Session) Select(model domain.ModelDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &model
}

// Selected returns the current selection, or nil when none was made yet.
func (s *Session) Selected() *domain.ModelDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	model := *s.selected
	return &model
}

// refresh updates the selection from the model the bridge actually used.
func (s *Session) refresh(model *domain.ModelDescriptor) {
	if model == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = model
}

// Clear resets the session to its initial empty state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}
