// Package emotion holds the facial-emotion context buffer: a single-slot
// inbox between the external video analyzer and the chat session. At most one
// sample is pending at a time, and a given detection is attached to at most
// one outgoing message.
package emotion

import (
	"sync"

	"github.com/mindwell/supportchat/internal/domain"
)

type Buffer struct {
	mu      sync.Mutex
	pending *domain.FacialEmotionSample
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Set stores a detection, overwriting any pending one. Last detection wins;
// there is no queue.
func (b *Buffer) Set(sample domain.FacialEmotionSample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := sample
	b.pending = &s
}

// TakeIfPresent returns the pending sample and clears the slot in one step.
// A second call without a new detection returns (nil, false).
func (b *Buffer) TakeIfPresent() (*domain.FacialEmotionSample, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil {
		return nil, false
	}
	s := b.pending
	b.pending = nil
	return s, true
}

// Peek reports whether a sample is pending without consuming it.
func (b *Buffer) Peek() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending != nil
}
