// Package messenger implements outbound message delivery. The mailbox
// implementation queues messages per owner in memory until they are drained
// over the HTTP updates endpoint.
package messenger

import (
	"context"
	"fmt"
	"sync"

	"github.com/ksumarshmallow/calbot/internal/types/interfaces"
)

// Mailbox is a capacity-bounded per-owner outbound queue
type Mailbox struct {
	mu       sync.Mutex
	boxes    map[string][]string
	capacity int
}

// NewMailbox creates a mailbox holding at most capacity pending messages
// per owner
func NewMailbox(capacity int) *Mailbox {
	return &Mailbox{
		boxes:    make(map[string][]string),
		capacity: capacity,
	}
}

var _ interfaces.Messenger = (*Mailbox)(nil)

// Send queues one message for the owner. It fails when the owner's mailbox
// is full, which stands in for a delivery failure.
func (m *Mailbox) Send(ctx context.Context, ownerID string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.boxes[ownerID]) >= m.capacity {
		return fmt.Errorf("mailbox full for owner %s", ownerID)
	}
	m.boxes[ownerID] = append(m.boxes[ownerID], text)
	return nil
}

// Drain returns and clears all pending messages for the owner
func (m *Mailbox) Drain(ownerID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending := m.boxes[ownerID]
	delete(m.boxes, ownerID)
	return pending
}
