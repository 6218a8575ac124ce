package interfaces

import (
	"context"

	"github.com/ksumarshmallow/calbot/internal/types"
)

// EntryRepository defines the interface for storing and retrieving calendar entries
type EntryRepository interface {
	// CreateEntry inserts a new entry
	CreateEntry(ctx context.Context, entry *types.Entry) error

	// ListByOwner returns every entry belonging to one owner
	ListByOwner(ctx context.Context, ownerID string) ([]*types.Entry, error)

	// ListByOwnerAndDate returns one owner's entries on a date, in stable order
	ListByOwnerAndDate(ctx context.Context, ownerID string, date string) ([]*types.Entry, error)

	// ListByDate returns all entries on a date across every owner
	ListByDate(ctx context.Context, date string) ([]*types.Entry, error)

	// DeleteByValue removes entries matching (owner, name, date) and reports
	// how many rows were removed; zero rows is not an error
	DeleteByValue(ctx context.Context, ownerID string, name string, date string) (int64, error)
}

// Messenger delivers outbound text to a user
type Messenger interface {
	// Send pushes one text message to the owner
	Send(ctx context.Context, ownerID string, text string) error
}

// ConversationService consumes inbound user messages and advances the
// per-owner dialogue state machine
type ConversationService interface {
	// HandleMessage processes one inbound message from an owner.
	// Replies are emitted through the Messenger.
	HandleMessage(ctx context.Context, ownerID string, text string) error
}

// DateResolver parses free-text date expressions
type DateResolver interface {
	// Resolve extracts a date (and an optional clock time) from text.
	// ok is false when no date expression is present; that is a normal
	// outcome for the caller to branch on, not an error.
	Resolve(text string) (types.ResolvedDate, bool)
}
