package types

// SessionState enumerates the dialogue states of one user session
type SessionState int

const (
	// StateIdle means no flow is in progress
	StateIdle SessionState = iota
	// StateAwaitingDate waits for a date for a new entry
	StateAwaitingDate
	// StateAwaitingName waits for the name of a new entry
	StateAwaitingName
	// StateAwaitingDeleteDate waits for the date to delete from
	StateAwaitingDeleteDate
	// StateAwaitingDeleteChoice waits for a numbered pick from Candidates
	StateAwaitingDeleteChoice
)

// Session represents the in-memory dialogue state of one owner.
// It is never persisted; a restart loses in-flight flows only.
type Session struct {
	OwnerID string
	State   SessionState

	// PendingKind is set while an add flow is in progress
	PendingKind EntryKind
	// PendingDate is set once a date has been resolved
	PendingDate *ResolvedDate
	// Candidates maps the 1-based choice index, as the literal string the
	// user types back, to the entry name shown at that position
	Candidates map[string]string
}

// Reset clears all flow fields and returns the session to idle
func (s *Session) Reset() {
	s.State = StateIdle
	s.PendingKind = ""
	s.PendingDate = nil
	s.Candidates = nil
}
