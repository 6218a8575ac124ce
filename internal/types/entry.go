package types

import (
	"time"
)

// EntryKind distinguishes timed events from date-only todos
type EntryKind string

const (
	// KindEvent is a calendar event, usually carrying a clock time
	KindEvent EntryKind = "event"
	// KindTodo is a date-only note
	KindTodo EntryKind = "todo"
)

// Valid reports whether the kind is one of the known values
func (k EntryKind) Valid() bool {
	return k == KindEvent || k == KindTodo
}

// Entry represents a single calendar item owned by one user.
// Identity for deletion is the (OwnerID, Name, Date) tuple; it is not
// unique, so a delete by value may remove more than one row.
type Entry struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID   string    `json:"owner_id" gorm:"column:owner_id;index;not null"`
	Kind      EntryKind `json:"kind" gorm:"column:kind;not null"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	Date      string    `json:"date" gorm:"column:date;index;not null"`
	Time      string    `json:"time,omitempty" gorm:"column:time"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the Entry model
func (Entry) TableName() string {
	return "entries"
}

// DateLayout is the canonical storage form of an entry date
const DateLayout = "2006-01-02"

// TimeLayout is the canonical form of an entry clock time
const TimeLayout = "15:04"

// ResolvedDate is the outcome of parsing a free-text date expression
type ResolvedDate struct {
	Date    time.Time // local midnight of the resolved calendar date
	Clock   string    // "HH:MM", empty when no time was present
	HasTime bool
}

// DateString formats the resolved calendar date in storage form
func (r ResolvedDate) DateString() string {
	return r.Date.Format(DateLayout)
}
