// Package conversation implements the per-user dialogue state machine that
// turns free-text messages into calendar operations.
package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/ksumarshmallow/calbot/internal/logger"
	"github.com/ksumarshmallow/calbot/internal/types"
	"github.com/ksumarshmallow/calbot/internal/types/interfaces"
)

// Service implements interfaces.ConversationService
type Service struct {
	repo      interfaces.EntryRepository
	messenger interfaces.Messenger
	resolver  interfaces.DateResolver
	sessions  *sessionStore
}

// NewService creates a conversation service with injected collaborators
func NewService(repo interfaces.EntryRepository, messenger interfaces.Messenger, resolver interfaces.DateResolver) *Service {
	return &Service{
		repo:      repo,
		messenger: messenger,
		resolver:  resolver,
		sessions:  newSessionStore(),
	}
}

var _ interfaces.ConversationService = (*Service)(nil)

// HandleMessage processes one inbound message from an owner. Messages from
// the same owner are serialized; a recognized command restarts a new flow
// from any state.
func (s *Service) HandleMessage(ctx context.Context, ownerID string, text string) error {
	ctx = logger.WithField(ctx, "owner_id", ownerID)

	os := s.sessions.acquire(ownerID)
	defer os.release()
	sess := &os.session

	text = strings.TrimSpace(text)

	if cmd, arg, ok := parseCommand(text); ok {
		return s.handleCommand(ctx, sess, cmd, arg)
	}

	switch sess.State {
	case types.StateAwaitingDate:
		return s.handleAwaitingDate(ctx, sess, text)
	case types.StateAwaitingName:
		return s.handleAwaitingName(ctx, sess, text)
	case types.StateAwaitingDeleteDate:
		return s.handleAwaitingDeleteDate(ctx, sess, text)
	case types.StateAwaitingDeleteChoice:
		return s.handleAwaitingDeleteChoice(ctx, sess, text)
	default:
		logger.Infof(ctx, "unrecognized message in idle state: %q", text)
		return s.reply(ctx, sess.OwnerID, replyNotUnderstood)
	}
}

type command string

const (
	cmdStart    command = "start"
	cmdHelp     command = "help"
	cmdAddEvent command = "addevent"
	cmdAddTodo  command = "addtodo"
	cmdDelete   command = "delete"
	cmdDay      command = "day"
	cmdList     command = "list"
)

// menuSynonyms maps the original keyboard button labels to commands
var menuSynonyms = map[string]command{
	"добавить событие":            cmdAddEvent,
	"добавить заметку":            cmdAddTodo,
	"удалить событие или заметку": cmdDelete,
	"add-event": cmdAddEvent,
	"add-todo":  cmdAddTodo,
}

// parseCommand recognizes slash commands and menu button labels. arg carries
// the remainder of a slash command line ("/day завтра").
func parseCommand(text string) (command, string, bool) {
	if cmd, ok := menuSynonyms[strings.ToLower(text)]; ok {
		return cmd, "", true
	}
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	name, arg, _ := strings.Cut(text[1:], " ")
	switch c := command(strings.ToLower(name)); c {
	case cmdStart, cmdHelp, cmdAddEvent, cmdAddTodo, cmdDelete, cmdDay, cmdList:
		return c, strings.TrimSpace(arg), true
	}
	return "", "", false
}

func (s *Service) handleCommand(ctx context.Context, sess *types.Session, cmd command, arg string) error {
	// A command always abandons whatever flow was in progress.
	sess.Reset()

	switch cmd {
	case cmdStart:
		logger.Info(ctx, "user started bot")
		return s.reply(ctx, sess.OwnerID, replyStart)
	case cmdHelp:
		return s.reply(ctx, sess.OwnerID, replyHelp)
	case cmdAddEvent:
		sess.State = types.StateAwaitingDate
		sess.PendingKind = types.KindEvent
		return s.reply(ctx, sess.OwnerID, replyAskEventDate)
	case cmdAddTodo:
		sess.State = types.StateAwaitingDate
		sess.PendingKind = types.KindTodo
		return s.reply(ctx, sess.OwnerID, replyAskTodoDate)
	case cmdDelete:
		sess.State = types.StateAwaitingDeleteDate
		return s.reply(ctx, sess.OwnerID, replyAskDeleteDate)
	case cmdDay:
		return s.handleDay(ctx, sess, arg)
	case cmdList:
		return s.handleList(ctx, sess)
	}
	return s.reply(ctx, sess.OwnerID, replyNotUnderstood)
}

func (s *Service) handleAwaitingDate(ctx context.Context, sess *types.Session, text string) error {
	if !sess.PendingKind.Valid() {
		logger.Errorf(ctx, "corrupted session: pending kind %q", sess.PendingKind)
		sess.Reset()
		return s.reply(ctx, sess.OwnerID, replyInternal)
	}

	resolved, ok := s.resolver.Resolve(text)
	if !ok {
		logger.Infof(ctx, "unresolvable date: %q", text)
		return s.reply(ctx, sess.OwnerID, replyBadDate)
	}

	sess.PendingDate = &resolved
	sess.State = types.StateAwaitingName
	return s.reply(ctx, sess.OwnerID, replyAskName)
}

func (s *Service) handleAwaitingName(ctx context.Context, sess *types.Session, text string) error {
	if !sess.PendingKind.Valid() || sess.PendingDate == nil {
		logger.Errorf(ctx, "corrupted session: kind %q, date %v", sess.PendingKind, sess.PendingDate)
		sess.Reset()
		return s.reply(ctx, sess.OwnerID, replyInternal)
	}
	if text == "" {
		return s.reply(ctx, sess.OwnerID, replyBadName)
	}

	entry := &types.Entry{
		OwnerID: sess.OwnerID,
		Kind:    sess.PendingKind,
		Name:    text,
		Date:    sess.PendingDate.DateString(),
	}
	if sess.PendingDate.HasTime {
		entry.Time = sess.PendingDate.Clock
	}

	when := entry.Date
	if entry.Time != "" {
		when += " " + entry.Time
	}

	// The session resets whether or not the write succeeds, so a transient
	// storage error cannot trap the user in this state.
	err := s.repo.CreateEntry(ctx, entry)
	sess.Reset()

	if err != nil {
		logger.Errorf(ctx, "failed to save entry %q: %v", entry.Name, err)
		return s.reply(ctx, sess.OwnerID, replySaveFailed)
	}

	logger.Infof(ctx, "added %s %q on %s", entry.Kind, entry.Name, when)
	return s.reply(ctx, sess.OwnerID, fmt.Sprintf("Событие '%s' записано на %s!", entry.Name, when))
}

func (s *Service) handleAwaitingDeleteDate(ctx context.Context, sess *types.Session, text string) error {
	resolved, ok := s.resolver.Resolve(text)
	if !ok {
		logger.Infof(ctx, "unresolvable delete date: %q", text)
		return s.reply(ctx, sess.OwnerID, replyBadDate)
	}

	date := resolved.DateString()
	entries, err := s.repo.ListByOwnerAndDate(ctx, sess.OwnerID, date)
	if err != nil {
		logger.Errorf(ctx, "failed to list entries on %s: %v", date, err)
		sess.Reset()
		return s.reply(ctx, sess.OwnerID, replyDeleteFailed)
	}

	if len(entries) == 0 {
		sess.Reset()
		return s.reply(ctx, sess.OwnerID, replyNothingOnDate)
	}

	sess.PendingDate = &resolved
	sess.Candidates = make(map[string]string, len(entries))

	var list strings.Builder
	fmt.Fprintf(&list, "📅 События на %s:\nВыбери номер события для удаления:", date)
	for i, entry := range entries {
		idx := fmt.Sprintf("%d", i+1)
		sess.Candidates[idx] = entry.Name
		fmt.Fprintf(&list, "\n%s. %s", idx, entry.Name)
	}

	sess.State = types.StateAwaitingDeleteChoice
	return s.reply(ctx, sess.OwnerID, list.String())
}

func (s *Service) handleAwaitingDeleteChoice(ctx context.Context, sess *types.Session, text string) error {
	if sess.PendingDate == nil || len(sess.Candidates) == 0 {
		logger.Errorf(ctx, "corrupted session: delete choice without candidates")
		sess.Reset()
		return s.reply(ctx, sess.OwnerID, replyInternal)
	}

	name, ok := sess.Candidates[text]
	if !ok {
		return s.reply(ctx, sess.OwnerID, replyBadChoice)
	}

	date := sess.PendingDate.DateString()
	// Candidates and the pending date are discarded no matter how the
	// delete goes; a failed delete means restarting the flow.
	sess.Reset()

	rows, err := s.repo.DeleteByValue(ctx, sess.OwnerID, name, date)
	if err != nil {
		logger.Errorf(ctx, "failed to delete %q on %s: %v", name, date, err)
		return s.reply(ctx, sess.OwnerID, replyDeleteFailed)
	}
	if rows == 0 {
		logger.Warnf(ctx, "delete matched no rows: %q on %s", name, date)
		return s.reply(ctx, sess.OwnerID, fmt.Sprintf("Событие '%s' не найдено 🤔", name))
	}

	logger.Infof(ctx, "deleted %q on %s (%d rows)", name, date, rows)
	return s.reply(ctx, sess.OwnerID, fmt.Sprintf("Событие '%s' удалено!", name))
}

// handleDay lists the owner's entries on one date, today when no argument
// is given
func (s *Service) handleDay(ctx context.Context, sess *types.Session, arg string) error {
	var date string
	if arg == "" {
		resolved, _ := s.resolver.Resolve("сегодня")
		date = resolved.DateString()
	} else {
		resolved, ok := s.resolver.Resolve(arg)
		if !ok {
			return s.reply(ctx, sess.OwnerID, replyBadDate)
		}
		date = resolved.DateString()
	}

	entries, err := s.repo.ListByOwnerAndDate(ctx, sess.OwnerID, date)
	if err != nil {
		logger.Errorf(ctx, "failed to list entries on %s: %v", date, err)
		return s.reply(ctx, sess.OwnerID, replyInternal)
	}
	if len(entries) == 0 {
		return s.reply(ctx, sess.OwnerID, fmt.Sprintf("На %s нет событий.", date))
	}

	var list strings.Builder
	fmt.Fprintf(&list, "📅 События на %s:", date)
	for _, entry := range entries {
		list.WriteString("\n")
		list.WriteString(formatEntryLine(entry, false))
	}
	return s.reply(ctx, sess.OwnerID, list.String())
}

// handleList shows everything the owner has stored
func (s *Service) handleList(ctx context.Context, sess *types.Session) error {
	entries, err := s.repo.ListByOwner(ctx, sess.OwnerID)
	if err != nil {
		logger.Errorf(ctx, "failed to list all entries: %v", err)
		return s.reply(ctx, sess.OwnerID, replyInternal)
	}
	if len(entries) == 0 {
		return s.reply(ctx, sess.OwnerID, "Пока ничего не запланировано 😌")
	}

	var list strings.Builder
	list.WriteString("📅 Все твои события и заметки:")
	for _, entry := range entries {
		list.WriteString("\n")
		list.WriteString(formatEntryLine(entry, true))
	}
	return s.reply(ctx, sess.OwnerID, list.String())
}

func formatEntryLine(entry *types.Entry, withDate bool) string {
	var b strings.Builder
	if withDate {
		b.WriteString(entry.Date)
		b.WriteString(" ")
	}
	if entry.Time != "" {
		b.WriteString("⏰ ")
		b.WriteString(entry.Time)
		b.WriteString(" - ")
	}
	b.WriteString(entry.Name)
	return b.String()
}

// reply delivers one outbound message; delivery failures are logged but do
// not fail the dialogue step
func (s *Service) reply(ctx context.Context, ownerID string, text string) error {
	if err := s.messenger.Send(ctx, ownerID, text); err != nil {
		logger.Errorf(ctx, "failed to send reply: %v", err)
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}
