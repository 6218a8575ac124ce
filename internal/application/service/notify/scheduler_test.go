package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksumarshmallow/calbot/internal/types"
)

type fakeRepo struct {
	byDate map[string][]*types.Entry
	err    error
}

func (r *fakeRepo) CreateEntry(ctx context.Context, entry *types.Entry) error { return nil }
func (r *fakeRepo) ListByOwner(ctx context.Context, ownerID string) ([]*types.Entry, error) {
	return nil, nil
}
func (r *fakeRepo) ListByOwnerAndDate(ctx context.Context, ownerID string, date string) ([]*types.Entry, error) {
	return nil, nil
}
func (r *fakeRepo) DeleteByValue(ctx context.Context, ownerID string, name string, date string) (int64, error) {
	return 0, nil
}

func (r *fakeRepo) ListByDate(ctx context.Context, date string) ([]*types.Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byDate[date], nil
}

type recordingMessenger struct {
	sent    map[string][]string
	failFor string
}

func (m *recordingMessenger) Send(ctx context.Context, ownerID string, text string) error {
	if ownerID == m.failFor {
		return errors.New("delivery failed")
	}
	if m.sent == nil {
		m.sent = make(map[string][]string)
	}
	m.sent[ownerID] = append(m.sent[ownerID], text)
	return nil
}

func testScheduler(t *testing.T, repo *fakeRepo, msgr *recordingMessenger) *Scheduler {
	t.Helper()
	s, err := NewScheduler(repo, msgr, "20:00")
	require.NoError(t, err)
	s.now = func() time.Time {
		return time.Date(2025, 3, 26, 20, 0, 0, 0, time.Local)
	}
	return s
}

func TestRunOnceSendsOneReminderPerEntry(t *testing.T) {
	repo := &fakeRepo{byDate: map[string][]*types.Entry{
		"2025-03-27": {
			{OwnerID: "a", Kind: types.KindEvent, Name: "Dentist", Date: "2025-03-27", Time: "18:00"},
			{OwnerID: "b", Kind: types.KindTodo, Name: "Gym", Date: "2025-03-27"},
		},
	}}
	msgr := &recordingMessenger{}

	testScheduler(t, repo, msgr).RunOnce(context.Background())

	require.Len(t, msgr.sent["a"], 1)
	assert.Equal(t, "🔔 Напоминание! Завтра в 18:00: Dentist", msgr.sent["a"][0])
	require.Len(t, msgr.sent["b"], 1)
	assert.Equal(t, "🔔 Напоминание! Завтра: Gym", msgr.sent["b"][0])
}

func TestRunOnceIsolatesDeliveryFailures(t *testing.T) {
	repo := &fakeRepo{byDate: map[string][]*types.Entry{
		"2025-03-27": {
			{OwnerID: "a", Kind: types.KindEvent, Name: "Dentist", Date: "2025-03-27"},
			{OwnerID: "b", Kind: types.KindEvent, Name: "Gym", Date: "2025-03-27"},
		},
	}}
	msgr := &recordingMessenger{failFor: "a"}

	testScheduler(t, repo, msgr).RunOnce(context.Background())

	// b still receives its reminder even though delivery to a failed
	assert.Empty(t, msgr.sent["a"])
	require.Len(t, msgr.sent["b"], 1)
}

func TestRunOnceScanFailureIsNotFatal(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	msgr := &recordingMessenger{}

	testScheduler(t, repo, msgr).RunOnce(context.Background())
	assert.Empty(t, msgr.sent)
}

func TestCronSpec(t *testing.T) {
	spec, err := cronSpec("20:00")
	require.NoError(t, err)
	assert.Equal(t, "0 20 * * *", spec)

	spec, err = cronSpec("9:05")
	require.NoError(t, err)
	assert.Equal(t, "5 9 * * *", spec)

	for _, bad := range []string{"", "20", "24:00", "20:60", "aa:bb"} {
		_, err := cronSpec(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}
