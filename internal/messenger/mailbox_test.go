package messenger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxSendAndDrain(t *testing.T) {
	m := NewMailbox(10)
	ctx := context.Background()

	require.NoError(t, m.Send(ctx, "a", "first"))
	require.NoError(t, m.Send(ctx, "a", "second"))
	require.NoError(t, m.Send(ctx, "b", "other"))

	assert.Equal(t, []string{"first", "second"}, m.Drain("a"))
	assert.Empty(t, m.Drain("a"))
	assert.Equal(t, []string{"other"}, m.Drain("b"))
}

func TestMailboxCapacity(t *testing.T) {
	m := NewMailbox(2)
	ctx := context.Background()

	require.NoError(t, m.Send(ctx, "a", "1"))
	require.NoError(t, m.Send(ctx, "a", "2"))
	assert.Error(t, m.Send(ctx, "a", "3"))

	// a full mailbox for one owner does not affect another
	require.NoError(t, m.Send(ctx, "b", "1"))
}
