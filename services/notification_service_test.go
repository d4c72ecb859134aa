package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut_DistinctRecipients(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))

	eventID := ev.ID
	created := env.svc.Notification.FanOut(env.ctx, []uint{alice.ID, bob.ID, alice.ID, 0, 4242}, &eventID, "hello", NotificationKindComment)
	assert.Equal(t, 2, created, "bilinmeyen kullanıcı atlanır, tekrar edenler bir kez yazılır")
	assert.Len(t, env.notificationsOf(t, alice.ID), 1)
	assert.Len(t, env.notificationsOf(t, bob.ID), 1)
}

func TestSilenceNotification(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	require.NoError(t, env.svc.Notification.Notify(env.ctx, alice.ID, nil, "first", NotificationKindFriendRequest))
	require.NoError(t, env.svc.Notification.Notify(env.ctx, alice.ID, nil, "second", NotificationKindFriendRequest))

	list, err := env.svc.Notification.ListForUser(env.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)

	assert.ErrorIs(t, env.svc.Notification.Silence(env.ctx, list[0].ID, bob.ID), ErrNotificationNotFound)
	require.NoError(t, env.svc.Notification.Silence(env.ctx, list[0].ID, alice.ID))

	list, err = env.svc.Notification.ListForUser(env.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first", list[0].Message)
	assert.Len(t, env.notificationsOf(t, alice.ID), 2)
}

func TestMessagesEscapeUserInput(t *testing.T) {
	assert.Equal(t, `Reminder: Event "&lt;b&gt;Party&lt;/b&gt;" is happening tomorrow!`, ReminderMessage("<b>Party</b>"))
	assert.Equal(t, `<a href="http://x/event/1">New comment on event "Tom &amp; Jerry"</a>`, CommentAddedMessage("http://x/event/1", "Tom & Jerry"))
	assert.Equal(t, `&lt;script&gt; accepted your friend request!`, FriendRequestAcceptedMessage("<script>"))
}
