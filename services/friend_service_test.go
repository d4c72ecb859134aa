package services

import (
	"testing"

	"organize.it/models"
	"organize.it/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingRequest(t *testing.T, env *testEnv, sender, receiver *models.User) *models.FriendRequest {
	t.Helper()
	req, err := repositories.NewFriendRepository(env.db).FindPendingRequest(env.ctx, sender.ID, receiver.ID)
	require.NoError(t, err)
	return req
}

func TestFriendRequest_AcceptFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")

	assert.ErrorIs(t, env.svc.Friend.SendRequest(env.ctx, alice.ID, alice.ID), ErrFriendSelf)
	assert.ErrorIs(t, env.svc.Friend.SendRequest(env.ctx, alice.ID, 4242), ErrUserNotFound)

	require.NoError(t, env.svc.Friend.SendRequest(env.ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, env.svc.Friend.SendRequest(env.ctx, alice.ID, bob.ID), ErrFriendRequestExists)

	notes := env.notificationsOf(t, bob.ID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "alice sent you a friend request!")

	pending, err := env.svc.Friend.ListPendingRequests(env.ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "alice", pending[0].Sender.Username)

	req := pendingRequest(t, env, alice, bob)
	_, err = env.svc.Friend.RespondRequest(env.ctx, req.ID, carol.ID, FriendActionAccept)
	assert.ErrorIs(t, err, ErrFriendRequestForbidden)
	_, err = env.svc.Friend.RespondRequest(env.ctx, req.ID, bob.ID, "ignore")
	assert.ErrorIs(t, err, ErrInvalidFriendAction)

	resp, err := env.svc.Friend.RespondRequest(env.ctx, req.ID, bob.ID, FriendActionAccept)
	require.NoError(t, err)
	assert.True(t, resp.Accepted)
	assert.False(t, resp.AlreadyFriends)
	assert.Equal(t, alice.ID, resp.Sender.ID)

	friends, err := env.svc.Friend.AreFriends(env.ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, friends)
	assert.EqualValues(t, 0, env.count(t, &models.FriendRequest{}, "id = ?", req.ID))

	aliceNotes := env.notificationsOf(t, alice.ID)
	require.Len(t, aliceNotes, 1)
	assert.Equal(t, "bob accepted your friend request!", aliceNotes[0].Message)

	assert.ErrorIs(t, env.svc.Friend.SendRequest(env.ctx, bob.ID, alice.ID), ErrAlreadyFriends)
	_, err = env.svc.Friend.RespondRequest(env.ctx, req.ID, bob.ID, FriendActionAccept)
	assert.ErrorIs(t, err, ErrFriendRequestNotFound)
}

func TestFriendRequest_Decline(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	require.NoError(t, env.svc.Friend.SendRequest(env.ctx, alice.ID, bob.ID))
	req := pendingRequest(t, env, alice, bob)

	resp, err := env.svc.Friend.RespondRequest(env.ctx, req.ID, bob.ID, FriendActionDecline)
	require.NoError(t, err)
	assert.False(t, resp.Accepted)

	friends, err := env.svc.Friend.AreFriends(env.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, friends)

	aliceNotes := env.notificationsOf(t, alice.ID)
	require.Len(t, aliceNotes, 1)
	assert.Equal(t, "bob declined your friend request.", aliceNotes[0].Message)

	// Reddedilen istekten sonra yeniden istek gönderilebilir
	require.NoError(t, env.svc.Friend.SendRequest(env.ctx, alice.ID, bob.ID))
}

func TestFriendRequest_AcceptWhenAlreadyFriends(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	require.NoError(t, env.svc.Friend.SendRequest(env.ctx, alice.ID, bob.ID))
	env.befriend(t, alice, bob)
	req := pendingRequest(t, env, alice, bob)

	resp, err := env.svc.Friend.RespondRequest(env.ctx, req.ID, bob.ID, FriendActionAccept)
	require.NoError(t, err)
	assert.True(t, resp.AlreadyFriends)
	assert.EqualValues(t, 0, env.count(t, &models.FriendRequest{}, "id = ?", req.ID))
	assert.EqualValues(t, 2, env.count(t, &models.Friendship{}, "user_id IN ?", []uint{alice.ID, bob.ID}))
}

func TestRemoveFriend(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	env.befriend(t, alice, bob)

	assert.ErrorIs(t, env.svc.Friend.RemoveFriend(env.ctx, alice.ID, 4242), ErrUserNotFound)
	require.NoError(t, env.svc.Friend.RemoveFriend(env.ctx, bob.ID, alice.ID))

	assert.EqualValues(t, 0, env.count(t, &models.Friendship{}, "1 = 1"))
	assert.ErrorIs(t, env.svc.Friend.RemoveFriend(env.ctx, alice.ID, bob.ID), ErrNotFriends)
}
