package services

import (
	"testing"
	"time"

	"organize.it/models"
	"organize.it/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmails(t *testing.T) {
	got := NormalizeEmails([]string{" A@Example.com , b@example.com", "", " , ", "C@EXAMPLE.COM"})
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, got)
}

func TestSendInvitations_EmailSkipsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	ev := env.event(t, alice, "Picnic", time.Now().Add(72*time.Hour))

	result, err := env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, InviteMethodEmail,
		[]string{" Guest@Example.com , guest@example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, SendResult{Sent: 1, Skipped: 1}, result)

	result, err = env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, InviteMethodEmail, []string{"guest@example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, SendResult{Sent: 0, Skipped: 1}, result)

	invitations, err := repositories.NewInvitationRepository(env.db).ListByEvent(env.ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 1)
	assert.Equal(t, "guest@example.com", invitations[0].Email())
	assert.Nil(t, invitations[0].RecipientID)
	assert.Equal(t, models.InvitationStatusPending, invitations[0].Status)
	assert.Equal(t, []string{"guest@example.com"}, env.mail.recipients())
}

func TestSendInvitations_EmailOfRegisteredUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	env.befriend(t, alice, bob)
	ev := env.event(t, alice, "Board games", time.Now().Add(72*time.Hour))

	result, err := env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, InviteMethodEmail, []string{"BOB@example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)

	invitations, err := repositories.NewInvitationRepository(env.db).ListByEvent(env.ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 1)
	require.NotNil(t, invitations[0].RecipientID)
	assert.Equal(t, bob.ID, *invitations[0].RecipientID)

	notes := env.notificationsOf(t, bob.ID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "You have been invited to Board games")
	assert.Contains(t, notes[0].Message, "http://organize.test/invitation/")

	// Aynı kullanıcı arkadaş listesinden tekrar davet edilemez
	result, err = env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, InviteMethodFriends, nil, []uint{bob.ID})
	require.NoError(t, err)
	assert.Equal(t, SendResult{Sent: 0, Skipped: 1}, result)
}

func TestSendInvitations_FriendsPath(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	env.befriend(t, alice, bob)
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))

	result, err := env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, InviteMethodFriends, nil, []uint{bob.ID, carol.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, SendResult{Sent: 1, Skipped: 2}, result)

	assert.Len(t, env.notificationsOf(t, bob.ID), 1)
	assert.Empty(t, env.notificationsOf(t, carol.ID))
	assert.Equal(t, []string{"bob@example.com"}, env.mail.recipients())
}

func TestSendInvitations_MailFailureDoesNotFail(t *testing.T) {
	env := newTestEnv(t)
	env.mail.err = errMailDown
	alice := env.user(t, "alice")
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))

	result, err := env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, InviteMethodEmail, []string{"x@example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.EqualValues(t, 1, env.count(t, &models.Invitation{}, "event_id = ?", ev.ID))
}

func TestSendInvitations_Rejections(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))

	_, err := env.svc.Invitation.SendInvitations(env.ctx, bob.ID, ev.ID, InviteMethodEmail, []string{"x@example.com"}, nil)
	assert.ErrorIs(t, err, ErrInviteForbidden)

	_, err = env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, "carrier-pigeon", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInviteMethod)

	_, err = env.svc.Invitation.SendInvitations(env.ctx, alice.ID, 4242, InviteMethodEmail, []string{"x@example.com"}, nil)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetForViewer_BackfillsRecipientByEmail(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))
	_, err := env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, InviteMethodEmail, []string{"dave@example.com"}, nil)
	require.NoError(t, err)

	invitations, err := repositories.NewInvitationRepository(env.db).ListByEvent(env.ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 1)
	invitationID := invitations[0].ID

	dave := env.user(t, "dave")
	carol := env.user(t, "carol")

	_, err = env.svc.Invitation.GetForViewer(env.ctx, invitationID, carol)
	assert.ErrorIs(t, err, ErrInvitationForbidden)

	got, err := env.svc.Invitation.GetForViewer(env.ctx, invitationID, dave)
	require.NoError(t, err)
	require.NotNil(t, got.RecipientID)
	assert.Equal(t, dave.ID, *got.RecipientID)
	assert.Equal(t, "Dinner", got.Event.Title)

	stored, err := repositories.NewInvitationRepository(env.db).FindByID(env.ctx, invitationID)
	require.NoError(t, err)
	require.NotNil(t, stored.RecipientID)
	assert.Equal(t, dave.ID, *stored.RecipientID)

	_, err = env.svc.Invitation.GetForViewer(env.ctx, 4242, dave)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
	_, err = env.svc.Invitation.GetForViewer(env.ctx, invitationID, nil)
	assert.ErrorIs(t, err, ErrInvitationForbidden)
}

func TestGetForViewer_BoundInvitationRejectsOtherUserWithSameEmail(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))
	_, err := env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, InviteMethodEmail, []string{"dave@example.com"}, nil)
	require.NoError(t, err)
	invitations, err := repositories.NewInvitationRepository(env.db).ListByEvent(env.ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 1)
	invitationID := invitations[0].ID

	dave := env.user(t, "dave")
	_, err = env.svc.Invitation.GetForViewer(env.ctx, invitationID, dave)
	require.NoError(t, err)

	// dave e-postasını değiştirir, adres başka bir hesaba geçer
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", dave.ID).Update("email", "dave.new@example.com").Error)
	erin := env.user(t, "erin")
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", erin.ID).Update("email", "dave@example.com").Error)
	erin.Email = "dave@example.com"

	_, err = env.svc.Invitation.GetForViewer(env.ctx, invitationID, erin)
	assert.ErrorIs(t, err, ErrInvitationForbidden)
	_, err = env.svc.Invitation.Respond(env.ctx, invitationID, erin, InvitationActionAccept)
	assert.ErrorIs(t, err, ErrInvitationForbidden)
	assert.EqualValues(t, 0, env.count(t, &models.Attendance{}, "user_id = ?", erin.ID))
}

func TestRespond_AcceptCreatesAttendanceAndNotifiesOrganizer(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))
	invitation := &models.Invitation{EventID: ev.ID, RecipientID: &bob.ID}
	require.NoError(t, repositories.NewInvitationRepository(env.db).Create(env.ctx, invitation))

	got, err := env.svc.Invitation.Respond(env.ctx, invitation.ID, bob, InvitationActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusAccepted, got.Status)

	accepted, err := repositories.NewAttendanceRepository(env.db).IsAccepted(env.ctx, bob.ID, ev.ID)
	require.NoError(t, err)
	assert.True(t, accepted)

	notes := env.notificationsOf(t, alice.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, `bob has accepted your invitation for event "Dinner"`, notes[0].Message)

	_, err = env.svc.Invitation.Respond(env.ctx, invitation.ID, bob, InvitationActionDecline)
	assert.ErrorIs(t, err, ErrInvitationAlreadyAnswered)
	assert.Len(t, env.notificationsOf(t, alice.ID), 1)
}

func TestRespond_Decline(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))
	invitation := &models.Invitation{EventID: ev.ID, RecipientID: &bob.ID}
	require.NoError(t, repositories.NewInvitationRepository(env.db).Create(env.ctx, invitation))

	_, err := env.svc.Invitation.Respond(env.ctx, invitation.ID, bob, "maybe")
	assert.ErrorIs(t, err, ErrInvalidInvitationAction)

	got, err := env.svc.Invitation.Respond(env.ctx, invitation.ID, bob, InvitationActionDecline)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusDeclined, got.Status)
	assert.EqualValues(t, 0, env.count(t, &models.Attendance{}, "event_id = ?", ev.ID))

	notes := env.notificationsOf(t, alice.ID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "has declined your invitation")

	_, err = env.svc.Invitation.Respond(env.ctx, invitation.ID, bob, InvitationActionAccept)
	assert.ErrorIs(t, err, ErrInvitationAlreadyAnswered)
}

func TestClaimByEmail(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	ev1 := env.event(t, alice, "One", time.Now().Add(72*time.Hour))
	ev2 := env.event(t, alice, "Two", time.Now().Add(96*time.Hour))
	for _, ev := range []*models.Event{ev1, ev2} {
		_, err := env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, InviteMethodEmail, []string{"erin@example.com"}, nil)
		require.NoError(t, err)
	}

	erin := env.user(t, "erin")
	claimed, err := env.svc.Invitation.ClaimByEmail(env.ctx, erin)
	require.NoError(t, err)
	assert.Equal(t, 2, claimed)
	assert.Len(t, env.notificationsOf(t, erin.ID), 2)

	claimed, err = env.svc.Invitation.ClaimByEmail(env.ctx, erin)
	require.NoError(t, err)
	assert.Zero(t, claimed)
}
