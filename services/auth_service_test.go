package services

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"organize.it/models"
	"organize.it/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration(username string) RegisterInput {
	return RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "s3cret!",
		ConfirmPassword: "s3cret!",
		FirstName:       "Test",
		LastName:        "User",
	}
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		want   error
	}{
		{"eksik alan", func(in *RegisterInput) { in.FirstName = " " }, ErrRegistrationFields},
		{"kısa kullanıcı adı", func(in *RegisterInput) { in.Username = "a" }, ErrUsernameLength},
		{"uzun kullanıcı adı", func(in *RegisterInput) { in.Username = strings.Repeat("a", 21) }, ErrUsernameLength},
		{"geçersiz e-posta", func(in *RegisterInput) { in.Email = "not-an-email" }, ErrEmailInvalid},
		{"şifreler farklı", func(in *RegisterInput) { in.ConfirmPassword = "other" }, ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegistration("frank")
			tt.mutate(&input)
			_, err := env.svc.Auth.Register(env.ctx, input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.EqualValues(t, 0, env.count(t, &models.User{}, "1 = 1"))
}

func TestRegister_UniquenessAndLogin(t *testing.T) {
	env := newTestEnv(t)

	input := validRegistration("frank")
	input.Email = " Frank@Example.com "
	user, err := env.svc.Auth.Register(env.ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "frank@example.com", user.Email)
	assert.Equal(t, models.DefaultProfilePicture, user.ProfilePicture)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)

	_, err = env.svc.Auth.Register(env.ctx, validRegistration("frank"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	dup := validRegistration("frankie")
	dup.Email = "FRANK@example.com"
	_, err = env.svc.Auth.Register(env.ctx, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := env.svc.Auth.Authenticate(env.ctx, "frank", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = env.svc.Auth.Authenticate(env.ctx, "frank", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.svc.Auth.Authenticate(env.ctx, "nobody", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.svc.Auth.Authenticate(env.ctx, "", "")
	assert.ErrorIs(t, err, ErrLoginFieldsRequired)
}

func TestRegister_ClaimsEmailInvitations(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))
	_, err := env.svc.Invitation.SendInvitations(env.ctx, alice.ID, ev.ID, InviteMethodEmail, []string{"frank@example.com"}, nil)
	require.NoError(t, err)

	user, err := env.svc.Auth.Register(env.ctx, validRegistration("frank"))
	require.NoError(t, err)

	invitations, err := repositories.NewInvitationRepository(env.db).ListByEvent(env.ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 1)
	require.NotNil(t, invitations[0].RecipientID)
	assert.Equal(t, user.ID, *invitations[0].RecipientID)

	notes := env.notificationsOf(t, user.ID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "You have been invited to Dinner")
}

func TestRegister_ProfilePicture(t *testing.T) {
	env := newTestEnv(t)

	bad := validRegistration("frank")
	bad.PictureName, bad.Picture, bad.PictureSize = "avatar.exe", bytes.NewReader([]byte("MZ")), 2
	_, err := env.svc.Auth.Register(env.ctx, bad)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	good := validRegistration("frank")
	good.PictureName, good.Picture, good.PictureSize = "Avatar.PNG", bytes.NewReader([]byte("png-bytes")), 9
	user, err := env.svc.Auth.Register(env.ctx, good)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(user.ProfilePicture, ".png"))

	rc, err := env.svc.Storage.Open(env.ctx, user.ProfilePicture)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}
