package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	msg, ok := UserMessage(ErrEventDateInPast)
	assert.True(t, ok)
	assert.Equal(t, "The date of the event must be current/after current date!", msg)

	wrapped := fmt.Errorf("%w: db kapalı", ErrInvitationFailed)
	msg, ok = UserMessage(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrInvitationFailed.Error(), msg)

	msg, ok = UserMessage(ErrFileTooLarge)
	assert.True(t, ok)
	assert.Equal(t, ErrFileTooLarge.Error(), msg)

	_, ok = UserMessage(errors.New("bağlantı koptu"))
	assert.False(t, ok)
	_, ok = UserMessage(nil)
	assert.False(t, ok)
}
