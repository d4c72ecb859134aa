package services

import "errors"

// UserMessage servis hatası kullanıcıya gösterilebilir bir mesaj taşıyorsa onu döndürür.
// Beklenmeyen hatalarda ok false olur.
func UserMessage(err error) (string, bool) {
	var (
		authErr         AuthServiceError
		userErr         UserServiceError
		friendErr       FriendServiceError
		eventErr        EventServiceError
		invitationErr   InvitationServiceError
		commentErr      CommentServiceError
		taskErr         TaskServiceError
		notificationErr NotificationServiceError
		storageErr      StorageServiceError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Error(), true
	case errors.As(err, &userErr):
		return userErr.Error(), true
	case errors.As(err, &friendErr):
		return friendErr.Error(), true
	case errors.As(err, &eventErr):
		return eventErr.Error(), true
	case errors.As(err, &invitationErr):
		return invitationErr.Error(), true
	case errors.As(err, &commentErr):
		return commentErr.Error(), true
	case errors.As(err, &taskErr):
		return taskErr.Error(), true
	case errors.As(err, &notificationErr):
		return notificationErr.Error(), true
	case errors.As(err, &storageErr):
		return storageErr.Error(), true
	}
	return "", false
}
