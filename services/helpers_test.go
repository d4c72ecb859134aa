package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"organize.it/configs"
	"organize.it/database/dbtest"
	"organize.it/models"
	"organize.it/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingMailer gönderilen e-postaları bellekte tutar.
type recordingMailer struct {
	mu   sync.Mutex
	sent []Mail
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, mail Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var to []string
	for _, mail := range m.sent {
		to = append(to, mail.To...)
	}
	return to
}

type testEnv struct {
	ctx  context.Context
	db   *gorm.DB
	cfg  *configs.AppConfig
	mail *recordingMailer
	svc  *Services
}

func testConfig(t *testing.T) *configs.AppConfig {
	return &configs.AppConfig{
		Env:      "test",
		BaseURL:  "http://organize.test",
		Location: time.UTC,
		Storage: configs.StorageConfig{
			Driver:            "local",
			UploadDir:         t.TempDir(),
			AllowedExtensions: []string{"png", "jpg", "jpeg", "gif"},
			MaxUploadBytes:    1 << 20,
		},
		Jobs: configs.JobsConfig{NotificationKeep: 50},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.New(t)
	cfg := testConfig(t)
	storage, err := NewLocalStorageService(cfg.Storage)
	require.NoError(t, err)
	mail := &recordingMailer{}
	return &testEnv{
		ctx:  context.Background(),
		db:   db,
		cfg:  cfg,
		mail: mail,
		svc:  New(db, cfg, mail, storage),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		FirstName:    "First" + username,
		LastName:     "Last" + username,
		DateAdded:    time.Now().UTC(),
	}
	require.NoError(t, repositories.NewUserRepository(e.db).Create(e.ctx, u))
	return u
}

func (e *testEnv) event(t *testing.T, organizer *models.User, title string, date time.Time) *models.Event {
	t.Helper()
	ev := &models.Event{Title: title, Date: date.UTC(), OrganizerID: &organizer.ID}
	require.NoError(t, repositories.NewEventRepository(e.db).Create(e.ctx, ev))
	return ev
}

func (e *testEnv) befriend(t *testing.T, a, b *models.User) {
	t.Helper()
	require.NoError(t, repositories.NewFriendRepository(e.db).AddFriendship(e.ctx, a.ID, b.ID))
}

func (e *testEnv) attend(t *testing.T, u *models.User, ev *models.Event) {
	t.Helper()
	_, err := repositories.NewAttendanceRepository(e.db).Upsert(e.ctx, u.ID, ev.ID, models.AttendanceStatusAccepted)
	require.NoError(t, err)
}

// acceptedGuest kullanıcıyı arkadaş üzerinden davet eder ve daveti kabul ettirir.
func (e *testEnv) acceptedGuest(t *testing.T, organizer, guest *models.User, ev *models.Event) *models.Invitation {
	t.Helper()
	invitation := &models.Invitation{EventID: ev.ID, RecipientID: &guest.ID}
	require.NoError(t, repositories.NewInvitationRepository(e.db).Create(e.ctx, invitation))
	_, err := e.svc.Invitation.Respond(e.ctx, invitation.ID, guest, InvitationActionAccept)
	require.NoError(t, err)
	return invitation
}

// notificationsOf susturulmuşlar dahil tüm bildirimler, eskiden yeniye.
func (e *testEnv) notificationsOf(t *testing.T, userID uint) []models.Notification {
	t.Helper()
	var list []models.Notification
	require.NoError(t, e.db.Where("user_id = ?", userID).Order("id asc").Find(&list).Error)
	return list
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

var errMailDown = errors.New("smtp down")
