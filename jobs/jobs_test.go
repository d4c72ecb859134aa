package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"organize.it/configs"
	"organize.it/database/dbtest"
	"organize.it/models"
	"organize.it/repositories"
	"organize.it/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []services.Mail
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, mail services.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func newUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x", FirstName: username, LastName: "T", DateAdded: time.Now().UTC()}
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), u))
	return u
}

func newEvent(t *testing.T, db *gorm.DB, organizer *models.User, title string, date time.Time) *models.Event {
	t.Helper()
	ev := &models.Event{Title: title, Date: date.UTC(), OrganizerID: &organizer.ID}
	require.NoError(t, repositories.NewEventRepository(db).Create(context.Background(), ev))
	return ev
}

func attend(t *testing.T, db *gorm.DB, u *models.User, ev *models.Event, status models.AttendanceStatus) {
	t.Helper()
	_, err := repositories.NewAttendanceRepository(db).Upsert(context.Background(), u.ID, ev.ID, status)
	require.NoError(t, err)
}

func TestReminderJob_IsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")
	carol := newUser(t, db, "carol")
	tomorrow := newEvent(t, db, alice, "Picnic", now.Add(10*time.Hour))
	later := newEvent(t, db, alice, "Concert", now.Add(30*time.Hour))
	past := newEvent(t, db, alice, "Brunch", now.Add(-time.Hour))
	attend(t, db, bob, tomorrow, models.AttendanceStatusAccepted)
	attend(t, db, carol, tomorrow, models.AttendanceStatusPending)
	attend(t, db, bob, later, models.AttendanceStatusAccepted)
	attend(t, db, bob, past, models.AttendanceStatusAccepted)

	mailer := &recordingMailer{}
	job := NewReminderJob(db, mailer, 0)
	job.now = func() time.Time { return now }

	report, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReminderJobName, report.Job)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Created)
	assert.Zero(t, report.Skipped)

	var notes []models.Notification
	require.NoError(t, db.Where("user_id = ?", bob.ID).Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, `Reminder: Event "Picnic" is happening tomorrow!`, notes[0].Message)
	require.NotNil(t, notes[0].EventID)
	assert.Equal(t, tomorrow.ID, *notes[0].EventID)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"bob@example.com"}, mailer.sent[0].To)

	report, err = job.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, mailer.sent, 1, "ikinci çalıştırma e-posta göndermez")

	var total int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func TestReminderJob_MailFailureKeepsNotification(t *testing.T) {
	db := dbtest.New(t)
	now := time.Now().UTC()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")
	ev := newEvent(t, db, alice, "Picnic", now.Add(time.Hour))
	attend(t, db, bob, ev, models.AttendanceStatusAccepted)

	job := NewReminderJob(db, &recordingMailer{err: errors.New("smtp down")}, 24*time.Hour)
	job.now = func() time.Time { return now }

	report, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Failed)

	exists, err := repositories.NewNotificationRepository(db).Exists(context.Background(), bob.ID, ev.ID, services.ReminderMessage("Picnic"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReminderJob_MailBodyUsesRawTitle(t *testing.T) {
	db := dbtest.New(t)
	now := time.Now().UTC()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")
	ev := newEvent(t, db, alice, "Tom & Jerry", now.Add(time.Hour))
	attend(t, db, bob, ev, models.AttendanceStatusAccepted)

	mailer := &recordingMailer{}
	job := NewReminderJob(db, mailer, 24*time.Hour)
	job.now = func() time.Time { return now }

	_, err := job.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, `Reminder: Event "Tom & Jerry" is happening tomorrow!`, mailer.sent[0].Body)
	assert.NotContains(t, mailer.sent[0].Body, "&amp;")

	var note models.Notification
	require.NoError(t, db.Where("user_id = ?", bob.ID).First(&note).Error)
	assert.Equal(t, `Reminder: Event "Tom &amp; Jerry" is happening tomorrow!`, note.Message)
}

func TestCleanupJob_KeepsNewestPerUser(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := repositories.NewNotificationRepository(db)
	bob := newUser(t, db, "bob")
	carol := newUser(t, db, "carol")

	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{UserID: bob.ID, Message: fmt.Sprintf("bob-%02d", i), Timestamp: base.Add(time.Duration(i) * time.Minute)}))
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{UserID: carol.ID, Message: fmt.Sprintf("carol-%02d", i), Timestamp: base}))
	}

	report, err := NewCleanupJob(db, 0).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, CleanupJobName, report.Job)
	assert.Equal(t, 2, report.Scanned)
	assert.EqualValues(t, 10, report.Deleted)
	assert.Zero(t, report.Failed)

	count, err := repo.CountForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, DefaultNotificationKeep, count)

	var oldest models.Notification
	require.NoError(t, db.Where("user_id = ?", bob.ID).Order("timestamp asc").First(&oldest).Error)
	assert.Equal(t, "bob-10", oldest.Message)

	count, err = repo.CountForUser(ctx, carol.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, count)

	report, err = NewCleanupJob(db, 0).Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Deleted)
}

func TestCleanupJob_StopsOnCanceledContext(t *testing.T) {
	db := dbtest.New(t)
	bob := newUser(t, db, "bob")
	require.NoError(t, repositories.NewNotificationRepository(db).Create(context.Background(), &models.Notification{UserID: bob.ID, Message: "m"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCleanupJob(db, 1).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type countingJob struct {
	runs atomic.Int32
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) (Report, error) {
	j.runs.Add(1)
	return Report{Job: j.Name(), Created: 1}, nil
}

func TestScheduler_Lifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler()
	job := &countingJob{}
	require.Error(t, s.Add(nil, time.Second))
	require.Error(t, s.Add(job, 10*time.Millisecond))
	require.NoError(t, s.Add(job, time.Second))

	s.Start()
	s.Start()
	assert.Error(t, s.Add(job, time.Second), "başladıktan sonra iş eklenemez")

	require.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx), "ikinci Stop sorunsuz döner")

	reports := s.RunNow(context.Background())
	require.Len(t, reports, 1)
	assert.Equal(t, "counting", reports[0].Job)
}

func TestNewDefaultScheduler(t *testing.T) {
	db := dbtest.New(t)
	s, err := NewDefaultScheduler(db, configs.JobsConfig{
		ReminderInterval: 12 * time.Hour,
		CleanupInterval:  24 * time.Hour,
		NotificationKeep: 50,
	}, &recordingMailer{})
	require.NoError(t, err)

	reports := s.RunNow(context.Background())
	require.Len(t, reports, 2)
	assert.Equal(t, ReminderJobName, reports[0].Job)
	assert.Equal(t, CleanupJobName, reports[1].Job)

	_, err = NewDefaultScheduler(db, configs.JobsConfig{}, &recordingMailer{})
	assert.Error(t, err)
}
