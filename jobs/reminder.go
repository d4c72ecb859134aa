package jobs

import (
	"context"
	"fmt"
	"time"

	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/pkg/metrics"
	"organize.it/repositories"
	"organize.it/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const ReminderJobName = "upcoming_event_reminder"

// ReminderJob önümüzdeki pencere içinde başlayacak etkinliklerin kabul etmiş
// katılımcılarına hatırlatma bildirimi ve e-postası gönderir.
type ReminderJob struct {
	db     *gorm.DB
	mailer services.IMailService
	window time.Duration
	now    func() time.Time
}

// NewReminderJob window sıfırsa 24 saat kullanılır.
func NewReminderJob(db *gorm.DB, mailer services.IMailService, window time.Duration) *ReminderJob {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &ReminderJob{db: db, mailer: mailer, window: window, now: time.Now}
}

func (j *ReminderJob) Name() string { return ReminderJobName }

type reminder struct {
	email string
	title string
}

// Run [now, now+window) aralığındaki etkinlikleri tarar. Aynı (kullanıcı, etkinlik, mesaj)
// bildirimi varsa tekrar oluşturmaz. Bildirimler tek transaction ile yazılır,
// e-postalar commit sonrası gönderilir ve hataları sadece loglanır.
func (j *ReminderJob) Run(ctx context.Context) (report Report, err error) {
	start := time.Now()
	report = Report{Job: j.Name(), StartedAt: j.now().UTC()}
	defer func() { report.Duration = time.Since(start) }()

	from := report.StartedAt
	to := from.Add(j.window)

	var outgoing []reminder
	err = j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eventRepo := repositories.NewEventRepositoryTx(tx)
		attendanceRepo := repositories.NewAttendanceRepositoryTx(tx)
		notificationRepo := repositories.NewNotificationRepositoryTx(tx)

		events, err := eventRepo.FindStartingBetween(ctx, from, to)
		if err != nil {
			return fmt.Errorf("yaklaşan etkinlikler alınamadı: %w", err)
		}
		report.Scanned = len(events)

		for _, event := range events {
			attendees, err := attendanceRepo.AcceptedUsers(ctx, event.ID)
			if err != nil {
				return fmt.Errorf("katılımcılar alınamadı (event %d): %w", event.ID, err)
			}
			message := services.ReminderMessage(event.Title)
			for _, user := range attendees {
				exists, err := notificationRepo.Exists(ctx, user.ID, event.ID, message)
				if err != nil {
					return err
				}
				if exists {
					report.Skipped++
					continue
				}
				eventID := event.ID
				if err := notificationRepo.Create(ctx, &models.Notification{UserID: user.ID, EventID: &eventID, Message: message}); err != nil {
					return err
				}
				report.Created++
				outgoing = append(outgoing, reminder{email: user.Email, title: event.Title})
			}
		}
		return nil
	})
	if err != nil {
		metrics.IncJobRun(j.Name(), "error")
		configslog.Log.Error("Hatırlatma işi başarısız, değişiklikler geri alındı", zap.Error(err))
		return report, err
	}

	for _, r := range outgoing {
		metrics.IncNotification(services.NotificationKindReminder)
		if r.email == "" {
			continue
		}
		sent := services.SendBestEffort(ctx, j.mailer, services.Mail{
			To:      []string{r.email},
			Subject: fmt.Sprintf("Reminder: %s is happening tomorrow!", r.title),
			Body:    services.ReminderMailBody(r.title),
		})
		if !sent {
			report.Failed++
		}
	}

	metrics.IncJobRun(j.Name(), "ok")
	configslog.Log.Info("Hatırlatma işi tamamlandı",
		zap.Int("events", report.Scanned), zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped), zap.Int("mailFailures", report.Failed))
	return report, nil
}

var _ Job = (*ReminderJob)(nil)
