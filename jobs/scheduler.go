package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"organize.it/configs"
	"organize.it/configs/configslog"
	"organize.it/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cronLogger robfig/cron log çıktısını zap'e yönlendirir.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	configslog.SLog.Debugw("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	configslog.SLog.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}

// Scheduler periyodik işleri kendi yaşam döngüsüyle çalıştırır.
// Aynı iş önceki çalışması bitmeden tekrar başlatılmaz.
type Scheduler struct {
	cron    *cron.Cron
	entries []scheduledJob

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	running   bool
	scheduled bool
}

type scheduledJob struct {
	job      Job
	interval time.Duration
}

// NewScheduler boş bir zamanlayıcı oluşturur. İşler Add ile eklenir.
func NewScheduler() *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// Add işi verilen aralıkla planlar. İlk Start'tan önce çağrılmalıdır.
func (s *Scheduler) Add(job Job, interval time.Duration) error {
	if job == nil {
		return errors.New("nil iş planlanamaz")
	}
	if interval < time.Second {
		return errors.New("iş aralığı en az bir saniye olmalıdır")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduled {
		return errors.New("zamanlayıcı başlatıldıktan sonra iş eklenemez")
	}
	s.entries = append(s.entries, scheduledJob{job: job, interval: interval})
	return nil
}

// Start işleri planlar ve cron döngüsünü başlatır.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	if !s.scheduled {
		for _, entry := range s.entries {
			entry := entry
			s.cron.Schedule(cron.Every(entry.interval), cron.FuncJob(func() {
				s.runJob(entry.job)
			}))
			configslog.Log.Info("Periyodik iş planlandı", zap.String("job", entry.job.Name()), zap.Duration("interval", entry.interval))
		}
		s.scheduled = true
	}
	s.cron.Start()
	s.running = true
}

func (s *Scheduler) runJob(job Job) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	if _, err := job.Run(ctx); err != nil {
		configslog.Log.Error("Periyodik iş hata ile bitti", zap.String("job", job.Name()), zap.Error(err))
	}
}

// RunNow tüm işleri sırayla hemen çalıştırır (CLI ve testler için).
func (s *Scheduler) RunNow(ctx context.Context) []Report {
	s.mu.Lock()
	entries := append([]scheduledJob(nil), s.entries...)
	s.mu.Unlock()

	reports := make([]Report, 0, len(entries))
	for _, entry := range entries {
		report, err := entry.job.Run(ctx)
		if err != nil {
			configslog.Log.Error("İş hata ile bitti", zap.String("job", entry.job.Name()), zap.Error(err))
		}
		reports = append(reports, report)
	}
	return reports
}

// Stop yeni çalıştırmaları durdurur, çalışan işlere iptal sinyali gönderir ve
// bitmelerini ctx süresi boyunca bekler.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		configslog.Log.Info("Zamanlayıcı durduruldu")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewDefaultScheduler hatırlatma ve temizlik işlerini yapılandırmadaki aralıklarla planlar.
func NewDefaultScheduler(db *gorm.DB, cfg configs.JobsConfig, mailer services.IMailService) (*Scheduler, error) {
	s := NewScheduler()
	if err := s.Add(NewReminderJob(db, mailer, cfg.ReminderWindow), cfg.ReminderInterval); err != nil {
		return nil, err
	}
	if err := s.Add(NewCleanupJob(db, cfg.NotificationKeep), cfg.CleanupInterval); err != nil {
		return nil, err
	}
	return s, nil
}
