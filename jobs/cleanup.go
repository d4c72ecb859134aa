package jobs

import (
	"context"
	"time"

	"organize.it/configs/configslog"
	"organize.it/pkg/metrics"
	"organize.it/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const CleanupJobName = "notification_cleanup"

// DefaultNotificationKeep kullanıcı başına saklanan bildirim sayısı.
const DefaultNotificationKeep = 50

// CleanupJob her kullanıcı için en yeni keep bildirimi bırakır.
type CleanupJob struct {
	db   *gorm.DB
	keep int
}

func NewCleanupJob(db *gorm.DB, keep int) *CleanupJob {
	if keep <= 0 {
		keep = DefaultNotificationKeep
	}
	return &CleanupJob{db: db, keep: keep}
}

func (j *CleanupJob) Name() string { return CleanupJobName }

// Run her kullanıcıyı kendi transaction'ı içinde budar. Bir kullanıcıdaki hata
// loglanır, sıradaki kullanıcıya geçilir.
func (j *CleanupJob) Run(ctx context.Context) (report Report, err error) {
	report = Report{Job: j.Name(), StartedAt: time.Now().UTC()}
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	userIDs, err := repositories.NewNotificationRepository(j.db).DistinctUserIDs(ctx)
	if err != nil {
		metrics.IncJobRun(j.Name(), "error")
		configslog.Log.Error("Bildirimi olan kullanıcılar alınamadı", zap.Error(err))
		return report, err
	}

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			metrics.IncJobRun(j.Name(), "canceled")
			return report, err
		}
		report.Scanned++
		var deleted int64
		txErr := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			deleted, err = repositories.NewNotificationRepositoryTx(tx).PruneForUser(ctx, userID, j.keep)
			return err
		})
		if txErr != nil {
			report.Failed++
			configslog.Log.Error("Kullanıcı bildirimleri budanamadı", zap.Uint("userID", userID), zap.Error(txErr))
			continue
		}
		report.Deleted += deleted
	}

	metrics.IncJobRun(j.Name(), "ok")
	configslog.Log.Info("Bildirim temizliği tamamlandı",
		zap.Int("users", report.Scanned), zap.Int64("deleted", report.Deleted), zap.Int("failed", report.Failed))
	return report, nil
}

var _ Job = (*CleanupJob)(nil)
