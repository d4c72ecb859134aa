package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"organize.it/configs"
	"organize.it/configs/configsdatabase"
	"organize.it/configs/configslog"
	"organize.it/database"
	"organize.it/jobs"
	"organize.it/routes"
	"organize.it/services"
	"organize.it/views"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	configs.LoadEnv()
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configs.LoadAppConfig()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()
	db := configsdatabase.GetDB()

	if configs.GetEnvBool("DB_AUTO_MIGRATE", cfg.Env == "development") {
		if err := database.Initialize(db, true, false); err != nil {
			configslog.Log.Fatal("Otomatik migrasyon başarısız", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mailer := services.NewMailService(cfg.Mail)
	storage, err := services.NewStorageService(ctx, cfg.Storage)
	if err != nil {
		configslog.Log.Fatal("Dosya depolama başlatılamadı", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	svc := services.New(db, cfg, mailer, storage)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		if scheduler, err = jobs.NewDefaultScheduler(db, cfg.Jobs, mailer); err != nil {
			configslog.Log.Fatal("Zamanlayıcı kurulamadı", zap.Error(err))
		}
		scheduler.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      "organize.it",
		Views:        views.NewEngine(cfg.Location),
		BodyLimit:    cfg.Storage.MaxUploadBytes,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	routes.SetupRoutes(app, cfg, svc)

	go func() {
		configslog.SLog.Infof("Sunucu %s portunda başlatılıyor", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			configslog.Log.Error("Sunucu durdu", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	configslog.SLog.Info("Kapatma sinyali alındı, sunucu kapatılıyor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			configslog.Log.Warn("Zamanlayıcı zamanında durmadı", zap.Error(err))
		}
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		configslog.Log.Error("Sunucu düzgün kapatılamadı", zap.Error(err))
	}
	configslog.SLog.Info("Sunucu durdu")
}
