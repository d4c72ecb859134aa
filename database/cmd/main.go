package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"organize.it/configs"
	"organize.it/configs/configsdatabase"
	"organize.it/configs/configslog"
	"organize.it/database"
	"organize.it/jobs"
	"organize.it/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var jobTimeout time.Duration

var rootCmd = &cobra.Command{
	Use:   "organizeit-db",
	Short: "organize.it veritabanı ve bakım komutları",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configsdatabase.InitDB()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		configsdatabase.CloseDB()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Tabloları oluşturur veya günceller",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Initialize(configsdatabase.GetDB(), true, false)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Demo kullanıcıları ekler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Initialize(configsdatabase.GetDB(), false, true)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Migrasyon ve seed adımlarını tek transaction içinde çalıştırır",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Initialize(configsdatabase.GetDB(), true, true)
	},
}

var runJobsCmd = &cobra.Command{
	Use:       "run-jobs [reminder|cleanup|all]",
	Short:     "Periyodik işleri zamanlayıcıyı beklemeden bir kez çalıştırır",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{jobs.ReminderJobName, jobs.CleanupJobName, "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		which := "all"
		if len(args) == 1 {
			which = args[0]
		}

		cfg := configs.LoadAppConfig()
		db := configsdatabase.GetDB()
		mailer := services.NewMailService(cfg.Mail)

		var selected []jobs.Job
		if which == "all" || which == jobs.ReminderJobName {
			selected = append(selected, jobs.NewReminderJob(db, mailer, cfg.Jobs.ReminderWindow))
		}
		if which == "all" || which == jobs.CleanupJobName {
			selected = append(selected, jobs.NewCleanupJob(db, cfg.Jobs.NotificationKeep))
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), jobTimeout)
		defer cancel()
		for _, job := range selected {
			report, err := job.Run(ctx)
			if err != nil {
				configslog.Log.Error("İş başarısız oldu", zap.String("job", job.Name()), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: scanned=%d created=%d skipped=%d deleted=%d failed=%d (%s)\n",
				report.Job, report.Scanned, report.Created, report.Skipped, report.Deleted, report.Failed, report.Duration)
		}
		return nil
	},
}

func init() {
	runJobsCmd.Flags().DurationVar(&jobTimeout, "timeout", 5*time.Minute, "işlerin toplam süre sınırı")
	rootCmd.AddCommand(migrateCmd, seedCmd, initCmd, runJobsCmd)
}

func main() {
	configs.LoadEnv()
	configslog.InitLogger()
	defer configslog.SyncLogger()

	if err := rootCmd.Execute(); err != nil {
		configslog.SyncLogger()
		os.Exit(1)
	}
}
