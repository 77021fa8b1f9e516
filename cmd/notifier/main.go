package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"password_notifier/internal/app"
	"password_notifier/internal/domain/expiry"
	"password_notifier/internal/domain/ledger"
	"password_notifier/internal/infra/config"
	idb "password_notifier/internal/infra/database"
	"password_notifier/internal/infra/directory"
	"password_notifier/internal/infra/ledgerfile"
	"password_notifier/internal/infra/logger"
	infmail "password_notifier/internal/infra/mail"
	"password_notifier/internal/infra/scheduler"
	"password_notifier/internal/infra/telegram"

	"github.com/jmhodges/clock"
)

func main() {
	configPath := flag.String("config", "/etc/password_notify/config.json", "Path to the JSON configuration file")
	daemon := flag.Bool("daemon", false, "Keep running and execute the check on the configured cron schedule")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Ledger store: Postgres when a DSN is configured, JSON file otherwise.
	var store ledger.Store
	if cfg.LedgerDSN != "" {
		db, err := idb.NewPostgresConnection(cfg.LedgerDSN)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to ledger database: %v", err)
		}
		defer db.Close()
		store = idb.NewPostgresLedgerStore(db)
		log.Info("Postgres ledger store initialized.")
	} else {
		store = ledgerfile.NewFileStore(cfg.LedgerPath)
		log.Infof("File ledger store initialized at %s.", cfg.LedgerPath)
	}

	dir := directory.NewLDAPRepository(directory.Options{
		ServerURL: cfg.LDAPServer,
		BindUser:  cfg.LDAPUser,
		BindPass:  cfg.LDAPPassword,
		BaseDN:    cfg.BaseDN,
		CACert:    cfg.LDAPCACert,
	})

	sender, err := infmail.NewSMTPSender(cfg.EmailServer)
	if err != nil {
		log.Fatalf("FATAL: Invalid email_server setting: %v", err)
	}

	service := app.NewNotifyService(
		dir,
		sender,
		store,
		expiry.NewCalculator(cfg.PasswordMaxAge()),
		cfg.NotifyThresholdDays,
		cfg.EmailSender,
		cfg.EmailSubject,
		clock.New(),
		log,
	)

	var reporter app.Reporter
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		r, err := telegram.NewReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("FATAL: Could not initialize Telegram reporter: %v", err)
		}
		reporter = r
		log.Info("Telegram run reporter initialized.")
	}

	if *daemon {
		notifScheduler := scheduler.NewNotifyScheduler(service, reporter, log, cfg.CronSpec)
		if err := notifScheduler.Start(); err != nil {
			log.Fatalf("FATAL: Could not start scheduler: %v", err)
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down...")
		notifScheduler.Stop()
		log.Info("Shut down gracefully.")
		return
	}

	ctx := context.Background()
	summary, err := service.Run(ctx)
	if err != nil {
		// Setup failures (ledger load, bind, search, final persist) are
		// fatal; per-record failures have already been absorbed into the
		// summary and do not affect the exit code.
		log.Fatalf("FATAL: Notification run failed: %v", err)
	}
	if reporter != nil {
		if err := reporter.ReportRun(ctx, summary); err != nil {
			log.Errorf("Failed to deliver run report: %v", err)
		}
	}
}
