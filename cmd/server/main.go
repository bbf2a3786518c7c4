package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/auth"
	"github.com/mamadbah2/campus/internal/config"
	"github.com/mamadbah2/campus/internal/repository/mongodb"
	"github.com/mamadbah2/campus/internal/repository/sheets"
	"github.com/mamadbah2/campus/internal/scheduler"
	"github.com/mamadbah2/campus/internal/server/handlers"
	"github.com/mamadbah2/campus/internal/server/router"
	batchsvc "github.com/mamadbah2/campus/internal/service/batches"
	notifysvc "github.com/mamadbah2/campus/internal/service/notify"
	reportingsvc "github.com/mamadbah2/campus/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/campus/pkg/clients/whatsapp"
	"github.com/mamadbah2/campus/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	cancelConnect()
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter sheets.Repository
	if cfg.Sheets.Enabled() {
		exporter, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("spreadsheet id missing, report export disabled")
	}

	reportLocation, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("failed to load report timezone", zap.Error(err))
	}

	opts := academics.DefaultReportOptions()
	opts.IncludeUnassignedInAnyYear = cfg.Reporting.IncludeUnassignedInAnyYear
	opts.Location = reportLocation

	reportingSvc := reportingsvc.NewService(mongoRepo, exporter, opts, baseLogger.Named("svc.reporting"))
	batchSvc := batchsvc.NewService(mongoRepo, baseLogger.Named("svc.batches"))
	authChain := auth.NewChain(baseLogger.Named("auth"),
		auth.EmailPasswordResolver{Lookup: mongoRepo},
		auth.RollNumberResolver{Lookup: mongoRepo},
	)

	var notifier notifysvc.Notifier
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifier = notifysvc.NewWhatsAppNotifier(whatsClient, cfg.WhatsApp.AdminNumber, baseLogger.Named("svc.notify"))
		baseLogger.Info("whatsapp notifications enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, report notifications disabled")
	}

	engine := router.New(router.Handlers{
		Reports: handlers.NewReportsHandler(reportingSvc, baseLogger.Named("handlers.reports")),
		Batches: handlers.NewBatchesHandler(batchSvc, baseLogger.Named("handlers.batches")),
		Auth:    handlers.NewAuthHandler(authChain, baseLogger.Named("handlers.auth")),
	}, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
