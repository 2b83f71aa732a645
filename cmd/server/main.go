package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"intakeflow/internal/audit"
	"intakeflow/internal/invoice/handler"
	invoicemetrics "intakeflow/internal/invoice/metrics"
	invoicepdf "intakeflow/internal/invoice/pdf"
	"intakeflow/internal/invoice/service"
	"intakeflow/internal/invoice/store"
	"intakeflow/internal/invoice/workflow"
	kychandler "intakeflow/internal/kyc/handler"
	kycmetrics "intakeflow/internal/kyc/metrics"
	kycpdf "intakeflow/internal/kyc/pdf"
	kycservice "intakeflow/internal/kyc/service"
	kycstore "intakeflow/internal/kyc/store"
	"intakeflow/internal/notify"
	"intakeflow/internal/platform/config"
	"intakeflow/internal/platform/httpserver"
	"intakeflow/internal/platform/logger"
	"intakeflow/internal/platform/middleware"
	platformredis "intakeflow/internal/platform/redis"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, closeRecords, err := buildRecordStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeRecords()

	applications, err := kycstore.NewCSV(filepath.Join(cfg.DataDir, "kyc.csv"))
	if err != nil {
		return err
	}

	auditStore, closeAudit, err := buildAuditStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	publisher := audit.NewChannelPublisher(256, log)
	worker := audit.NewWorker(auditStore, publisher.Inbox(), log)

	var notifier workflow.Notifier
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTP(cfg.SMTP, log)
	} else {
		log.Info("smtp not configured, using in-memory notifier")
		notifier = notify.NewMemory()
	}

	invMetrics := invoicemetrics.New()
	engine, err := workflow.New(records, invoicepdf.New(cfg.InvoiceDir), notifier,
		workflow.WithLogger(log),
		workflow.WithMetrics(invMetrics),
	)
	if err != nil {
		return err
	}
	invoiceSvc, err := service.New(records, engine,
		service.WithLogger(log),
		service.WithMetrics(invMetrics),
		service.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	kycSvc, err := kycservice.New(applications, kycpdf.New(cfg.DocumentDir),
		kycservice.WithLogger(log),
		kycservice.WithMetrics(kycmetrics.New()),
		kycservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	handler.New(invoiceSvc, log).Register(router)
	kychandler.New(kycSvc, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		log.Info("starting intakeflow", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// buildRecordStore picks the invoice backend: postgres when a DSN is set,
// otherwise the flat CSV file. A configured redis wraps either in a
// read-through cache.
func buildRecordStore(cfg config.Config, log *slog.Logger) (store.RecordStore, func(), error) {
	var (
		records store.RecordStore
		closers []func()
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		pg, err := store.NewPostgres(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		records = pg
		closers = append(closers, func() { db.Close() })
	} else {
		csvStore, err := store.NewCSV(filepath.Join(cfg.DataDir, "records.csv"))
		if err != nil {
			return nil, nil, err
		}
		records = csvStore
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, lookups uncached", "error", err)
	} else if redisClient != nil {
		records = store.NewCached(records, redisClient, config.LookupCacheTTL, log)
		closers = append(closers, func() { redisClient.Close() })
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return records, closeAll, nil
}

func buildAuditStore(cfg config.Config, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("kafka not configured, audit trail kept in memory")
		return audit.NewMemoryStore(), func() {}, nil
	}
	kafka, err := audit.NewKafkaStore(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, nil, err
	}
	return kafka, kafka.Close, nil
}
