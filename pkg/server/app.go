package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	smetrics "SalesPulse/internal/service/metrics"
	"SalesPulse/internal/usecase"
	pkgch "SalesPulse/pkg/clickhouse"
	"SalesPulse/pkg/config"
	xhttp "SalesPulse/pkg/http"
	pkgkafka "SalesPulse/pkg/kafka"
	applogger "SalesPulse/pkg/logger"
	"SalesPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	refresher   *usecase.PipelineRefresher
	archiver    *usecase.SnapshotArchiver
	consumer    *pkgkafka.Consumer
	eh          pkgkafka.MessageHandler
	rq          *queue.RedisQueue
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	refresher *usecase.PipelineRefresher,
	archiver *usecase.SnapshotArchiver,
	consumer *pkgkafka.Consumer,
	eh *usecase.DealEventsHandler,
	rq *queue.RedisQueue,
	chClient *pkgch.Client,
) *App {
	a := &App{
		cfg:       cfg,
		log:       log,
		refresher: refresher,
		archiver:  archiver,
		consumer:  consumer,
		rq:        rq,
		chClient:  chClient,
	}
	if eh != nil {
		a.eh = eh
	}
	return a
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	smetrics.Register()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start the batching archiver before anything that produces snapshots
	a.archiver.Start(ctx)

	// Start the periodic refresher (also starts the snapshot pipeline)
	go func() {
		if err := a.refresher.Start(ctx); err != nil {
			a.log.Error("refresher error", applogger.Error(err))
		}
	}()
	a.log.Info("refresher started", applogger.Strings("pipelines", a.cfg.Sheets.Pipelines))

	// Start the CRM change consumer if configured
	if a.consumer != nil && a.eh != nil && a.eh.Topic() != "" {
		a.consumer.RegisterHandler(a.eh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.eh.Topic()))
	}

	// Start the refresh queue workers
	if a.rq != nil {
		if err := a.rq.Start(); err != nil {
			a.log.Error("refresh queue start error", applogger.Error(err))
		} else {
			a.rq.StartRetryProcessor()
			a.log.Info("refresh queue started")
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// Stop the refresher (pipeline + loop)
	if err := a.refresher.Shutdown(ctx); err != nil {
		a.log.Warn("refresher stop error", applogger.Error(err))
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Stop queue workers
	if a.rq != nil {
		if err := a.rq.Stop(shutdownCtx); err != nil {
			a.log.Warn("refresh queue stop error", applogger.Error(err))
		}
	}

	// Flush and close archive sinks (publisher/storage)
	if a.archiver != nil {
		a.archiver.Close()
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
