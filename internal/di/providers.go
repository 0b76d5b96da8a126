package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"SalesPulse/internal/domain/repository"
	"SalesPulse/internal/handler/api"
	mid "SalesPulse/internal/middleware"
	internalrepo "SalesPulse/internal/repository"
	cachesvc "SalesPulse/internal/service/cache"
	"SalesPulse/internal/service/sheets"
	"SalesPulse/internal/usecase"
	pkgcache "SalesPulse/pkg/cache"
	pkgch "SalesPulse/pkg/clickhouse"
	"SalesPulse/pkg/config"
	xhttp "SalesPulse/pkg/http"
	pkgkafka "SalesPulse/pkg/kafka"
	applogger "SalesPulse/pkg/logger"
	"SalesPulse/pkg/metrics"
	"SalesPulse/pkg/queue"
	"SalesPulse/pkg/server"
	"SalesPulse/pkg/util"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and applies the
// snapshot schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SnapshotSchema); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideCache creates the series cache: layered Redis when enabled,
// in-process LRU otherwise.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Forecast.Redis.Enabled {
		return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(10_000)), nil
	}

	host, port := splitAddr(cfg.Forecast.Redis.Addr)
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Forecast.Redis.Password),
		pkgcache.WithRedisDB(cfg.Forecast.Redis.DB),
		pkgcache.WithRedisPrefix("salespulse"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideRefreshQueue creates the Redis job queue for pipeline
// refreshes. Nil when Redis is disabled; callers treat a nil queue as
// "refresh inline".
func ProvideRefreshQueue(cfg *config.Config, lgr *applogger.Logger) *queue.RedisQueue {
	if !cfg.Forecast.Redis.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Forecast.Redis.Addr,
		Password: cfg.Forecast.Redis.Password,
		DB:       cfg.Forecast.Redis.DB,
	})
	return queue.NewRedisQueue(lgr, &queue.QueueConfig{
		Workers:    2,
		QueueSize:  1000,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, client, queue.ModeProducerConsumer, queue.WithKeyPrefix("salespulse:queue"))
}

// ProvideDealSource creates the spreadsheet-backed deal source.
func ProvideDealSource(cfg *config.Config, lgr *applogger.Logger) repository.DealSource {
	return sheets.New(sheets.Config{
		BaseURL:           cfg.Sheets.BaseURL,
		APIKey:            cfg.Sheets.APIKey,
		SpreadsheetID:     cfg.Sheets.SpreadsheetID,
		Pipelines:         cfg.Sheets.Pipelines,
		Timeout:           cfg.Sheets.Timeout,
		RequestsPerMinute: cfg.Sheets.RateLimit.RequestsPerMinute,
		Burst:             cfg.Sheets.RateLimit.Burst,
	}, lgr)
}

// ProvideSnapshotStore creates ClickHouse snapshot storage.
func ProvideSnapshotStore(chClient *pkgch.Client, cfg *config.Config) repository.SnapshotStore {
	return internalrepo.NewClickHouseSnapshotStore(chClient.DB(), cfg.ClickHouse.Database+".forecast_snapshots")
}

// ProvideSnapshotPublisher creates the Kafka snapshot publisher.
func ProvideSnapshotPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.SnapshotTopic)
}

// ProvideSeriesBuilder creates the cached deal-series builder.
func ProvideSeriesBuilder(source repository.DealSource, c pkgcache.Service, cfg *config.Config, lgr *applogger.Logger) *usecase.SeriesBuilder {
	return usecase.NewSeriesBuilder(source, c, cfg.Forecast.CacheTTL.Trend, lgr)
}

// ProvideSnapshotArchiver creates the batching snapshot archiver.
func ProvideSnapshotArchiver(
	pub repository.Publisher,
	store repository.SnapshotStore,
	m repository.Metrics,
	cfg *config.Config,
	lgr *applogger.Logger,
) *usecase.SnapshotArchiver {
	return usecase.NewSnapshotArchiver(
		pub,
		store,
		m,
		cfg.Archive.Backend,
		cfg.Archive.BatchSize,
		cfg.Archive.BatchTimeout,
		lgr,
	)
}

// ProvideSnapshotPipeline builds the validation/buffering middleware in
// front of the archiver.
func ProvideSnapshotPipeline(archiver *usecase.SnapshotArchiver, m repository.Metrics) *mid.SnapshotPipeline {
	// Burst must cover the longest forecast horizon (24 steps), which
	// arrives as one back-to-back run of Process calls.
	return mid.NewSnapshotPipeline(archiver, m,
		mid.WithMaxRPS(50),
		mid.WithBurst(64),
		mid.WithBufferSize(2000),
	)
}

// ProvideForecaster creates the forecast orchestrator.
func ProvideForecaster(builder *usecase.SeriesBuilder, pipe *mid.SnapshotPipeline, m repository.Metrics, lgr *applogger.Logger) *usecase.Forecaster {
	return usecase.NewForecaster(builder, pipe, m, lgr)
}

// ProvideTrendAnalyzer creates the analysis usecase.
func ProvideTrendAnalyzer(builder *usecase.SeriesBuilder) *usecase.TrendAnalyzer {
	return usecase.NewTrendAnalyzer(builder)
}

// ProvideSnapshotHistory creates the history read usecase.
func ProvideSnapshotHistory(store repository.SnapshotStore) *usecase.SnapshotHistory {
	return usecase.NewSnapshotHistory(store)
}

// ProvidePipelineRefresher creates the periodic refresher.
func ProvidePipelineRefresher(
	source repository.DealSource,
	builder *usecase.SeriesBuilder,
	forecaster *usecase.Forecaster,
	m repository.Metrics,
	pipe *mid.SnapshotPipeline,
	cfg *config.Config,
	lgr *applogger.Logger,
) *usecase.PipelineRefresher {
	return usecase.NewPipelineRefresher(
		source,
		builder,
		forecaster,
		m,
		pipe,
		cfg.Sheets.RefreshInterval,
		cfg.Sheets.HistoryDaysLong,
		lgr,
	)
}

// ProvideDealEventsHandler registers the handler for the CRM change topic.
func ProvideDealEventsHandler(
	builder *usecase.SeriesBuilder,
	rq *queue.RedisQueue,
	m repository.Metrics,
	cfg *config.Config,
	lgr *applogger.Logger,
) *usecase.DealEventsHandler {
	var qs queue.QueueService
	if rq != nil {
		qs = rq
	}
	return usecase.NewDealEventsHandler(cfg.Kafka.Consumer.Topic, builder, qs, m, lgr)
}

// ProvideResponseCache creates the byte-level memoization cache for
// rendered forecast responses: Redis-backed when enabled so replicas
// share entries, in-process otherwise.
func ProvideResponseCache(cfg *config.Config) cachesvc.BytesCache {
	if cfg.Forecast.Redis.Enabled {
		return cachesvc.NewRedisCache(cachesvc.RedisConfig{
			Addr:     cfg.Forecast.Redis.Addr,
			Password: cfg.Forecast.Redis.Password,
			DB:       cfg.Forecast.Redis.DB,
		})
	}
	return cachesvc.NewTTLCache()
}

// ProvideHTTPHandler creates the Echo API handler.
func ProvideHTTPHandler(
	lgr *applogger.Logger,
	analyzer *usecase.TrendAnalyzer,
	forecaster *usecase.Forecaster,
	history *usecase.SnapshotHistory,
	respCache cachesvc.BytesCache,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewForecastEchoHandler(lgr, analyzer, forecaster, history, respCache, cfg.Forecast.CacheTTL.Forecast)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	refresher *usecase.PipelineRefresher,
	archiver *usecase.SnapshotArchiver,
	consumer *pkgkafka.Consumer,
	eh *usecase.DealEventsHandler,
	rq *queue.RedisQueue,
	chClient *pkgch.Client,
	httpHandler xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	if rq != nil {
		rq.RegisterJob(usecase.NewRefreshJob(refresher, lgr))
	}
	app := server.New(cfg, lgr, refresher, archiver, consumer, eh, rq, chClient)
	app.SetHTTPHandler(httpHandler)
	return app
}

func splitAddr(addr string) (string, int) {
	host, portStr, ok := strings.Cut(addr, ":")
	if !ok {
		return addr, 6379
	}
	return host, util.ParseIntDefault(portStr, 6379)
}
