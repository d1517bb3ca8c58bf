package di

import (
	"context"
	"fmt"
	"time"

	domrepo "CoinSentry/internal/domain/repository"
	"CoinSentry/internal/handler/api"
	internalrepo "CoinSentry/internal/repository"
	"CoinSentry/internal/service/providers"
	"CoinSentry/internal/service/ratelimit"
	"CoinSentry/internal/services/validation"
	"CoinSentry/internal/usecase"
	"CoinSentry/pkg/cache"
	pkgch "CoinSentry/pkg/clickhouse"
	"CoinSentry/pkg/config"
	xhttp "CoinSentry/pkg/http"
	pkgkafka "CoinSentry/pkg/kafka"
	"CoinSentry/pkg/logger"
	"CoinSentry/pkg/metrics"
	"CoinSentry/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideReliabilityStore creates the trust weight store. Redis keeps
// weights durable across restarts; with Redis disabled an in-memory store
// serves single-instance deployments.
func ProvideReliabilityStore(cfg *config.Config) (domrepo.ReliabilityStore, error) {
	if !cfg.Redis.Enabled {
		return internalrepo.NewMemoryReliabilityStore(), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.PoolSize/2, 30*time.Second),
		cache.WithRedisPrefix("coinsentry"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return internalrepo.NewRedisReliabilityStore(rc.Client(), "coinsentry:reliability"), nil
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when archiving
// is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

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

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + `.validation_runs (
			ts DateTime64(3),
			symbol String,
			is_valid UInt8,
			confidence UInt8,
			sources_used UInt8,
			sources_expected UInt8,
			consensus_price Float64,
			consensus_volume Float64,
			alerts String,
			discrepancies String,
			elapsed_ms UInt32
		) ENGINE=MergeTree ORDER BY (symbol, ts)`,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideRunArchive creates the run archive repository.
func ProvideRunArchive(chClient *pkgch.Client, cfg *config.Config) domrepo.RunArchive {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseRunArchive(chClient.DB(), cfg.ClickHouse.Database+".validation_runs")
}

// ProvideKafkaProducer creates a Kafka producer, or nil when alerting over
// Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers...),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.ReadTimeout, cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideNotifier creates the critical alert notifier.
func ProvideNotifier(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Notifier {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaNotifier(producer, cfg.Kafka.AlertTopic)
}

// ProvideBinanceStream creates the Binance WebSocket feed when streaming is
// enabled, otherwise nil and the REST adapter is used instead.
func ProvideBinanceStream(cfg *config.Config) *providers.BinanceStream {
	p := cfg.Providers.Binance
	if !p.Enabled || !p.UseStream {
		return nil
	}
	symbols := p.Symbols
	if len(symbols) == 0 {
		symbols = []string{"BTC-USD"}
	}
	return providers.NewBinanceStream(p.WebSocketURL, symbols, p.PingInterval)
}

// ProvideQuoteProviders assembles the enabled source adapters.
func ProvideQuoteProviders(cfg *config.Config, stream *providers.BinanceStream) []domrepo.QuoteProvider {
	var out []domrepo.QuoteProvider
	p := cfg.Providers

	if p.Binance.Enabled {
		if stream != nil {
			out = append(out, stream)
		} else {
			out = append(out, providers.NewBinance(p.Binance.BaseURL, p.Timeout))
		}
	}
	if p.Coinbase.Enabled {
		out = append(out, providers.NewCoinbase(p.Coinbase.BaseURL, p.Timeout))
	}
	if p.Kraken.Enabled {
		out = append(out, providers.NewKraken(p.Kraken.BaseURL, p.Timeout))
	}
	return out
}

// ProvideReliabilityTracker creates the trust weight tracker.
func ProvideReliabilityTracker(store domrepo.ReliabilityStore, cfg *config.Config, l *logger.Logger) *usecase.ReliabilityTracker {
	v := cfg.Validation
	return usecase.NewReliabilityTracker(store, validation.TrustConfig{
		Alpha:       v.SmoothingAlpha,
		Neutral:     v.NeutralWeight,
		Min:         v.MinWeight,
		Max:         v.MaxWeight,
		DevCeiling:  validation.DefaultDevCeiling,
		DecayWindow: v.DecayWindow,
	}, v.WeightCacheTTL, l)
}

// ProvideValidationPipeline assembles the full pipeline from config.
func ProvideValidationPipeline(
	quoteProviders []domrepo.QuoteProvider,
	tracker *usecase.ReliabilityTracker,
	notifier domrepo.Notifier,
	archive domrepo.RunArchive,
	m domrepo.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.ValidationPipeline {
	v := cfg.Validation

	return usecase.NewValidationPipeline(
		quoteProviders,
		validation.NewSchemaValidator(v.QuoteMaxAge),
		validation.NewConsensusCalculator(v.NeutralWeight),
		validation.NewDiscrepancyDetector(validation.Thresholds{
			PriceWarn:      v.PriceWarnPct,
			PriceCritical:  v.PriceCriticalPct,
			VolumeWarn:     v.VolumeWarnPct,
			VolumeCritical: v.VolumeCriticalPct,
		}),
		validation.NewArbitrageDetector(v.ArbitrageMinSpread),
		validation.NewConfidenceScorer(validation.ScoreConfig{
			WarningPenalty:      v.WarningPenalty,
			CriticalPenalty:     v.CriticalPenalty,
			SanityPenalty:       v.WarningPenalty,
			MeanMedianSanity:    v.MeanMedianSanity,
			TrustBonusMax:       v.TrustBonusMax,
			SingleSourceCeiling: v.SingleSourceCeiling,
		}),
		validation.NewAlertEmitter(v.LowConfidenceThreshold),
		tracker,
		notifier,
		archive,
		m,
		ratelimit.New(),
		l,
		v,
		cfg.Providers.RateCapacity,
		cfg.Providers.RateRefill,
	)
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(
	l *logger.Logger,
	pipeline *usecase.ValidationPipeline,
	tracker *usecase.ReliabilityTracker,
	quoteProviders []domrepo.QuoteProvider,
) xhttp.Handler {
	return api.NewMarketEchoHandler(l, pipeline, tracker, quoteProviders)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	handler xhttp.Handler,
	stream *providers.BinanceStream,
	store domrepo.ReliabilityStore,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, handler, stream, store, chClient, producer)
}
