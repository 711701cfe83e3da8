package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"prime-gen/primesearch"
	"prime-gen/primesearch/application"
	"prime-gen/primesearch/domain"
	"prime-gen/primesearch/infra"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := infra.NewLogger(os.Stderr, cfg.logLevel, cfg.logJSON)

	promStats, err := infra.NewPrometheusStatsStore(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("metrics error: %v", err)
	}
	stats := infra.MultiStatsStore{promStats}

	if cfg.statsRedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		stats = append(stats, infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
		))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var limiter domain.LimiterStore
	if cfg.rateEnabled {
		store := infra.NewLimiterStore(cfg.rateRPS, cfg.rateBurst)
		store.StartJanitor(ctx)
		limiter = store
	}

	h := primesearch.NewRouter(primesearch.RouterOptions{
		Handler: primesearch.HandlerOptions{
			Search: application.SearchService{
				Source:   infra.NewCryptoSource(),
				Filter:   infra.NewSmallPrimeFilter(),
				Tester:   infra.NewMillerRabin(),
				Workers:  cfg.searchWorkers,
				Stats:    stats,
				Progress: infra.NewThrottledProgress(logger, 0.2),
				Logger:   logger,
			},
			Rounds:   cfg.searchRounds,
			MaxBits:  cfg.searchMaxBits,
			MaxCount: cfg.searchMaxCount,
		},
		Concurrency: primesearch.ConcurrencyOptions{
			Max:            cfg.concurrencyMax,
			RejectStatus:   http.StatusServiceUnavailable,
			AcquireTimeout: cfg.concurrencyTimeout,
		},
		Admission: primesearch.AdmissionOptions{
			Store:              limiter,
			TrustXForwardedFor: cfg.trustXFF,
			RetryAfter:         cfg.retryAfter,
		},
	})

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// sem WriteTimeout: buscas grandes podem levar minutos em streaming
		IdleTimeout: 90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("prime-server listening on %s", cfg.listenAddr)
	log.Printf("search: workers=%d rounds=%d maxBits=%d maxCount=%d", cfg.searchWorkers, cfg.searchRounds, cfg.searchMaxBits, cfg.searchMaxCount)
	log.Printf("rate: enabled=%v rps=%.3f burst=%d trustXFF=%v", cfg.rateEnabled, cfg.rateRPS, cfg.rateBurst, cfg.trustXFF)
	log.Printf("stats: redisAddr=%q prefix=%q ttl=%s", cfg.statsRedisAddr, cfg.statsPrefix, cfg.statsTTL)
	log.Printf("concurrency: max=%d acquireTimeout=%s", cfg.concurrencyMax, cfg.concurrencyTimeout)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

type config struct {
	listenAddr string
	logLevel   string
	logJSON    bool

	searchWorkers  int
	searchRounds   int
	searchMaxBits  int
	searchMaxCount int

	concurrencyMax     int
	concurrencyTimeout time.Duration

	rateEnabled bool
	rateRPS     float64
	rateBurst   int
	trustXFF    bool
	retryAfter  time.Duration

	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.logLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.logJSON = getenvBoolDefault("LOG_JSON", false)

	cfg.searchWorkers = getenvIntDefault("SEARCH_WORKERS", 0)
	cfg.searchRounds = getenvIntDefault("SEARCH_ROUNDS", domain.DefaultRounds)
	cfg.searchMaxBits = getenvIntDefault("SEARCH_MAX_BITS", primesearch.DefaultMaxBits)
	cfg.searchMaxCount = getenvIntDefault("SEARCH_MAX_COUNT", primesearch.DefaultMaxCount)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 4)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.rateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	cfg.rateRPS = getenvFloatDefault("RATE_RPS", 1)
	cfg.rateBurst = getenvIntDefault("RATE_BURST", 5)
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.retryAfter = getenvDurationDefault("RETRY_AFTER", 1*time.Second)

	cfg.statsRedisAddr = strings.TrimSpace(os.Getenv("STATS_REDIS_ADDR"))
	cfg.statsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = getenvIntDefault("STATS_REDIS_DB", 0)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "primegen:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)

	if cfg.searchWorkers < 0 {
		return config{}, errors.New("SEARCH_WORKERS must be >= 0")
	}
	if _, err := domain.ParseBitLength(cfg.searchMaxBits); err != nil {
		return config{}, errors.New("SEARCH_MAX_BITS must be a multiple of 8 and >= 32")
	}
	if cfg.searchMaxCount <= 0 {
		return config{}, errors.New("SEARCH_MAX_COUNT must be > 0")
	}
	if cfg.rateEnabled && cfg.rateRPS <= 0 {
		return config{}, errors.New("RATE_RPS must be > 0")
	}
	if cfg.rateEnabled && cfg.rateBurst <= 0 {
		return config{}, errors.New("RATE_BURST must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
