package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"prime-gen/primesearch/domain"
)

const envPrefix = "PRIMEGEN"

type config struct {
	Workers  int
	Rounds   int
	LogLevel string
	LogJSON  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	RedisTTL      time.Duration

	AMQPURI          string
	AMQPExchange     string
	AMQPExchangeType string
	AMQPRoutingKey   string

	Trace  bool
	Verify bool
}

var errUsage = errors.New("usage")

func registerFlags(fs *pflag.FlagSet) {
	fs.Int("workers", 0, "number of search workers (0 = GOMAXPROCS)")
	fs.Int("rounds", domain.DefaultRounds, "Miller-Rabin rounds per candidate")
	fs.String("log-level", "warn", "log level: debug|info|warn|error")
	fs.Bool("log-json", false, "emit logs as JSON")

	fs.String("redis-addr", "", "store found primes and search stats in Redis at this address")
	fs.String("redis-password", "", "Redis password")
	fs.Int("redis-db", 0, "Redis database")
	fs.String("redis-prefix", "primegen", "Redis key prefix")
	fs.Duration("redis-ttl", 24*time.Hour, "expiration of per-search keys (0 = never)")

	fs.String("amqp-uri", "", "publish found primes to this AMQP broker")
	fs.String("amqp-exchange", "primes", "durable AMQP exchange name")
	fs.String("amqp-exchange-type", "direct", "exchange type - direct|fanout|topic|x-custom")
	fs.String("amqp-routing-key", "prime.found", "AMQP routing key")

	fs.Bool("trace", false, "write OpenTelemetry spans to stderr")
	fs.Bool("verify", false, "re-test every reported value before exiting")
}

// newViper liga flags + variáveis PRIMEGEN_* (ex: PRIMEGEN_WORKERS, PRIMEGEN_REDIS_ADDR).
func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}

func loadConfig(v *viper.Viper) (config, error) {
	cfg := config{
		Workers:  v.GetInt("workers"),
		Rounds:   v.GetInt("rounds"),
		LogLevel: v.GetString("log-level"),
		LogJSON:  v.GetBool("log-json"),

		RedisAddr:     strings.TrimSpace(v.GetString("redis-addr")),
		RedisPassword: v.GetString("redis-password"),
		RedisDB:       v.GetInt("redis-db"),
		RedisPrefix:   v.GetString("redis-prefix"),
		RedisTTL:      v.GetDuration("redis-ttl"),

		AMQPURI:          strings.TrimSpace(v.GetString("amqp-uri")),
		AMQPExchange:     v.GetString("amqp-exchange"),
		AMQPExchangeType: v.GetString("amqp-exchange-type"),
		AMQPRoutingKey:   v.GetString("amqp-routing-key"),

		Trace:  v.GetBool("trace"),
		Verify: v.GetBool("verify"),
	}

	if cfg.Workers < 0 {
		return config{}, errors.New("workers must be >= 0")
	}
	if cfg.Rounds < 0 {
		return config{}, errors.New("rounds must be >= 0")
	}
	if cfg.RedisDB < 0 {
		return config{}, errors.New("redis-db must be >= 0")
	}
	if cfg.AMQPURI != "" && strings.TrimSpace(cfg.AMQPExchange) == "" {
		return config{}, errors.New("amqp-exchange is required when amqp-uri is set")
	}
	return cfg, nil
}

// parseArgs lê "<bits> [count]". Qualquer problema vira errUsage (imprime uso, sai com 0).
func parseArgs(args []string, rounds int) (domain.SearchRequest, error) {
	if len(args) < 1 || len(args) > 2 {
		return domain.SearchRequest{}, fmt.Errorf("%w: expected <bits> [count]", errUsage)
	}

	bits, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return domain.SearchRequest{}, fmt.Errorf("%w: bits must be an integer", errUsage)
	}

	count := 1
	if len(args) == 2 {
		count, err = strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return domain.SearchRequest{}, fmt.Errorf("%w: count must be an integer", errUsage)
		}
	}

	req, err := domain.NewSearchRequest(bits, count, rounds)
	if err != nil {
		return domain.SearchRequest{}, fmt.Errorf("%w: %w", errUsage, err)
	}
	return req, nil
}
