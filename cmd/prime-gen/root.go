package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"prime-gen/primesearch/application"
	"prime-gen/primesearch/domain"
	"prime-gen/primesearch/infra"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prime-gen <bits> [count]",
		Short: "Search random probable primes of a given bit length",
		Long: `prime-gen draws random integers of <bits> bits (a multiple of 8, at least 32),
discards those with small factors and runs the Miller-Rabin test on the rest,
using concurrent workers, until [count] (default 1) probable primes are found.

Every flag can also be set through the environment, e.g. PRIMEGEN_WORKERS=8.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	registerFlags(cmd.Flags())

	// argumento inválido (ex: count negativo lido como flag) imprime uso e sai com 0
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintln(c.OutOrStdout(), err)
		return c.Usage()
	})

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		v, err := newViper(cmd.Flags())
		if err != nil {
			return err
		}
		cfg, err := loadConfig(v)
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		req, err := parseArgs(args, cfg.Rounds)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(cmd.OutOrStdout(), err)
			return cmd.Usage()
		}
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return run(ctx, cfg, req, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	return cmd
}

func run(ctx context.Context, cfg config, req domain.SearchRequest, stdout, stderr io.Writer) error {
	logger := infra.NewLogger(stderr, cfg.LogLevel, cfg.LogJSON)
	searchID := uuid.NewString()

	sinks := infra.MultiSink{infra.NewWriterSink(stdout)}
	var stats domain.StatsStore

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}

		sinks = append(sinks, infra.NewRedisSink(rdb, searchID, req.Bits,
			infra.WithSinkPrefix(cfg.RedisPrefix),
			infra.WithSinkTTL(cfg.RedisTTL),
		))
		stats = infra.NewRedisStatsStore(rdb,
			infra.WithStatsPrefix(cfg.RedisPrefix+":stats"),
			infra.WithStatsTTL(cfg.RedisTTL),
		)
	}

	if cfg.AMQPURI != "" {
		ch, closeAMQP, err := infra.DialAMQP(cfg.AMQPURI, cfg.AMQPExchange, cfg.AMQPExchangeType)
		if err != nil {
			return fmt.Errorf("amqp: %w", err)
		}
		defer func() {
			if cerr := closeAMQP(); cerr != nil {
				logger.Warn("amqp close failed", "error", cerr)
			}
		}()
		sinks = append(sinks, infra.NewAMQPSink(ch, cfg.AMQPExchange, cfg.AMQPRoutingKey, searchID, req.Bits))
	}

	svc := application.SearchService{
		Source:   infra.NewCryptoSource(),
		Filter:   infra.NewSmallPrimeFilter(),
		Tester:   infra.NewMillerRabin(),
		Sink:     sinks,
		Workers:  cfg.Workers,
		Stats:    stats,
		Progress: infra.NewThrottledProgress(logger, 1),
		Logger:   logger,
		NewID:    func() string { return searchID },
	}

	if cfg.Trace {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
		defer func() { _ = tp.Shutdown(context.WithoutCancel(ctx)) }()
		svc.Tracer = tp.Tracer("prime-gen")
	}

	fmt.Fprintf(stdout, "Generating %d prime(s) of %d bits\n", req.Target, int(req.Bits))
	start := time.Now()

	results, err := svc.Run(ctx, req)
	elapsed := time.Since(start)

	if cerr := sinks.Close(); cerr != nil {
		logger.Warn("closing sinks failed", "error", cerr)
	}
	if err != nil {
		return err
	}

	if cfg.Verify {
		if err := application.Verify(infra.NewMillerRabin(), results, req.Rounds); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		logger.Info("verified", slog.Int("primes", len(results)))
	}

	fmt.Fprintf(stdout, "Took %s\n", elapsed.Round(time.Microsecond))
	return nil
}
