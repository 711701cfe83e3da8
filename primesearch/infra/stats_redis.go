package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"prime-gen/primesearch/domain"
)

// RedisStatsStore acumula contadores das buscas em hashes Redis:
//
//	<prefix>:total               searches/failed/generated/filtered/composite/found
//	<prefix>:bits:<bits>         idem, por tamanho
//	<prefix>:minute:<yyyymmddhhmm> idem, por minuto (expira com ttl)
type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal.
	// total e bits são cumulativos e não expiram.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "primegen:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, sum domain.SearchSummary) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := sum.At
	if at.IsZero() {
		at = time.Now()
	}

	fields := map[string]int64{
		"searches":  1,
		"generated": sum.Generated,
		"filtered":  sum.Filtered,
		"composite": sum.Composite,
		"found":     sum.Found,
	}
	if sum.Err != nil {
		fields["failed"] = 1
	}

	keys := []string{
		s.prefix + ":total",
		s.prefix + ":bits:" + strconv.Itoa(int(sum.Bits)),
	}

	pipe := s.rdb.Pipeline()
	for _, key := range keys {
		for f, v := range fields {
			pipe.HIncrBy(ctx, key, f, v)
		}
	}

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		for f, v := range fields {
			pipe.HIncrBy(ctx, bucketKey, f, v)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
