package infra

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"prime-gen/primesearch/domain"
)

// RedisSink guarda os primos de cada busca em uma lista Redis:
//
//	<prefix>:search:<searchID>      RPUSH "<index>:<value>"
//	<prefix>:bits:<bits>            SADD  "<value>" (catálogo por tamanho)
//
// A ordem da lista é a ordem de Emit, ou seja, a ordem do índice de descoberta.
type RedisSink struct {
	rdb      *redis.Client
	searchID string
	bits     domain.BitLength

	prefix string
	ttl    time.Duration
}

type RedisSinkOption func(*RedisSink)

func WithSinkPrefix(prefix string) RedisSinkOption {
	return func(s *RedisSink) { s.prefix = strings.Trim(prefix, ":") }
}

// WithSinkTTL aplica expiração à lista da busca. 0 mantém para sempre.
func WithSinkTTL(d time.Duration) RedisSinkOption {
	return func(s *RedisSink) { s.ttl = d }
}

func NewRedisSink(rdb *redis.Client, searchID string, bits domain.BitLength, opts ...RedisSinkOption) *RedisSink {
	s := &RedisSink{
		rdb:      rdb,
		searchID: searchID,
		bits:     bits,
		prefix:   "primegen",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisSink) SearchKey() string { return s.prefix + ":search:" + s.searchID }

func (s *RedisSink) BitsKey() string { return s.prefix + ":bits:" + strconv.Itoa(int(s.bits)) }

func (s *RedisSink) Emit(ctx context.Context, p domain.FoundPrime) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	value := p.Value.String()

	pipe := s.rdb.Pipeline()
	pipe.RPush(ctx, s.SearchKey(), strconv.Itoa(p.Index)+":"+value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.SearchKey(), s.ttl)
	}
	pipe.SAdd(ctx, s.BitsKey(), value)

	_, err := pipe.Exec(ctx)
	return err
}
