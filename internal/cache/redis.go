package cache

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CanalInvalidacao é o canal pub/sub onde cada tag/path invalidado é
// anunciado para consumidores da camada de leitura.
const CanalInvalidacao = "cache:invalidations"

const prefixoTag = "tag:"
const prefixoPath = "path:"

// Redis implementa Store e Invalidator sobre um cliente go-redis
// compartilhado pelo processo.
type Redis struct {
	rdb *goredis.Client
	log zerolog.Logger
}

func NewRedis(addr, password string, db int, log zerolog.Logger) *Redis {
	return &Redis{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		log: log,
	}
}

// NewRedisWithClient permite injetar um cliente já construído (testes).
func NewRedisWithClient(rdb *goredis.Client, log zerolog.Logger) *Redis {
	return &Redis{rdb: rdb, log: log}
}

func (c *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

func (c *Redis) Close() error { return c.rdb.Close() }

func (c *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set grava o valor serializado e registra a chave no índice de cada tag.
// Os índices não expiram junto com a chave; membros órfãos são inofensivos
// porque a invalidação só executa DELs.
func (c *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, key, raw, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, prefixoTag+tag, key)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate derruba todas as chaves registradas sob cada tag e anuncia a
// tag no canal de invalidação. Erros são apenas logados.
func (c *Redis) Invalidate(ctx context.Context, tags ...string) {
	for _, tag := range tags {
		keys, err := c.rdb.SMembers(ctx, prefixoTag+tag).Result()
		if err != nil {
			c.log.Warn().Str("tag", tag).Err(err).Msg("falha ao listar chaves da tag")
			continue
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				c.log.Warn().Str("tag", tag).Err(err).Msg("falha ao invalidar chaves da tag")
			}
		}
		if err := c.rdb.Del(ctx, prefixoTag+tag).Err(); err != nil {
			c.log.Warn().Str("tag", tag).Err(err).Msg("falha ao remover índice da tag")
		}
		if err := c.rdb.Publish(ctx, CanalInvalidacao, tag).Err(); err != nil {
			c.log.Warn().Str("tag", tag).Err(err).Msg("falha ao anunciar invalidação")
		}
	}
}

func (c *Redis) InvalidatePaths(ctx context.Context, paths ...string) {
	for _, path := range paths {
		if err := c.rdb.Del(ctx, prefixoPath+path).Err(); err != nil {
			c.log.Warn().Str("path", path).Err(err).Msg("falha ao invalidar path")
		}
		if err := c.rdb.Publish(ctx, CanalInvalidacao, path).Err(); err != nil {
			c.log.Warn().Str("path", path).Err(err).Msg("falha ao anunciar invalidação")
		}
	}
}
