package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL est la durée de vie d'un panier inactif.
const DefaultTTL = 30 * 24 * time.Hour

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis ouvre la connexion et vérifie qu'elle répond.
func NewRedis(ctx context.Context, addr, password string) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("REDIS_HOST non configuré")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("impossible de se connecter à Redis: %w", err)
	}

	zap.L().Info("✅ Redis connecté avec succès", zap.String("addr", addr))
	return NewRedisFromClient(client), nil
}

func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client, ttl: DefaultTTL}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set écrit la valeur et repousse son expiration.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Incr pose l'expiration au premier incrément de la fenêtre.
func (r *Redis) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return incr.Val(), nil
}

func (r *Redis) Publish(ctx context.Context, channel, msg string) error {
	return r.client.Publish(ctx, channel, msg).Err()
}

func (r *Redis) Subscribe(ctx context.Context, channel string) (<-chan string, func(), error) {
	ps := r.client.Subscribe(ctx, channel)
	// Attendre la confirmation pour ne pas perdre les premiers messages.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("redis subscribe %s: %w", channel, err)
	}

	out := make(chan string, 8)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for m := range ps.Channel() {
			select {
			case out <- m.Payload:
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}
	return out, cancel, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
