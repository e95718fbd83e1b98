// Package storage fournit le stockage clé/valeur durable du panier
// (Redis ou fichier bbolt) et la diffusion des notifications de panier.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("storage: key not found")

// Store est un stockage clé/valeur de blobs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Broker diffuse des messages courts ("updated", "cleared") par canal.
type Broker interface {
	Publish(ctx context.Context, channel, msg string) error
	// Subscribe renvoie le flux des messages du canal ; cancel libère l'abonnement
	// et ferme le flux.
	Subscribe(ctx context.Context, channel string) (msgs <-chan string, cancel func(), err error)
}

const (
	DriverBolt   = "bolt"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Options struct {
	Driver        string
	BoltPath      string
	RedisAddr     string
	RedisPassword string
}

// Counter incrémente un compteur qui expire après window (fenêtre fixe).
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Backend regroupe les services rendus par un driver.
type Backend struct {
	Store   Store
	Broker  Broker
	Counter Counter
}

func (b *Backend) Close() error {
	return b.Store.Close()
}

// Open construit le backend du driver demandé. Redis sert les trois rôles ;
// bolt et memory s'appuient sur un broker et des compteurs en mémoire du processus.
func Open(ctx context.Context, opts Options) (*Backend, error) {
	switch opts.Driver {
	case DriverRedis:
		r, err := NewRedis(ctx, opts.RedisAddr, opts.RedisPassword)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: r, Broker: r, Counter: r}, nil
	case DriverBolt, "":
		b, err := OpenBolt(opts.BoltPath)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: b, Broker: NewLocalBroker(), Counter: NewLocalCounter()}, nil
	case DriverMemory:
		return &Backend{Store: NewMemory(), Broker: NewLocalBroker(), Counter: NewLocalCounter()}, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
