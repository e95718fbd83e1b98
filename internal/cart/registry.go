package cart

import (
	"context"
	"sync"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/storage"
	"go.uber.org/zap"
)

// Registry garde un Store par visiteur, créé (et rechargé) au premier accès.
type Registry struct {
	storage storage.Store
	broker  storage.Broker
	opts    []Option

	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry accepte un broker nil : les paniers ne sont alors pas notifiés.
func NewRegistry(st storage.Store, broker storage.Broker, opts ...Option) *Registry {
	if broker != nil {
		opts = append([]Option{WithBroker(broker)}, opts...)
	}
	return &Registry{
		storage: st,
		broker:  broker,
		opts:    opts,
		stores:  make(map[string]*Store),
	}
}

// Get retourne le panier du visiteur. Le chargement se fait hors du verrou ;
// un panier dont la lecture a échoué n'est pas gardé.
func (r *Registry) Get(ctx context.Context, visitor string) (*Store, error) {
	r.mu.Lock()
	s, ok := r.stores[visitor]
	r.mu.Unlock()
	if ok {
		return s, nil
	}

	s, err := NewStore(ctx, r.storage, visitor, r.opts...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Un autre appel a pu charger le même panier entre-temps.
	if existing, ok := r.stores[visitor]; ok {
		return existing, nil
	}
	r.stores[visitor] = s
	return s, nil
}

// Watch émet un instantané du panier à chaque événement publié sur son canal.
// Le panier est relu depuis le stockage avant chaque instantané pour suivre
// les écritures d'autres instances.
func (r *Registry) Watch(ctx context.Context, visitor string) (<-chan Snapshot, func(), error) {
	store, err := r.Get(ctx, visitor)
	if err != nil {
		return nil, nil, err
	}
	msgs, cancel, err := r.broker.Subscribe(ctx, Key(visitor))
	if err != nil {
		return nil, nil, err
	}

	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		for msg := range msgs {
			if msg != EventUpdated && msg != EventCleared {
				zap.L().Debug("Événement panier ignoré", zap.String("payload", msg))
				continue
			}
			// En cas d'échec le contenu en mémoire reste celui de la dernière lecture.
			_ = store.Reload(ctx)
			select {
			case out <- store.Snapshot():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, cancel, nil
}

func (r *Registry) CanWatch() bool {
	return r.broker != nil
}
