// Package cart tient le panier de chaque visiteur, le persiste dans le
// stockage durable et notifie ses changements.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/storage"
	"go.uber.org/zap"
)

const keyPrefix = "lera_cart:"

const (
	EventUpdated = "updated"
	EventCleared = "cleared"
)

var (
	ErrNotFound   = errors.New("cart item not found")
	ErrOutOfStock = errors.New("product is out of stock")
)

// Key retourne la clé de stockage (et le canal de notification) du panier d'un visiteur.
func Key(visitor string) string {
	return keyPrefix + visitor
}

type Option func(*Store)

// WithBroker active la publication des événements de panier.
func WithBroker(b storage.Broker) Option {
	return func(s *Store) { s.broker = b }
}

// WithClock remplace l'horloge utilisée pour les identifiants de ligne.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store est le panier d'un visiteur. Chaque mutation est suivie d'une
// écriture complète de la liste ; un échec d'écriture est journalisé et
// n'annule pas la mutation.
type Store struct {
	key     string
	storage storage.Store
	broker  storage.Broker
	now     func() time.Time

	mu    sync.RWMutex
	items []models.CartItem
}

// NewStore construit le panier et le recharge depuis le stockage. Un échec
// de lecture est renvoyé : le panier stocké ne doit pas être écrasé par une
// base vide.
func NewStore(ctx context.Context, st storage.Store, visitor string, opts ...Option) (*Store, error) {
	s := &Store{
		key:     Key(visitor),
		storage: st,
		now:     time.Now,
		items:   []models.CartItem{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload remplace le contenu en mémoire par celui du stockage. Une valeur
// absente ou illisible donne un panier vide ; si la lecture échoue, le
// contenu courant est gardé et l'erreur renvoyée. Le verrou est tenu pendant
// la lecture pour qu'aucune mutation locale ne soit écrasée par une valeur
// plus ancienne.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		zap.L().Warn("⚠️ Lecture du panier impossible", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("load cart %s: %w", s.key, err)
	}
	s.items = items
	return nil
}

func (s *Store) load(ctx context.Context) ([]models.CartItem, error) {
	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		zap.L().Debug("Panier illisible, remis à zéro", zap.String("key", s.key), zap.Error(err))
		return []models.CartItem{}, nil
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// Add ajoute quantity exemplaires du produit dans la variante (color, size).
// Une variante déjà présente voit sa quantité augmentée ; la quantité est
// toujours ramenée dans [1, stock]. Un produit sans stock n'est pas ajouté.
func (s *Store) Add(ctx context.Context, p models.Product, quantity int, color, size string) (models.CartItem, error) {
	if p.StockQuantity < 1 {
		return models.CartItem{}, ErrOutOfStock
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		it := &s.items[i]
		if it.Product.ID == p.ID && it.SelectedColor == color && it.SelectedSize == size {
			it.Quantity = min(it.Quantity+quantity, p.StockQuantity)
			line := *it
			s.persist(ctx, EventUpdated)
			return line, nil
		}
	}

	line := models.CartItem{
		ID:            fmt.Sprintf("%s-%s-%s-%d", p.ID, color, size, s.now().UnixMilli()),
		Product:       p,
		Quantity:      clamp(quantity, p.StockQuantity),
		SelectedColor: color,
		SelectedSize:  size,
	}
	s.items = append(s.items, line)
	s.persist(ctx, EventUpdated)
	return line, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx, EventUpdated)
			return nil
		}
	}
	return ErrNotFound
}

// UpdateQuantity fixe la quantité d'une ligne, ramenée dans [1, stock].
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		it := &s.items[i]
		if it.ID == id {
			it.Quantity = clamp(quantity, it.Product.StockQuantity)
			line := *it
			s.persist(ctx, EventUpdated)
			return line, nil
		}
	}
	return models.CartItem{}, ErrNotFound
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []models.CartItem{}
	s.persist(ctx, EventCleared)
}

// Drain retourne les lignes et leur total puis vide le panier, en une seule
// opération. Un panier déjà vide n'est ni réécrit ni notifié.
func (s *Store) Drain(ctx context.Context) ([]models.CartItem, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return []models.CartItem{}, 0
	}
	items, total := s.items, totalPrice(s.items)
	s.items = []models.CartItem{}
	s.persist(ctx, EventCleared)
	return items, total
}

// Items retourne une copie des lignes dans l'ordre d'ajout.
func (s *Store) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartItem{}, s.items...)
}

func (s *Store) TotalPrice() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPrice(s.items)
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalItems(s.items)
}

type Snapshot struct {
	Items      []models.CartItem `json:"items"`
	TotalPrice int64             `json:"total_price"`
	TotalItems int               `json:"total_items"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Items:      append([]models.CartItem{}, s.items...),
		TotalPrice: totalPrice(s.items),
		TotalItems: totalItems(s.items),
	}
}

func totalPrice(items []models.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

func totalItems(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// persist écrit la liste complète puis publie l'événement. Appelé verrou tenu.
func (s *Store) persist(ctx context.Context, event string) {
	data, err := json.Marshal(s.items)
	if err != nil {
		zap.L().Error("❌ Encodage du panier", zap.String("key", s.key), zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		zap.L().Warn("⚠️ Sauvegarde du panier échouée", zap.String("key", s.key), zap.Error(err))
		return
	}
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, s.key, event); err != nil {
		zap.L().Warn("⚠️ Notification panier échouée", zap.String("key", s.key), zap.Error(err))
	}
}

func clamp(q, stock int) int {
	return max(1, min(q, stock))
}
