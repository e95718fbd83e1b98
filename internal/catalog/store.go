// Package catalog charge la collection products une fois et sert les lectures
// (catégorie, recherche, filtres de la boutique) depuis la mémoire.
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/gateway"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"go.uber.org/zap"
)

// Indexer reçoit une copie du catalogue après chaque chargement réussi.
type Indexer interface {
	IndexProducts(ctx context.Context, products []models.Product) error
}

type Store struct {
	gw      gateway.Gateway
	indexer Indexer

	mu       sync.RWMutex
	products []models.Product
	loading  bool
	loaded   bool
	errMsg   string
}

type Option func(*Store)

func WithIndexer(ix Indexer) Option {
	return func(s *Store) { s.indexer = ix }
}

func NewStore(gw gateway.Gateway, opts ...Option) *Store {
	s := &Store{gw: gw}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchProducts recharge tout le catalogue. En cas d'échec, le message est
// conservé dans Err() et la liste précédente reste en place.
func (s *Store) FetchProducts(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var rows []models.Product
	err := s.gw.Select(ctx, gateway.CollectionProducts, gateway.Query{}, &rows)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.errMsg = err.Error()
		s.mu.Unlock()
		zap.L().Error("❌ Chargement du catalogue impossible", zap.Error(err))
		return err
	}
	if rows == nil {
		rows = []models.Product{}
	}
	s.products = rows
	s.loaded = true
	s.errMsg = ""
	s.mu.Unlock()

	zap.L().Info("✅ Catalogue chargé", zap.Int("products", len(rows)))

	if s.indexer != nil {
		if err := s.indexer.IndexProducts(ctx, rows); err != nil {
			zap.L().Warn("⚠️ Indexation du catalogue ignorée", zap.Error(err))
		}
	}
	return nil
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Loaded est vrai dès qu'un chargement a réussi au moins une fois.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Err retourne le message du dernier échec, ou "" après un succès.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.products...)
}

func (s *Store) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (s *Store) ProductsByCategory(category models.Category) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Product{}
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SearchProducts cherche query (sans casse) dans le nom ou la description.
// Une requête vide correspond à tout le catalogue ; les appelants vérifient la
// longueur avant d'appeler.
func (s *Store) SearchProducts(query string) []models.Product {
	lower := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Product{}
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) {
			out = append(out, p)
		}
	}
	return out
}

// ByIDs retourne les produits chargés dans l'ordre des ids donnés ; les ids
// inconnus sont ignorés.
func (s *Store) ByIDs(ids []string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := make(map[string]models.Product, len(s.products))
	for _, p := range s.products {
		index[p.ID] = p
	}
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := index[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
