// Package reviews charge les avis d'un produit et en calcule les statistiques.
package reviews

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/gateway"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"go.uber.org/zap"
)

var (
	ErrEmptyInsert   = errors.New("le backend n'a renvoyé aucune ligne")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrMissingName   = errors.New("reviewer name is required")
)

// Validate vérifie un avis avant envoi.
func Validate(in models.NewReview) error {
	if in.Rating < 1 || in.Rating > 5 {
		return ErrInvalidRating
	}
	if strings.TrimSpace(in.ReviewerName) == "" {
		return ErrMissingName
	}
	return nil
}

// Aggregator porte la liste d'avis d'un seul produit.
type Aggregator struct {
	gw gateway.Gateway

	mu        sync.RWMutex
	productID string
	reviews   []models.Review
	loading   bool
	errMsg    string
}

func NewAggregator(gw gateway.Gateway) *Aggregator {
	return &Aggregator{gw: gw, loading: true, reviews: []models.Review{}}
}

// Fetch charge les avis de productID, du plus récent au plus ancien.
// Un échec est journalisé et laisse une liste vide : l'affichage du produit
// ne doit pas dépendre des avis.
func (a *Aggregator) Fetch(ctx context.Context, productID string) {
	a.mu.Lock()
	a.productID = productID
	if productID == "" {
		a.reviews = []models.Review{}
		a.loading = false
		a.mu.Unlock()
		return
	}
	a.loading = true
	a.mu.Unlock()

	var rows []models.Review
	q := gateway.Query{}.Eq("product_id", productID).OrderBy("created_at", false)
	err := a.gw.Select(ctx, gateway.CollectionReviews, q, &rows)
	if err != nil {
		zap.L().Warn("⚠️ Lecture des avis ignorée", zap.String("product_id", productID), zap.Error(err))
		rows = nil
	}
	if rows == nil {
		rows = []models.Review{}
	}

	a.mu.Lock()
	a.reviews = rows
	a.loading = false
	a.mu.Unlock()
}

// Add insère un avis non vérifié et, une fois confirmé par le backend, place
// la ligne renvoyée en tête de liste. Sans product id, rien n'est fait.
func (a *Aggregator) Add(ctx context.Context, in models.NewReview) (*models.Review, error) {
	if in.ProductID == "" {
		return nil, nil
	}

	row := map[string]any{
		"product_id":    in.ProductID,
		"rating":        in.Rating,
		"reviewer_name": in.ReviewerName,
		"comment":       in.Comment,
		"is_verified":   false,
	}
	var inserted []models.Review
	err := a.gw.Insert(ctx, gateway.CollectionReviews, row, &inserted)
	if err == nil && len(inserted) == 0 {
		err = ErrEmptyInsert
	}
	if err != nil {
		a.mu.Lock()
		a.errMsg = err.Error()
		a.mu.Unlock()
		zap.L().Error("❌ Erreur création avis", zap.String("product_id", in.ProductID), zap.Error(err))
		return nil, err
	}

	created := inserted[0]
	a.mu.Lock()
	a.reviews = append([]models.Review{created}, a.reviews...)
	a.errMsg = ""
	a.mu.Unlock()

	zap.L().Info("⭐ Avis créé", zap.String("product_id", in.ProductID), zap.Int("rating", created.Rating))
	return &created, nil
}

func (a *Aggregator) Reviews() []models.Review {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]models.Review{}, a.reviews...)
}

func (a *Aggregator) Stats() models.ReviewStats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return ComputeStats(a.reviews)
}

func (a *Aggregator) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

func (a *Aggregator) Err() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.errMsg
}

// ComputeStats retourne le nombre d'avis et la moyenne des notes (0 si aucun avis).
func ComputeStats(reviews []models.Review) models.ReviewStats {
	if len(reviews) == 0 {
		return models.ReviewStats{}
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return models.ReviewStats{
		Count:   len(reviews),
		Average: float64(total) / float64(len(reviews)),
	}
}
