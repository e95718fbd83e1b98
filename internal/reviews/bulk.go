package reviews

import (
	"context"
	"sync"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/gateway"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches borne le nombre de lectures d'avis simultanées.
const maxConcurrentFetches = 8

// StatsFor calcule les statistiques de plusieurs produits, une lecture par
// produit. Les échecs donnent des statistiques vides, comme Fetch.
func StatsFor(ctx context.Context, gw gateway.Gateway, productIDs []string) map[string]models.ReviewStats {
	out := make(map[string]models.ReviewStats, len(productIDs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, id := range productIDs {
		id := id
		g.Go(func() error {
			agg := NewAggregator(gw)
			agg.Fetch(ctx, id)
			stats := agg.Stats()

			mu.Lock()
			out[id] = stats
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
