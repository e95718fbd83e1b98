// Package search garde une copie du catalogue dans Elasticsearch pour la
// recherche plein texte. Le catalogue en mémoire reste la source de vérité.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const DefaultIndex = "products"

type Elastic struct {
	client *elasticsearch.Client
	index  string
}

func NewElastic(addr, user, password string) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("client elasticsearch: %w", err)
	}
	return &Elastic{client: client, index: DefaultIndex}, nil
}

// document est la forme indexée : seuls les champs utiles à la recherche.
type document struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Colors      []string        `json:"colors"`
	Price       int64           `json:"price"`
}

// IndexProducts remplace les documents des produits donnés en un seul appel _bulk.
func (e *Elastic) IndexProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, p := range products {
		meta := map[string]any{"index": map[string]any{"_index": e.index, "_id": p.ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		doc := document{ID: p.ID, Name: p.Name, Description: p.Description, Category: p.Category, Colors: p.Colors, Price: p.Price}
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}

	req := esapi.BulkRequest{
		Index:   e.index,
		Body:    &body,
		Refresh: "true",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("bulk elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk elasticsearch: %s", res.String())
	}

	var out struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("décodage réponse bulk: %w", err)
	}
	if out.Errors {
		return errors.New("bulk elasticsearch: certains documents ont été rejetés")
	}

	zap.L().Info("✅ Catalogue indexé dans Elasticsearch", zap.Int("products", len(products)))
	return nil
}

// Search retourne les ids des produits correspondant à query, par pertinence.
func (e *Elastic) Search(ctx context.Context, query string) ([]string, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"_source": []string{"id"},
		"size":    100,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description", "colors"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("encodage requête: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("requête elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("recherche elasticsearch: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("décodage JSON: %w", err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
