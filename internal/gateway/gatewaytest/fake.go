// Package gatewaytest fournit un Gateway en mémoire pour les tests des stores.
package gatewaytest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/gateway"
)

// Fake garde les lignes de chaque collection sous forme de maps JSON.
// Les champs Fail* forcent une erreur sur l'opération correspondante.
type Fake struct {
	mu   sync.Mutex
	rows map[string][]map[string]any

	FailSelect error
	FailInsert error
	FailUpsert error

	// OnInsert complète une ligne avant son stockage (id, created_at...).
	OnInsert func(collection string, row map[string]any)

	Calls []string
}

func New() *Fake {
	return &Fake{rows: make(map[string][]map[string]any)}
}

// Seed ajoute des lignes (structs ou maps) à une collection.
func (f *Fake) Seed(collection string, rows ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		f.rows[collection] = append(f.rows[collection], toMap(r))
	}
}

func (f *Fake) Rows(collection string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.rows[collection]...)
}

func (f *Fake) Select(_ context.Context, collection string, q gateway.Query, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "select "+collection)
	if f.FailSelect != nil {
		return &gateway.Error{Op: "select", Collection: collection, Err: f.FailSelect}
	}

	var matched []map[string]any
	for _, row := range f.rows[collection] {
		ok := true
		for _, flt := range q.Filters {
			if fmt.Sprint(row[flt.Field]) != flt.Value {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, row)
		}
	}
	if q.Order != nil {
		field, asc := q.Order.Field, q.Order.Ascending
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := fmt.Sprint(matched[i][field]), fmt.Sprint(matched[j][field])
			if asc {
				return a < b
			}
			return a > b
		})
	}
	if matched == nil {
		matched = []map[string]any{}
	}
	return remarshal(matched, out)
}

func (f *Fake) Insert(_ context.Context, collection string, row any, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "insert "+collection)
	if f.FailInsert != nil {
		return &gateway.Error{Op: "insert", Collection: collection, Err: f.FailInsert}
	}

	m := toMap(row)
	if f.OnInsert != nil {
		f.OnInsert(collection, m)
	}
	f.rows[collection] = append(f.rows[collection], m)
	return remarshal([]map[string]any{m}, out)
}

func (f *Fake) Upsert(_ context.Context, collection string, row any, conflictKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "upsert "+collection)
	if f.FailUpsert != nil {
		return &gateway.Error{Op: "upsert", Collection: collection, Err: f.FailUpsert}
	}

	m := toMap(row)
	for i, existing := range f.rows[collection] {
		if fmt.Sprint(existing[conflictKey]) == fmt.Sprint(m[conflictKey]) {
			f.rows[collection][i] = m
			return nil
		}
	}
	f.rows[collection] = append(f.rows[collection], m)
	return nil
}

func toMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	var m map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		panic(err)
	}
	return m
}

func remarshal(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
