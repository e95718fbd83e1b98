// Package gateway est l'accès au backend hébergé (collections products, reviews
// et profiles). Les stores ne voient que l'interface Gateway.
package gateway

import (
	"context"
	"fmt"
)

const (
	CollectionProducts = "products"
	CollectionReviews  = "reviews"
	CollectionProfiles = "profiles"
)

type Filter struct {
	Field string
	Value string
}

type Order struct {
	Field     string
	Ascending bool
}

// Query regroupe les filtres d'égalité et le tri d'un Select.
type Query struct {
	Filters []Filter
	Order   *Order
}

func (q Query) Eq(field, value string) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

func (q Query) OrderBy(field string, ascending bool) Query {
	q.Order = &Order{Field: field, Ascending: ascending}
	return q
}

type Gateway interface {
	// Select décode les lignes trouvées dans out (pointeur vers un slice).
	Select(ctx context.Context, collection string, q Query, out any) error
	// Insert insère row et décode la représentation renvoyée dans out (pointeur vers un slice).
	Insert(ctx context.Context, collection string, row any, out any) error
	// Upsert insère ou remplace row selon conflictKey.
	Upsert(ctx context.Context, collection string, row any, conflictKey string) error
}

// Error décrit l'échec d'une opération sur une collection.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
