package gateway

import (
	"context"
	"strings"

	"github.com/supabase-community/postgrest-go"
)

// REST parle au endpoint PostgREST du backend hébergé (<url>/rest/v1).
type REST struct {
	client *postgrest.Client
}

func NewREST(baseURL, apiKey string) (*REST, error) {
	client := postgrest.NewClient(restURL(baseURL), "public", map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	})
	if client.ClientError != nil {
		return nil, &Error{Op: "connect", Collection: "*", Err: client.ClientError}
	}
	return &REST{client: client}, nil
}

func restURL(baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(baseURL, "/rest/v1") {
		return baseURL
	}
	return baseURL + "/rest/v1"
}

func (r *REST) Select(ctx context.Context, collection string, q Query, out any) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "select", Collection: collection, Err: err}
	}

	fb := r.client.From(collection).Select("*", "", false)
	for _, f := range q.Filters {
		fb = fb.Eq(f.Field, f.Value)
	}
	if q.Order != nil {
		fb = fb.Order(q.Order.Field, &postgrest.OrderOpts{Ascending: q.Order.Ascending})
	}

	if _, err := fb.ExecuteTo(out); err != nil {
		return &Error{Op: "select", Collection: collection, Err: err}
	}
	return nil
}

func (r *REST) Insert(ctx context.Context, collection string, row any, out any) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "insert", Collection: collection, Err: err}
	}

	fb := r.client.From(collection).Insert(row, false, "", "representation", "")
	if _, err := fb.ExecuteTo(out); err != nil {
		return &Error{Op: "insert", Collection: collection, Err: err}
	}
	return nil
}

func (r *REST) Upsert(ctx context.Context, collection string, row any, conflictKey string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "upsert", Collection: collection, Err: err}
	}

	fb := r.client.From(collection).Upsert(row, conflictKey, "minimal", "")
	if _, _, err := fb.Execute(); err != nil {
		return &Error{Op: "upsert", Collection: collection, Err: err}
	}
	return nil
}
