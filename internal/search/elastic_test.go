package search

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeElastic(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *Elastic {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	e, err := NewElastic(srv.URL, "", "")
	require.NoError(t, err)
	return e
}

func TestIndexProductsSendsBulkBody(t *testing.T) {
	var lines []string
	e := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/_bulk", r.URL.Path)
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		_, _ = w.Write([]byte(`{"took":1,"errors":false,"items":[]}`))
	})

	err := e.IndexProducts(context.Background(), []models.Product{
		{ID: "p1", Name: "Royal Abaya"},
		{ID: "p2", Name: "Silk Kaftan"},
	})
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"_id":"p1"`)
	assert.Contains(t, lines[1], `"name":"Royal Abaya"`)
}

func TestIndexProductsReportsRejectedDocuments(t *testing.T) {
	e := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"took":1,"errors":true,"items":[]}`))
	})

	err := e.IndexProducts(context.Background(), []models.Product{{ID: "p1"}})
	assert.Error(t, err)
}

func TestIndexProductsEmptyIsNoop(t *testing.T) {
	called := false
	e := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	require.NoError(t, e.IndexProducts(context.Background(), nil))
	assert.False(t, called)
}

func TestSearchReturnsHitIDs(t *testing.T) {
	e := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/_search"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "query")
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"p2"},{"_id":"p1"}]}}`))
	})

	got, err := e.Search(context.Background(), "kaftan")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, got)
}

func TestSearchSurfacesErrors(t *testing.T) {
	e := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"}}`))
	})

	_, err := e.Search(context.Background(), "abaya")
	assert.Error(t, err)
}
