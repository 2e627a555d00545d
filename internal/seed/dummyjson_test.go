package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/models"
)

const payload = `{"products":[
 {"id":1,"title":"Essence Mascara","description":"d","price":9.99,"discountPercentage":7.17,"rating":4.94,
  "stock":5,"brand":"Essence","category":"beauty","thumbnail":"https://cdn/t1.png","images":["https://cdn/1.png"]},
 {"id":2,"title":"Plain Shirt","description":"d","price":20,"rating":3.1,"stock":0,
  "category":"tops","thumbnail":"https://cdn/t2.png"}
],"total":2,"skip":0,"limit":2}`

func TestFetchProducts(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/products", r.URL.Path)
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	ps, err := NewClient(srv.URL+"/", srv.Client()).FetchProducts(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "limit=100", gotQuery)
	require.Len(t, ps, 2)

	assert.Equal(t, "Essence Mascara", ps[0].Title)
	assert.True(t, ps[0].Featured)
	assert.Equal(t, models.SourceDummyJSON, ps[0].Source)
	assert.Equal(t, 1, ps[0].DummyJSONID)
	assert.Equal(t, []string{"https://cdn/1.png"}, ps[0].Images)

	assert.False(t, ps[1].Featured)
	assert.Equal(t, "", ps[1].Brand)
	assert.Zero(t, ps[1].DiscountPercentage)
	assert.Equal(t, []string{"https://cdn/t2.png"}, ps[1].Images)
}

func TestFetchProductsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).FetchProducts(context.Background(), 10)
	assert.Error(t, err)
}
