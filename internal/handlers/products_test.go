package handlers_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
)

type productList struct {
	Success     bool             `json:"success"`
	Products    []models.Product `json:"products"`
	TotalPages  int64            `json:"totalPages"`
	CurrentPage int64            `json:"currentPage"`
	Total       int64            `json:"total"`
	Category    string           `json:"category"`
	Source      string           `json:"source"`
}

func TestListProductsPagination(t *testing.T) {
	env := newEnv(t)
	for i := 0; i < 5; i++ {
		env.product(fmt.Sprintf("p%d", i), float64(i+1))
	}

	var first productList
	res := env.do(http.MethodGet, "/api/products?page=1&limit=2", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	res.decode(t, &first)
	assert.True(t, first.Success)
	assert.Len(t, first.Products, 2)
	assert.EqualValues(t, 3, first.TotalPages)
	assert.EqualValues(t, 5, first.Total)
	assert.EqualValues(t, 1, first.CurrentPage)

	var last productList
	env.do(http.MethodGet, "/api/products?page=3&limit=2", "", nil).decode(t, &last)
	assert.Len(t, last.Products, 1)
	assert.EqualValues(t, 3, last.CurrentPage)

	var beyond productList
	env.do(http.MethodGet, "/api/products?page=9&limit=2", "", nil).decode(t, &beyond)
	assert.Empty(t, beyond.Products)
	assert.EqualValues(t, 5, beyond.Total)

	var huge productList
	res = env.do(http.MethodGet, "/api/products?page=4611686018427387904&limit=12", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	res.decode(t, &huge)
	assert.Empty(t, huge.Products)
	assert.EqualValues(t, 5, huge.Total)
}

func TestListProductsPriceRange(t *testing.T) {
	env := newEnv(t)
	for _, price := range []float64{5, 10, 25, 50, 80} {
		env.product(fmt.Sprintf("at-%v", price), price)
	}

	var got productList
	env.do(http.MethodGet, "/api/products?minPrice=10&maxPrice=50&sort=price", "", nil).decode(t, &got)
	require.Len(t, got.Products, 3)
	assert.Equal(t, 10.0, got.Products[0].Price)
	assert.Equal(t, 50.0, got.Products[2].Price)

	var all productList
	env.do(http.MethodGet, "/api/products?minPrice=abc", "", nil).decode(t, &all)
	assert.EqualValues(t, 5, all.Total)
}

func TestProductsByCategoryAndCategories(t *testing.T) {
	env := newEnv(t)
	env.product("phone", 100, func(p *models.Product) { p.Category = "smartphones" })
	env.product("lipstick", 9, func(p *models.Product) { p.Category = "beauty" })
	env.product("tablet", 300, func(p *models.Product) { p.Category = "smartphones" })

	var got productList
	env.do(http.MethodGet, "/api/products/category/smartphones", "", nil).decode(t, &got)
	assert.Equal(t, "smartphones", got.Category)
	assert.EqualValues(t, 2, got.Total)

	var cats struct {
		Categories []string `json:"categories"`
	}
	env.do(http.MethodGet, "/api/products/categories/all", "", nil).decode(t, &cats)
	assert.Equal(t, []string{"beauty", "smartphones"}, cats.Categories)
}

func TestGetProduct(t *testing.T) {
	env := newEnv(t)
	p := env.product("lamp", 20)

	res := env.do(http.MethodGet, "/api/products/"+p.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "lamp", res.Body["product"].(map[string]any)["title"])

	res = env.do(http.MethodGet, "/api/products/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, false, res.Body["success"])
	assert.Equal(t, "Product not found", res.Body["message"])

	res = env.do(http.MethodGet, "/api/products/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestSearchProducts(t *testing.T) {
	t.Run("query required", func(t *testing.T) {
		env := newEnv(t)
		res := env.do(http.MethodGet, "/api/products/search", "", nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "Search query is required", res.Body["message"])
	})

	t.Run("index hits keep relevance order", func(t *testing.T) {
		env := newEnv(t)
		a := env.product("red mug", 5)
		b := env.product("blue mug", 6)
		env.index.hits = []primitive.ObjectID{b.ID, primitive.NewObjectID(), a.ID}

		var got productList
		env.do(http.MethodGet, "/api/products/search?q=mug", "", nil).decode(t, &got)
		assert.Equal(t, "elastic", got.Source)
		require.Len(t, got.Products, 2)
		assert.Equal(t, b.ID, got.Products[0].ID)
		assert.Equal(t, a.ID, got.Products[1].ID)
	})

	t.Run("falls back to the store", func(t *testing.T) {
		env := newEnv(t)
		env.index.err = errUpstream
		env.product("Red Mug", 5)
		env.product("plate", 6)

		var got productList
		env.do(http.MethodGet, "/api/products/search?q=mug", "", nil).decode(t, &got)
		assert.Equal(t, "store", got.Source)
		require.Len(t, got.Products, 1)
		assert.Equal(t, "Red Mug", got.Products[0].Title)
	})
}

func TestSeedProducts(t *testing.T) {
	imported := []models.Product{
		{Title: "a", Price: 1, Category: "x", Thumbnail: "http://t/a", Source: models.SourceDummyJSON, DummyJSONID: 1},
		{Title: "b", Price: 2, Category: "y", Thumbnail: "http://t/b", Source: models.SourceDummyJSON, DummyJSONID: 2},
	}

	t.Run("empty collection", func(t *testing.T) {
		env := newEnv(t, withSeed(fakeSeed{products: imported}))
		res := env.do(http.MethodPost, "/api/products/seed", "", nil)
		require.Equal(t, http.StatusCreated, res.Code)
		assert.Equal(t, "Successfully seeded 2 products from DummyJSON", res.Body["message"])
		assert.EqualValues(t, 2, res.Body["count"])
		assert.Len(t, env.index.indexed, 2)
	})

	t.Run("non-empty collection", func(t *testing.T) {
		env := newEnv(t, withSeed(fakeSeed{products: imported}))
		env.product("existing", 3)

		res := env.do(http.MethodPost, "/api/products/seed", "", nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "Database already has 1 products. Clear them first if you want to re-seed.", res.Body["message"])

		var got productList
		env.do(http.MethodGet, "/api/products", "", nil).decode(t, &got)
		assert.EqualValues(t, 1, got.Total)
		assert.Empty(t, env.index.indexed)
	})

	t.Run("upstream failure", func(t *testing.T) {
		env := newEnv(t, withSeed(fakeSeed{err: errUpstream}))
		res := env.do(http.MethodPost, "/api/products/seed", "", nil)
		assert.Equal(t, http.StatusInternalServerError, res.Code)
		assert.Equal(t, "Failed to seed products", res.Body["message"])
		assert.NotContains(t, res.Body, "error")
	})
}

func TestClearProducts(t *testing.T) {
	env := newEnv(t)
	env.product("a", 1)
	env.product("b", 2)

	res := env.do(http.MethodDelete, "/api/products/clear/all", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Cleared 2 products from database", res.Body["message"])
	assert.Equal(t, 1, env.index.cleared)
}

func TestProductAdminCRUD(t *testing.T) {
	env := newEnv(t)
	input := map[string]any{
		"title":       "Desk",
		"description": "Oak desk",
		"price":       199.5,
		"category":    "furniture",
		"thumbnail":   "http://img.test/desk.png",
	}

	res := env.do(http.MethodPost, "/api/products", "alice", input)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = env.do(http.MethodPost, "/api/products", "", input)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = env.do(http.MethodPost, "/api/products", "admin", input)
	require.Equal(t, http.StatusCreated, res.Code)
	created := res.Body["product"].(map[string]any)
	assert.Equal(t, "admin", created["source"])
	assert.EqualValues(t, 0, created["rating"])
	id := created["_id"].(string)
	assert.Len(t, env.index.indexed, 1)

	res = env.do(http.MethodPost, "/api/products", "admin", map[string]any{"title": "x", "price": -1})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Validation failed", res.Body["message"])
	errs := res.Body["errors"].(map[string]any)
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "category")

	res = env.do(http.MethodPut, "/api/products/"+id, "admin", map[string]any{"price": 149.0, "featured": true})
	require.Equal(t, http.StatusOK, res.Code)
	updated := res.Body["product"].(map[string]any)
	assert.Equal(t, 149.0, updated["price"])
	assert.Equal(t, true, updated["featured"])
	assert.Equal(t, "Desk", updated["title"])

	res = env.do(http.MethodPut, "/api/products/"+id, "admin", map[string]any{"discountPercentage": 150})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = env.do(http.MethodDelete, "/api/products/"+id, "admin", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Product deleted successfully", res.Body["message"])
	assert.Len(t, env.index.deleted, 1)

	res = env.do(http.MethodDelete, "/api/products/"+id, "admin", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func imageRequest(t *testing.T, path, contentType string, size int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="shot.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x89}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadProductImage(t *testing.T) {
	t.Run("stores and appends the url", func(t *testing.T) {
		env := newEnv(t)
		p := env.product("chair", 40)
		path := "/api/products/" + p.ID.Hex() + "/images"

		res := env.send(imageRequest(t, path, "image/png", 1024), "admin")
		require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
		assert.Equal(t, "Image uploaded successfully", res.Body["message"])
		require.Len(t, env.images.uploads, 1)

		got, err := env.store.GetProduct(t.Context(), p.ID)
		require.NoError(t, err)
		assert.Contains(t, got.Images, env.images.uploads[0])
	})

	t.Run("rejects other types", func(t *testing.T) {
		env := newEnv(t)
		p := env.product("chair", 40)
		res := env.send(imageRequest(t, "/api/products/"+p.ID.Hex()+"/images", "application/pdf", 10), "admin")
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "Only JPEG, PNG, WebP or GIF images are allowed", res.Body["message"])
	})

	t.Run("missing file", func(t *testing.T) {
		env := newEnv(t)
		p := env.product("chair", 40)
		res := env.do(http.MethodPost, "/api/products/"+p.ID.Hex()+"/images", "admin", nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "No image file provided", res.Body["message"])
	})

	t.Run("storage disabled", func(t *testing.T) {
		env := newEnv(t, withoutImages())
		p := env.product("chair", 40)
		res := env.send(imageRequest(t, "/api/products/"+p.ID.Hex()+"/images", "image/png", 10), "admin")
		assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	})
}

func TestRouterWiresHealthAndCORS(t *testing.T) {
	env := newEnv(t)

	res := env.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "ok", res.Body["status"])

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
