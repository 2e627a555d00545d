package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

const (
	msgProductNotFound = "Product not found"
	defaultSearchLimit = 20
)

func (h *Handler) paginatedProducts(c *gin.Context, q store.ProductQuery, extra gin.H) {
	products, total, err := h.store.ListProducts(c.Request.Context(), q)
	if err != nil {
		h.fail(c, apperr.Internal("Failed to fetch products", err))
		return
	}
	body := gin.H{
		"products":    products,
		"totalPages":  q.TotalPages(total),
		"currentPage": q.Page.Page,
		"total":       total,
	}
	for k, v := range extra {
		body[k] = v
	}
	ok(c, http.StatusOK, body)
}

// 📦 GET /api/products
func (h *Handler) ListProducts(c *gin.Context) {
	h.paginatedProducts(c, store.ParseProductQuery(c.Request.URL.Query()), nil)
}

// 📦 GET /api/products/category/:category
func (h *Handler) ProductsByCategory(c *gin.Context) {
	category := c.Param("category")
	q := store.ProductQuery{
		Category: category,
		Page:     store.ParsePage(c.Query("page"), c.Query("limit"), store.DefaultLimit),
	}
	h.paginatedProducts(c, q, gin.H{"category": category})
}

// 🔍 GET /api/products/search?q=
// Elasticsearch d'abord; index désactivé, vide ou en erreur → recherche regex du store
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.fail(c, apperr.Validation("Search query is required"))
		return
	}
	limit := store.ParsePage("", c.Query("limit"), defaultSearchLimit).Limit
	ctx := c.Request.Context()

	ids, err := h.search.SearchProducts(ctx, query, int(limit))
	if err == nil && len(ids) > 0 {
		products, err := h.productsInOrder(ctx, ids)
		if err == nil {
			ok(c, http.StatusOK, gin.H{"products": products, "total": len(products), "source": "elastic"})
			return
		}
		zap.L().Warn("⚠️ Lecture des résultats Elastic", zap.Error(err))
	}

	q := store.ProductQuery{Search: query, Page: store.Page{Page: 1, Limit: limit}}
	products, _, err := h.store.ListProducts(ctx, q)
	if err != nil {
		h.fail(c, apperr.Internal("Failed to search products", err))
		return
	}
	ok(c, http.StatusOK, gin.H{"products": products, "total": len(products), "source": "store"})
}

// productsInOrder charge les produits en gardant l'ordre de pertinence de l'index
func (h *Handler) productsInOrder(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	found, err := h.store.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// GET /api/products/categories/all
func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.store.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, apperr.Internal("Failed to fetch categories", err))
		return
	}
	ok(c, http.StatusOK, gin.H{"categories": categories})
}

// GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := objectID(c, "id", msgProductNotFound)
	if err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.store.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.fail(c, storeErr(err, msgProductNotFound, "Failed to fetch product"))
		return
	}
	ok(c, http.StatusOK, gin.H{"product": p})
}

// 🌱 POST /api/products/seed
func (h *Handler) SeedProducts(c *gin.Context) {
	ctx := c.Request.Context()
	existing, err := h.store.CountProducts(ctx)
	if err != nil {
		h.fail(c, apperr.Internal("Failed to seed products", err))
		return
	}
	if existing > 0 {
		h.fail(c, apperr.Conflict(fmt.Sprintf(
			"Database already has %d products. Clear them first if you want to re-seed.", existing)))
		return
	}

	products, err := h.seed.FetchProducts(ctx, 0)
	if err != nil {
		h.fail(c, apperr.Internal("Failed to seed products", err))
		return
	}
	inserted, err := h.store.InsertProducts(ctx, products)
	if err != nil {
		h.fail(c, apperr.Internal("Failed to seed products", err))
		return
	}

	h.background("index seeded products", func(ctx context.Context) error {
		return h.search.IndexProducts(ctx, inserted)
	})

	zap.L().Info("🌱 Catalogue importé", zap.Int("count", len(inserted)))
	ok(c, http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Successfully seeded %d products from DummyJSON", len(inserted)),
		"count":   len(inserted),
	})
}

// DELETE /api/products/clear/all
func (h *Handler) ClearProducts(c *gin.Context) {
	n, err := h.store.DeleteAllProducts(c.Request.Context())
	if err != nil {
		h.fail(c, apperr.Internal("Failed to clear products", err))
		return
	}
	h.background("clear product index", h.search.DeleteAll)
	ok(c, http.StatusOK, gin.H{"message": fmt.Sprintf("Cleared %d products from database", n)})
}

// 🟢 POST /api/products (admin)
func (h *Handler) CreateProduct(c *gin.Context) {
	var in models.ProductInput
	if !h.bind(c, &in) {
		return
	}
	p := in.Product()
	if err := h.store.CreateProduct(c.Request.Context(), &p); err != nil {
		h.fail(c, apperr.Internal("Failed to create product", err))
		return
	}

	h.background("index product", func(ctx context.Context) error {
		return h.search.IndexProduct(ctx, p)
	})
	ok(c, http.StatusCreated, gin.H{"message": "Product created successfully", "product": p})
}

// PUT /api/products/:id (admin)
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := objectID(c, "id", msgProductNotFound)
	if err != nil {
		h.fail(c, err)
		return
	}
	var upd models.ProductUpdate
	if !h.bind(c, &upd) {
		return
	}
	p, err := h.store.UpdateProduct(c.Request.Context(), id, upd)
	if err != nil {
		h.fail(c, storeErr(err, msgProductNotFound, "Failed to update product"))
		return
	}

	updated := *p
	h.background("index product", func(ctx context.Context) error {
		return h.search.IndexProduct(ctx, updated)
	})
	ok(c, http.StatusOK, gin.H{"message": "Product updated successfully", "product": p})
}

// DELETE /api/products/:id (admin)
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := objectID(c, "id", msgProductNotFound)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.DeleteProduct(c.Request.Context(), id); err != nil {
		h.fail(c, storeErr(err, msgProductNotFound, "Failed to delete product"))
		return
	}
	h.background("unindex product", func(ctx context.Context) error {
		return h.search.DeleteProduct(ctx, id)
	})
	ok(c, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
