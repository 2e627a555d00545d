package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/rating"
	"storefront_back_end/internal/store"
)

const (
	msgReviewNotFound  = "Review not found"
	msgAlreadyReviewed = "You have already reviewed this product"
	defaultRecentLimit = 10
)

type createReviewRequest struct {
	ProductID string `json:"productId" validate:"required,objectid"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,min=1,max=1000"`
}

// refreshRating recalcule la note du produit. Un échec est journalisé:
// l'écriture de l'avis est déjà faite et le reconciler rattrapera l'écart.
func (h *Handler) refreshRating(ctx context.Context, productID primitive.ObjectID) {
	if _, err := h.ratings.Recompute(ctx, productID); err != nil {
		zap.L().Warn("⚠️ Recalcul de la note échoué",
			zap.String("product_id", productID.Hex()),
			zap.Error(err),
		)
	}
}

// ⭐ GET /api/reviews?limit=
func (h *Handler) RecentReviews(c *gin.Context) {
	limit := store.ParsePage("", c.Query("limit"), defaultRecentLimit).Limit
	ctx := c.Request.Context()

	reviews, err := h.store.RecentReviews(ctx, limit)
	if err != nil {
		h.fail(c, apperr.Internal("Failed to fetch reviews", err))
		return
	}

	ids := make([]primitive.ObjectID, 0, len(reviews))
	seen := map[primitive.ObjectID]bool{}
	for _, r := range reviews {
		if !seen[r.ProductID] {
			seen[r.ProductID] = true
			ids = append(ids, r.ProductID)
		}
	}
	products, err := h.store.GetProducts(ctx, ids)
	if err != nil {
		h.fail(c, apperr.Internal("Failed to fetch reviews", err))
		return
	}
	summaries := make(map[primitive.ObjectID]*models.ProductSummary, len(products))
	for _, p := range products {
		summaries[p.ID] = &models.ProductSummary{ID: p.ID, Title: p.Title, Thumbnail: p.Thumbnail}
	}

	views := make([]models.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, models.ReviewView{Review: r, Product: summaries[r.ProductID]})
	}
	ok(c, http.StatusOK, gin.H{"reviews": views})
}

// ⭐ GET /api/reviews/product/:productId
func (h *Handler) ProductReviews(c *gin.Context) {
	id, err := objectID(c, "productId", msgProductNotFound)
	if err != nil {
		h.fail(c, err)
		return
	}
	reviews, err := h.store.ProductReviews(c.Request.Context(), id)
	if err != nil {
		h.fail(c, apperr.Internal("Failed to fetch reviews", err))
		return
	}

	ratings := make([]float64, len(reviews))
	for i, r := range reviews {
		ratings[i] = float64(r.Rating)
	}
	ok(c, http.StatusOK, gin.H{
		"reviews":       reviews,
		"averageRating": fmt.Sprintf("%.1f", rating.Mean(ratings)),
		"totalReviews":  len(reviews),
	})
}

// 🟢 POST /api/reviews
func (h *Handler) CreateReview(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req createReviewRequest
	if !h.bind(c, &req) {
		return
	}
	productID, _ := primitive.ObjectIDFromHex(req.ProductID)
	ctx := c.Request.Context()

	if _, err := h.store.GetProduct(ctx, productID); err != nil {
		h.fail(c, storeErr(err, msgProductNotFound, "Failed to submit review"))
		return
	}

	_, err = h.store.FindUserReview(ctx, productID, me.User.ID)
	switch {
	case err == nil:
		h.fail(c, apperr.Conflict(msgAlreadyReviewed))
		return
	case !errors.Is(err, store.ErrNotFound):
		h.fail(c, apperr.Internal("Failed to submit review", err))
		return
	}

	review := models.Review{
		ProductID: productID,
		UserID:    me.User.ID,
		UserName:  me.User.DisplayName,
		UserPhoto: me.User.PhotoURL,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.store.CreateReview(ctx, &review); err != nil {
		// course entre deux requêtes: l'index unique tranche
		if errors.Is(err, store.ErrDuplicate) {
			h.fail(c, apperr.Conflict(msgAlreadyReviewed))
			return
		}
		h.fail(c, apperr.Internal("Failed to submit review", err))
		return
	}

	h.refreshRating(ctx, productID)
	ok(c, http.StatusCreated, gin.H{"message": "Review submitted successfully", "review": review})
}

// ✏️ PUT /api/reviews/:id (auteur uniquement)
func (h *Handler) UpdateReview(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := objectID(c, "id", msgReviewNotFound)
	if err != nil {
		h.fail(c, err)
		return
	}
	var upd models.ReviewUpdate
	if !h.bind(c, &upd) {
		return
	}
	ctx := c.Request.Context()

	existing, err := h.store.GetReview(ctx, id)
	if err != nil {
		h.fail(c, storeErr(err, msgReviewNotFound, "Failed to update review"))
		return
	}
	if existing.UserID != me.User.ID {
		h.fail(c, apperr.Forbidden("You can only update your own reviews"))
		return
	}

	review, err := h.store.UpdateReview(ctx, id, upd)
	if err != nil {
		h.fail(c, storeErr(err, msgReviewNotFound, "Failed to update review"))
		return
	}

	h.refreshRating(ctx, review.ProductID)
	ok(c, http.StatusOK, gin.H{"message": "Review updated successfully", "review": review})
}

// 🗑️ DELETE /api/reviews/:id (auteur ou admin)
func (h *Handler) DeleteReview(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := objectID(c, "id", msgReviewNotFound)
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	existing, err := h.store.GetReview(ctx, id)
	if err != nil {
		h.fail(c, storeErr(err, msgReviewNotFound, "Failed to delete review"))
		return
	}
	if !me.CanAccess(existing.UserID) {
		h.fail(c, apperr.Forbidden("You can only delete your own reviews"))
		return
	}

	if err := h.store.DeleteReview(ctx, id); err != nil {
		h.fail(c, storeErr(err, msgReviewNotFound, "Failed to delete review"))
		return
	}

	h.refreshRating(ctx, existing.ProductID)
	ok(c, http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
