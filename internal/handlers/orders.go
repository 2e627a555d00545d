package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

const (
	msgOrderNotFound  = "Order not found"
	defaultOrderLimit = 20
	orderIDAttempts   = 3
)

type orderItemRequest struct {
	ProductID string `json:"productId" validate:"required,objectid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	Items           []orderItemRequest   `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.Address       `json:"shippingAddress"`
	PhoneNumber     string               `json:"phoneNumber" validate:"required,min=5,max=30"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cod card paypal"`
	Notes           string               `json:"notes" validate:"max=500"`
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// newOrderID: ORD-<unix ms>-<9 caractères hexadécimaux majuscules>
func newOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}

// orderLines fusionne les doublons puis prix et stock sont lus dans le store
func (h *Handler) orderLines(ctx context.Context, items []orderItemRequest) ([]models.OrderItem, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	qty := map[primitive.ObjectID]int{}
	for _, it := range items {
		id, _ := primitive.ObjectIDFromHex(it.ProductID)
		if _, seen := qty[id]; !seen {
			ids = append(ids, id)
		}
		qty[id] += it.Quantity
	}

	products, err := h.store.GetProducts(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("Failed to place order", err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]models.OrderItem, 0, len(ids))
	for _, id := range ids {
		p, found := byID[id]
		if !found {
			return nil, apperr.NotFound(msgProductNotFound)
		}
		if p.Stock < qty[id] {
			return nil, apperr.Validation("Insufficient stock for " + p.Title)
		}
		lines = append(lines, models.OrderItem{
			ProductID:    p.ID,
			ProductName:  p.Title,
			ProductImage: p.Thumbnail,
			Quantity:     qty[id],
			Price:        p.FinalPrice(),
		})
	}
	return lines, nil
}

// 🛒 POST /api/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req createOrderRequest
	if !h.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()

	items, err := h.orderLines(ctx, req.Items)
	if err != nil {
		h.fail(c, err)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCOD
	}

	order := models.Order{
		UserID:          me.User.ID,
		UserEmail:       me.User.Email,
		UserName:        me.User.DisplayName,
		Items:           items,
		Status:          models.OrderPending,
		ShippingAddress: req.ShippingAddress.WithDefaults(),
		PhoneNumber:     req.PhoneNumber,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}
	order.TotalAmount = order.Total()

	for attempt := 1; ; attempt++ {
		order.OrderID = newOrderID(time.Now())
		err = h.store.CreateOrder(ctx, &order)
		if !errors.Is(err, store.ErrDuplicate) || attempt == orderIDAttempts {
			break
		}
		order.ID = primitive.NilObjectID
	}
	if err != nil {
		h.fail(c, apperr.Internal("Failed to place order", err))
		return
	}

	zap.L().Info("🛒 Commande créée",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", me.User.ID.Hex()),
		zap.Float64("total", order.TotalAmount),
	)
	placed := order
	h.background("order placed mail", func(ctx context.Context) error {
		return h.notifier.OrderPlaced(ctx, placed)
	})
	ok(c, http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

// 📋 GET /api/orders (admin)
func (h *Handler) ListOrders(c *gin.Context) {
	f := store.OrderFilter{
		Status: models.OrderStatus(c.Query("status")),
		Page:   store.ParsePage(c.Query("page"), c.Query("limit"), defaultOrderLimit),
	}
	if f.Status != "" && !f.Status.Valid() {
		h.fail(c, apperr.Validation("Invalid status"))
		return
	}
	h.respondOrders(c, f)
}

// 📋 GET /api/orders/user/:userId (propriétaire ou admin)
func (h *Handler) UserOrders(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil || !me.CanAccess(userID) {
		h.fail(c, apperr.Forbidden("Access denied. You can only access your own resources."))
		return
	}
	h.respondOrders(c, store.OrderFilter{
		UserID: &userID,
		Page:   store.ParsePage(c.Query("page"), c.Query("limit"), defaultOrderLimit),
	})
}

func (h *Handler) respondOrders(c *gin.Context, f store.OrderFilter) {
	orders, total, err := h.store.ListOrders(c.Request.Context(), f)
	if err != nil {
		h.fail(c, apperr.Internal("Failed to fetch orders", err))
		return
	}
	ok(c, http.StatusOK, gin.H{
		"orders":      orders,
		"total":       total,
		"totalPages":  f.TotalPages(total),
		"currentPage": f.Page.Page,
	})
}

// loadOrder accepte un ObjectID ou un numéro ORD-...; un tiers reçoit 404
func (h *Handler) loadOrder(c *gin.Context, me *middleware.Identity) (*models.Order, error) {
	ref := c.Param("id")
	ctx := c.Request.Context()

	var (
		order *models.Order
		err   error
	)
	if id, perr := primitive.ObjectIDFromHex(ref); perr == nil {
		order, err = h.store.GetOrder(ctx, id)
	} else {
		order, err = h.store.GetOrderByNumber(ctx, ref)
	}
	if err != nil {
		return nil, storeErr(err, msgOrderNotFound, "Failed to fetch order")
	}
	if !me.CanAccess(order.UserID) {
		return nil, apperr.Forbidden("Access denied. You can only access your own resources.")
	}
	return order, nil
}

// GET /api/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	order, err := h.loadOrder(c, me)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": order})
}

// ✏️ PUT /api/orders/:id, tant que la commande est en attente
func (h *Handler) UpdateOrder(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var upd models.OrderUpdate
	if !h.bind(c, &upd) {
		return
	}
	if upd.Empty() {
		h.fail(c, apperr.Validation("No updatable fields provided"))
		return
	}
	order, err := h.loadOrder(c, me)
	if err != nil {
		h.fail(c, err)
		return
	}
	if order.Status != models.OrderPending {
		h.fail(c, apperr.Validation("Only pending orders can be updated"))
		return
	}

	updated, err := h.store.UpdateOrder(c.Request.Context(), order.ID, upd)
	switch {
	case errors.Is(err, store.ErrStatusMismatch):
		h.fail(c, apperr.Validation("Only pending orders can be updated"))
		return
	case err != nil:
		h.fail(c, storeErr(err, msgOrderNotFound, "Failed to update order"))
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Order updated successfully", "order": updated})
}

// ❌ DELETE /api/orders/:id annule la commande (pending ou processing)
func (h *Handler) CancelOrder(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	order, err := h.loadOrder(c, me)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !order.Status.CanTransition(models.OrderCancelled) {
		h.fail(c, apperr.Validation(fmt.Sprintf("Cannot cancel an order that is %s", order.Status)))
		return
	}

	cancelled, err := h.transition(c.Request.Context(), order, models.OrderCancelled)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": cancelled})
}

// 🚚 PATCH /api/orders/:id/status (admin)
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req orderStatusRequest
	if !h.bind(c, &req) {
		return
	}
	if !req.Status.Valid() {
		h.fail(c, apperr.Validation("Invalid status"))
		return
	}
	order, err := h.loadOrder(c, me)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !order.Status.CanTransition(req.Status) {
		h.fail(c, apperr.Validation(fmt.Sprintf("Cannot change order status from %s to %s", order.Status, req.Status)))
		return
	}

	updated, err := h.transition(c.Request.Context(), order, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Order status updated", "order": updated})
}

// transition écrit le nouveau statut si personne ne l'a changé entre-temps, puis prévient le client
func (h *Handler) transition(ctx context.Context, order *models.Order, to models.OrderStatus) (*models.Order, error) {
	updated, err := h.store.SetOrderStatus(ctx, order.ID, order.Status, to)
	if errors.Is(err, store.ErrStatusMismatch) {
		return nil, apperr.Validation("Order status changed concurrently, please retry")
	}
	if err != nil {
		return nil, storeErr(err, msgOrderNotFound, "Failed to update order")
	}

	zap.L().Info("🚚 Statut de commande",
		zap.String("order_id", updated.OrderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(to)),
	)
	changed := *updated
	h.background("order status mail", func(ctx context.Context) error {
		return h.notifier.OrderStatusChanged(ctx, changed)
	})
	return updated, nil
}
