package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
)

const msgContactNotFound = "Message not found"

type contactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=1,max=200"`
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

type contactStatusRequest struct {
	Status models.ContactStatus `json:"status" validate:"required"`
}

// ✉️ POST /api/contact (token facultatif)
func (h *Handler) SubmitContact(c *gin.Context) {
	var req contactRequest
	if !h.bind(c, &req) {
		return
	}
	msg := models.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
		Status:  models.ContactNew,
	}
	if me, found := middleware.IdentityFrom(c); found {
		uid := me.User.ID
		msg.UserID = &uid
	}

	if err := h.store.CreateContact(c.Request.Context(), &msg); err != nil {
		h.fail(c, apperr.Internal("Failed to send message", err))
		return
	}

	received := msg
	h.background("contact mail", func(ctx context.Context) error {
		return h.notifier.ContactReceived(ctx, received)
	})
	ok(c, http.StatusCreated, gin.H{"message": "Message sent successfully", "contact": msg})
}

// GET /api/contact?status= (admin)
func (h *Handler) ListContacts(c *gin.Context) {
	status := models.ContactStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		h.fail(c, apperr.Validation("Invalid status"))
		return
	}
	contacts, err := h.store.ListContacts(c.Request.Context(), status)
	if err != nil {
		h.fail(c, apperr.Internal("Failed to fetch messages", err))
		return
	}
	ok(c, http.StatusOK, gin.H{"contacts": contacts, "total": len(contacts)})
}

// PATCH /api/contact/:id/status (admin)
func (h *Handler) UpdateContactStatus(c *gin.Context) {
	id, err := objectID(c, "id", msgContactNotFound)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req contactStatusRequest
	if !h.bind(c, &req) {
		return
	}
	if !req.Status.Valid() {
		h.fail(c, apperr.Validation("Invalid status"))
		return
	}
	ctx := c.Request.Context()

	current, err := h.store.GetContact(ctx, id)
	if err != nil {
		h.fail(c, storeErr(err, msgContactNotFound, "Failed to update message"))
		return
	}
	if !current.Status.CanAdvance(req.Status) {
		h.fail(c, apperr.Validation(fmt.Sprintf("Cannot move message from %s to %s", current.Status, req.Status)))
		return
	}

	updated, err := h.store.SetContactStatus(ctx, id, req.Status)
	if err != nil {
		h.fail(c, storeErr(err, msgContactNotFound, "Failed to update message"))
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Message status updated", "contact": updated})
}
