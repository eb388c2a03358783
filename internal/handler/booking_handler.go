package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"car-management-api/internal/auth"
	"car-management-api/internal/model"
)

// ListBookings returns the caller's bookings. Callers may only ask for
// their own email.
func (h *Handler) ListBookings(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusOK, []model.Document{})
		return
	}

	id, ok := auth.IdentityFrom(c.Request.Context())
	if !ok || id.Email != email {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden Access"})
		return
	}

	docs, err := h.store.BookingsByEmail(c.Request.Context(), email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// CreateBooking stores the body as given once email checks out.
func (h *Handler) CreateBooking(c *gin.Context) {
	limitBody(c)
	var in model.NewBooking
	if err := c.ShouldBindBodyWith(&in, binding.JSON); err != nil {
		h.badRequest(c, err)
		return
	}
	var doc model.Document
	if err := c.ShouldBindBodyWith(&doc, binding.JSON); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.store.CreateBooking(c.Request.Context(), doc)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateBookingStatus sets status only; other body fields are ignored.
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	limitBody(c)
	var in model.StatusUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.store.UpdateBookingStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	res, err := h.store.DeleteBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
