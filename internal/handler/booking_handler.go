package handler

import (
	"context"
	"net/http"

	"hostelhub/internal/models"
	"hostelhub/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	uow        service.UnitOfWork
	bookings   *service.BookingService
	commission *service.CommissionService
}

func NewBookingHandler(uow service.UnitOfWork, bookings *service.BookingService, commission *service.CommissionService) *BookingHandler {
	return &BookingHandler{uow: uow, bookings: bookings, commission: commission}
}

type createBookingRequest struct {
	service.CreateBookingInput
	CheckInDate string `json:"check_in_date"`
}

// POST /bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := req.CreateBookingInput
	var err error
	if in.CheckInDate, err = parseOptionalDate("check_in_date", req.CheckInDate); err != nil {
		respondError(c, "booking", err)
		return
	}
	var b *models.Booking
	err = h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		b, err = h.bookings.CreateBooking(ctx, in)
		return err
	})
	if err != nil {
		respondError(c, "booking", err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GET /bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	b, err := h.bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, "booking", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Confirm confirms the booking and settles its referral commission in one transaction.
// POST /bookings/:id/confirm
func (h *BookingHandler) Confirm(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var res *service.ConfirmationResult
	err := h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		res, err = h.bookings.ConfirmBooking(ctx, id)
		return err
	})
	if err != nil {
		respondError(c, "booking", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ProcessCommission runs commission processing for an already confirmed booking.
// POST /bookings/:id/commission
func (h *BookingHandler) ProcessCommission(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var ref *models.Referral
	err := h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		ref, err = h.commission.ProcessBookingCommission(ctx, id)
		return err
	})
	if err != nil {
		respondError(c, "commission", err)
		return
	}
	if ref == nil {
		c.JSON(http.StatusOK, gin.H{"processed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": true, "referral": ref})
}
