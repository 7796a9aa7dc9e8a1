package handler

import (
	"context"
	"net/http"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/internal/service"
	"hostelhub/pkg/clock"

	"github.com/gin-gonic/gin"
)

const defaultResponseWindow = 48 * time.Hour

type WaitlistHandler struct {
	uow      service.UnitOfWork
	waitlist *service.BookingWaitlistService
	clock    clock.Clock
}

func NewWaitlistHandler(uow service.UnitOfWork, waitlist *service.BookingWaitlistService, clk clock.Clock) *WaitlistHandler {
	return &WaitlistHandler{uow: uow, waitlist: waitlist, clock: clk}
}

type addWaitlistRequest struct {
	service.AddWaitlistInput
	PreferredCheckIn string `json:"preferred_check_in"`
}

// NotifyRequest carries an RFC 3339 deadline; it defaults to 48 hours from now.
type NotifyRequest struct {
	ResponseDeadline *time.Time `json:"response_deadline"`
	Message          string     `json:"message" binding:"max=1000"`
}

type ConvertRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// POST /waitlist
func (h *WaitlistHandler) Add(c *gin.Context) {
	var req addWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := req.AddWaitlistInput
	var err error
	if in.PreferredCheckIn, err = parseOptionalDate("preferred_check_in", req.PreferredCheckIn); err != nil {
		respondError(c, "waitlist", err)
		return
	}
	h.mutate(c, http.StatusCreated, func(ctx context.Context) (*models.WaitlistEntry, error) {
		return h.waitlist.AddToWaitlist(ctx, in)
	})
}

// POST /waitlist/:id/notify
func (h *WaitlistHandler) Notify(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req NotifyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	deadline := h.clock.Now().Add(defaultResponseWindow)
	if req.ResponseDeadline != nil {
		deadline = req.ResponseDeadline.UTC()
	}
	var n *service.WaitlistNotification
	err := h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		n, err = h.waitlist.NotifyAvailability(ctx, id, deadline, req.Message)
		return err
	})
	if err != nil {
		respondError(c, "waitlist", err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// POST /waitlist/:id/convert
func (h *WaitlistHandler) Convert(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, http.StatusOK, func(ctx context.Context) (*models.WaitlistEntry, error) {
		return h.waitlist.ConvertWaitlistToBooking(ctx, id, *req.Accept)
	})
}

// POST /waitlist/:id/cancel
func (h *WaitlistHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.mutate(c, http.StatusOK, func(ctx context.Context) (*models.WaitlistEntry, error) {
		return h.waitlist.CancelEntry(ctx, id)
	})
}

// GET /hostels/:id/waitlist?room_type=
func (h *WaitlistHandler) ListForHostel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	roomType := domain.RoomType(c.Query("room_type"))
	if roomType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_type required"})
		return
	}
	list, err := h.waitlist.ListWaitlistForHostel(c.Request.Context(), id, roomType)
	if err != nil {
		respondError(c, "waitlist", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": list, "total": len(list)})
}

func (h *WaitlistHandler) mutate(c *gin.Context, status int, fn func(ctx context.Context) (*models.WaitlistEntry, error)) {
	var e *models.WaitlistEntry
	err := h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		e, err = fn(ctx)
		return err
	})
	if err != nil {
		respondError(c, "waitlist", err)
		return
	}
	c.JSON(status, e)
}
