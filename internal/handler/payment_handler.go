package handler

import (
	"context"
	"net/http"
	"strconv"

	"hostelhub/internal/models"
	"hostelhub/internal/service"
	"hostelhub/pkg/clock"
	"hostelhub/pkg/dates"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	uow      service.UnitOfWork
	payments *service.PaymentService
	clock    clock.Clock
}

func NewPaymentHandler(uow service.UnitOfWork, payments *service.PaymentService, clk clock.Clock) *PaymentHandler {
	return &PaymentHandler{uow: uow, payments: payments, clock: clk}
}

type CompletePaymentRequest struct {
	TransactionID string `json:"transaction_id"`
}

type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

type RefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.payments.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, "payments", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /students/:id/payments
func (h *PaymentHandler) ListForStudent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.payments.ListForStudent(c.Request.Context(), id, limit, offset)
	if err != nil {
		respondError(c, "payments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list, "total": len(list)})
}

// POST /payments/:id/process
func (h *PaymentHandler) Process(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.mutate(c, func(ctx context.Context) (*models.Payment, error) {
		return h.payments.MarkProcessing(ctx, id)
	})
}

// POST /payments/:id/complete
func (h *PaymentHandler) Complete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req CompletePaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	h.mutate(c, func(ctx context.Context) (*models.Payment, error) {
		return h.payments.MarkCompleted(ctx, id, req.TransactionID)
	})
}

// POST /payments/:id/fail
func (h *PaymentHandler) Fail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req FailPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	h.mutate(c, func(ctx context.Context) (*models.Payment, error) {
		return h.payments.MarkFailed(ctx, id, req.Reason)
	})
}

// POST /payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, func(ctx context.Context) (*models.Payment, error) {
		return h.payments.Refund(ctx, id, req.Amount)
	})
}

// GET /hostels/:id/payment-analytics?date_from=&date_to=
func (h *PaymentHandler) Analytics(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	from, err := parseDate("date_from", c.Query("date_from"))
	if err != nil {
		respondError(c, "payments", err)
		return
	}
	to, err := parseDate("date_to", c.Query("date_to"))
	if err != nil {
		respondError(c, "payments", err)
		return
	}
	out, err := h.payments.Analytics(c.Request.Context(), id, from, to)
	if err != nil {
		respondError(c, "payments", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /hostels/:id/overdue-payments?as_of=&limit=
func (h *PaymentHandler) Overdue(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	asOf, err := asOfQuery(c, h.clock.Now())
	if err != nil {
		respondError(c, "payments", err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	list, err := h.payments.ListOverdue(c.Request.Context(), &id, asOf, limit)
	if err != nil {
		respondError(c, "payments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"as_of": asOf.Format(dates.Layout), "payments": list, "total": len(list)})
}

func (h *PaymentHandler) mutate(c *gin.Context, fn func(ctx context.Context) (*models.Payment, error)) {
	var p *models.Payment
	err := h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		p, err = fn(ctx)
		return err
	})
	if err != nil {
		respondError(c, "payments", err)
		return
	}
	c.JSON(http.StatusOK, p)
}
