package handler

import (
	"context"
	"net/http"

	"hostelhub/internal/models"
	"hostelhub/internal/service"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	uow       service.UnitOfWork
	schedules *service.PaymentScheduleService
}

func NewScheduleHandler(uow service.UnitOfWork, schedules *service.PaymentScheduleService) *ScheduleHandler {
	return &ScheduleHandler{uow: uow, schedules: schedules}
}

type createScheduleRequest struct {
	service.CreateScheduleInput
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
}

type updateScheduleRequest struct {
	service.UpdateScheduleInput
	EndDate string `json:"end_date"`
}

type generateRequest struct {
	FromDate          string `json:"generate_from_date" binding:"required"`
	ToDate            string `json:"generate_to_date" binding:"required"`
	SkipIfAlreadyPaid *bool  `json:"skip_if_already_paid"`
}

// POST /payment-schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := req.CreateScheduleInput
	var err error
	if in.StartDate, err = parseDate("start_date", req.StartDate); err != nil {
		respondError(c, "schedule", err)
		return
	}
	if in.EndDate, err = parseOptionalDate("end_date", req.EndDate); err != nil {
		respondError(c, "schedule", err)
		return
	}
	h.mutate(c, http.StatusCreated, func(ctx context.Context) (*models.PaymentSchedule, error) {
		return h.schedules.CreateSchedule(ctx, in)
	})
}

// GET /payment-schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	sch, err := h.schedules.GetSchedule(c.Request.Context(), id)
	if err != nil {
		respondError(c, "schedule", err)
		return
	}
	c.JSON(http.StatusOK, sch)
}

// PATCH /payment-schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := req.UpdateScheduleInput
	var err error
	if in.EndDate, err = parseOptionalDate("end_date", req.EndDate); err != nil {
		respondError(c, "schedule", err)
		return
	}
	h.mutate(c, http.StatusOK, func(ctx context.Context) (*models.PaymentSchedule, error) {
		return h.schedules.UpdateSchedule(ctx, id, in)
	})
}

// POST /payment-schedules/:id/deactivate
func (h *ScheduleHandler) Deactivate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.mutate(c, http.StatusOK, func(ctx context.Context) (*models.PaymentSchedule, error) {
		return h.schedules.DeactivateSchedule(ctx, id)
	})
}

// Generate creates the pending payments due in the requested window.
// skip_if_already_paid defaults to true.
// POST /payment-schedules/:id/generate
func (h *ScheduleHandler) Generate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, err := parseDate("generate_from_date", req.FromDate)
	if err != nil {
		respondError(c, "schedule", err)
		return
	}
	to, err := parseDate("generate_to_date", req.ToDate)
	if err != nil {
		respondError(c, "schedule", err)
		return
	}
	gen := service.GenerateRequest{FromDate: from, ToDate: to, SkipIfAlreadyPaid: true}
	if req.SkipIfAlreadyPaid != nil {
		gen.SkipIfAlreadyPaid = *req.SkipIfAlreadyPaid
	}
	var res *service.GenerationResult
	err = h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		res, err = h.schedules.GenerateScheduledPayments(ctx, id, gen)
		return err
	})
	if err != nil {
		respondError(c, "schedule", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /students/:id/payment-schedules
func (h *ScheduleHandler) ListForStudent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	list, err := h.schedules.ListSchedulesForStudent(c.Request.Context(), id)
	if err != nil {
		respondError(c, "schedule", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": list, "total": len(list)})
}

func (h *ScheduleHandler) mutate(c *gin.Context, status int, fn func(ctx context.Context) (*models.PaymentSchedule, error)) {
	var sch *models.PaymentSchedule
	err := h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		sch, err = fn(ctx)
		return err
	})
	if err != nil {
		respondError(c, "schedule", err)
		return
	}
	c.JSON(status, sch)
}
