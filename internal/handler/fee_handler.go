package handler

import (
	"context"
	"net/http"
	"strconv"

	"hostelhub/internal/domain"
	"hostelhub/internal/service"
	"hostelhub/pkg/clock"

	"github.com/gin-gonic/gin"
)

type FeeHandler struct {
	uow        service.UnitOfWork
	structures *service.FeeStructureService
	config     *service.FeeConfigService
	clock      clock.Clock
}

func NewFeeHandler(uow service.UnitOfWork, structures *service.FeeStructureService, config *service.FeeConfigService, clk clock.Clock) *FeeHandler {
	return &FeeHandler{uow: uow, structures: structures, config: config, clock: clk}
}

// Date fields shadow the embedded input's so they arrive as YYYY-MM-DD.
type feeStructureRequest struct {
	service.FeeStructureInput
	EffectiveFrom string `json:"effective_from" binding:"required"`
	EffectiveTo   string `json:"effective_to"`
}

type feeStructureUpdateRequest struct {
	service.FeeStructureUpdate
	EffectiveFrom string `json:"effective_from"`
	EffectiveTo   string `json:"effective_to"`
}

func (r *feeStructureUpdateRequest) toUpdate() (service.FeeStructureUpdate, error) {
	upd := r.FeeStructureUpdate
	var err error
	if upd.EffectiveFrom, err = parseOptionalDate("effective_from", r.EffectiveFrom); err != nil {
		return upd, err
	}
	if upd.EffectiveTo, err = parseOptionalDate("effective_to", r.EffectiveTo); err != nil {
		return upd, err
	}
	return upd, nil
}

// POST /fee-structures
func (h *FeeHandler) Create(c *gin.Context) {
	var req feeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := req.FeeStructureInput
	var err error
	if in.EffectiveFrom, err = parseDate("effective_from", req.EffectiveFrom); err != nil {
		respondError(c, "fees", err)
		return
	}
	if in.EffectiveTo, err = parseOptionalDate("effective_to", req.EffectiveTo); err != nil {
		respondError(c, "fees", err)
		return
	}
	var view *service.FeeStructureView
	err = h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		view, err = h.structures.CreateFeeStructure(ctx, in)
		return err
	})
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GET /fee-structures/:id
func (h *FeeHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	view, err := h.structures.GetFeeStructure(c.Request.Context(), id)
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PATCH /fee-structures/:id
func (h *FeeHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req feeStructureUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	var view *service.FeeStructureView
	err = h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		view, err = h.structures.UpdateFeeStructure(ctx, id, upd)
		return err
	})
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /fee-structures/:id/deactivate
func (h *FeeHandler) Deactivate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var view *service.FeeStructureView
	err := h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		view, err = h.structures.DeactivateFeeStructure(ctx, id)
		return err
	})
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Supersede closes the structure and opens a revised copy from effective_from.
// POST /fee-structures/:id/supersede
func (h *FeeHandler) Supersede(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req feeStructureUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, err := parseDate("effective_from", req.EffectiveFrom)
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	var view *service.FeeStructureView
	err = h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		view, err = h.structures.SupersedeFeeStructure(ctx, id, upd, from)
		return err
	})
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GET /hostels/:id/fee-structures
func (h *FeeHandler) ListForHostel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	list, err := h.structures.ListForHostel(c.Request.Context(), id)
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee_structures": list, "total": len(list)})
}

// GET /hostels/:id/fee-details
func (h *FeeHandler) FeeDetails(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	details, err := h.structures.GetFeeDetailsForHostel(c.Request.Context(), id)
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hostel_id": id, "fees": details})
}

// GET /hostels/:id/fee-configuration?room_type=&fee_type=&as_of=
func (h *FeeHandler) Configuration(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	asOf, err := asOfQuery(c, h.clock.Now())
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	cfg, err := h.config.GetEffectiveFeeConfiguration(c.Request.Context(), id,
		domain.RoomType(c.Query("room_type")), domain.FeeType(c.DefaultQuery("fee_type", string(domain.FeeMonthly))), asOf)
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// GET /hostels/:id/fee-estimate?room_type=&fee_type=&as_of=&months=
func (h *FeeHandler) Estimate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	asOf, err := asOfQuery(c, h.clock.Now())
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	months, err := strconv.Atoi(c.DefaultQuery("months", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "months must be a number"})
		return
	}
	est, err := h.config.EstimateStayCost(c.Request.Context(), id,
		domain.RoomType(c.Query("room_type")), domain.FeeType(c.DefaultQuery("fee_type", string(domain.FeeMonthly))), asOf, months)
	if err != nil {
		respondError(c, "fees", err)
		return
	}
	c.JSON(http.StatusOK, est)
}
