package handler

import (
	"context"
	"net/http"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReferralHandler struct {
	uow        service.UnitOfWork
	referrals  *service.ReferralService
	commission *service.CommissionService
}

func NewReferralHandler(uow service.UnitOfWork, referrals *service.ReferralService, commission *service.CommissionService) *ReferralHandler {
	return &ReferralHandler{uow: uow, referrals: referrals, commission: commission}
}

type createProgramRequest struct {
	service.CreateProgramInput
	ValidFrom string `json:"valid_from"`
	ValidTo   string `json:"valid_to"`
}

type RewardStatusRequest struct {
	Status domain.RewardStatus `json:"status" binding:"required,oneof=PENDING APPROVED PAID CANCELLED"`
}

// POST /referral-programs
func (h *ReferralHandler) CreateProgram(c *gin.Context) {
	var req createProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := req.CreateProgramInput
	var err error
	if in.ValidFrom, err = parseOptionalDate("valid_from", req.ValidFrom); err != nil {
		respondError(c, "referral", err)
		return
	}
	if in.ValidTo, err = parseOptionalDate("valid_to", req.ValidTo); err != nil {
		respondError(c, "referral", err)
		return
	}
	var p *models.ReferralProgram
	err = h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		p, err = h.referrals.CreateProgram(ctx, in)
		return err
	})
	if err != nil {
		respondError(c, "referral", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /referral-programs/:id
func (h *ReferralHandler) GetProgram(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.referrals.GetProgram(c.Request.Context(), id)
	if err != nil {
		respondError(c, "referral", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /referral-programs
func (h *ReferralHandler) ListPrograms(c *gin.Context) {
	list, err := h.referrals.ListActivePrograms(c.Request.Context())
	if err != nil {
		respondError(c, "referral", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs": list, "total": len(list)})
}

// POST /referrals
func (h *ReferralHandler) Create(c *gin.Context) {
	var in service.CreateReferralInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, http.StatusCreated, func(ctx context.Context) (*models.Referral, error) {
		return h.referrals.CreateReferral(ctx, in)
	})
}

// GET /referrals/:id
func (h *ReferralHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ref, err := h.referrals.GetReferral(c.Request.Context(), id)
	if err != nil {
		respondError(c, "referral", err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

// GET /referrers/:id/referrals
func (h *ReferralHandler) ListByReferrer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	list, err := h.referrals.ListReferralsByReferrer(c.Request.Context(), id)
	if err != nil {
		respondError(c, "referral", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list, "total": len(list)})
}

// Recalculate re-derives rewards from the program's current rules.
// POST /referrals/:id/recalculate
func (h *ReferralHandler) Recalculate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var ref *models.Referral
	err := h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		ref, err = h.commission.RecalculateCommissionForReferral(ctx, id)
		return err
	})
	if err != nil {
		respondError(c, "referral", err)
		return
	}
	if ref == nil {
		c.JSON(http.StatusOK, gin.H{"processed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": true, "referral": ref})
}

// PUT /referrals/:id/referrer-reward-status
func (h *ReferralHandler) SetReferrerRewardStatus(c *gin.Context) {
	h.setRewardStatus(c, h.commission.MarkReferrerRewardStatus)
}

// PUT /referrals/:id/referee-reward-status
func (h *ReferralHandler) SetRefereeRewardStatus(c *gin.Context) {
	h.setRewardStatus(c, h.commission.MarkRefereeRewardStatus)
}

func (h *ReferralHandler) setRewardStatus(c *gin.Context, set func(ctx context.Context, id uuid.UUID, status domain.RewardStatus) (*models.Referral, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req RewardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, http.StatusOK, func(ctx context.Context) (*models.Referral, error) {
		return set(ctx, id, req.Status)
	})
}

func (h *ReferralHandler) mutate(c *gin.Context, status int, fn func(ctx context.Context) (*models.Referral, error)) {
	var ref *models.Referral
	err := h.uow.Do(c.Request.Context(), func(ctx context.Context) error {
		var err error
		ref, err = fn(ctx)
		return err
	})
	if err != nil {
		respondError(c, "referral", err)
		return
	}
	c.JSON(status, ref)
}
