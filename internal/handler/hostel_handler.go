package handler

import (
	"net/http"
	"strconv"

	"hostelhub/internal/models"
	"hostelhub/internal/repository"

	"github.com/gin-gonic/gin"
)

type HostelHandler struct {
	hostelRepo *repository.HostelRepository
}

func NewHostelHandler(hostelRepo *repository.HostelRepository) *HostelHandler {
	return &HostelHandler{hostelRepo: hostelRepo}
}

type CreateHostelRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	City         string `json:"city" binding:"max=100"`
	Address      string `json:"address" binding:"max=500"`
	ContactPhone string `json:"contact_phone" binding:"max=20"`
}

// Create registers a hostel.
// POST /hostels
func (h *HostelHandler) Create(c *gin.Context) {
	var req CreateHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hostel := &models.Hostel{
		Name:         req.Name,
		City:         req.City,
		Address:      req.Address,
		ContactPhone: req.ContactPhone,
		IsActive:     true,
	}
	if err := h.hostelRepo.Create(c.Request.Context(), hostel); err != nil {
		respondError(c, "hostels", err)
		return
	}
	c.JSON(http.StatusCreated, hostel)
}

// GET /hostels/:id
func (h *HostelHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	hostel, err := h.hostelRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "hostels", err)
		return
	}
	if hostel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "hostel not found"})
		return
	}
	c.JSON(http.StatusOK, hostel)
}

// GET /hostels?city=&limit=&offset=
func (h *HostelHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	list, err := h.hostelRepo.List(c.Request.Context(), c.Query("city"), limit, offset)
	if err != nil {
		respondError(c, "hostels", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hostels": list, "total": len(list)})
}
