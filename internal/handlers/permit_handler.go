package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/services"
)

type PermitHandler struct {
	permits services.PermitService
}

func NewPermitHandler(permits services.PermitService) *PermitHandler {
	return &PermitHandler{permits: permits}
}

// @Summary      Apply for a permit
// @Tags         Permits
// @Accept       json
// @Produce      json
// @Param        permit  body      models.PermitRequest  true  "Application"
// @Success      201     {object}  models.Permit
// @Failure      400     {object}  map[string]string
// @Router       /permits [post]
func (h *PermitHandler) Create(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.PermitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	permit, err := h.permits.Create(ownerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAmountMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount does not match the fee for this permit"})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("[permits][create] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create permit"})
		}
		return
	}
	c.JSON(http.StatusCreated, permit)
}

// @Summary      Get one of the caller's permits
// @Tags         Permits
// @Produce      json
// @Param        id   path      int  true  "Permit id"
// @Success      200  {object}  models.Permit
// @Failure      404  {object}  map[string]string
// @Router       /permits/{id} [get]
func (h *PermitHandler) Get(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	permitID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid permit id"})
		return
	}

	permit, err := h.permits.Get(ownerID, permitID)
	if err != nil {
		// cross-owner reads land here too: 404, never 403
		if errors.Is(err, services.ErrPermitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Permit not found"})
			return
		}
		log.Printf("[permits][get] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load permit"})
		return
	}
	c.JSON(http.StatusOK, permit)
}

// @Summary      List the caller's permits
// @Tags         Permits
// @Produce      json
// @Success      200  {array}  models.Permit
// @Router       /permits [get]
func (h *PermitHandler) List(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	permits, err := h.permits.List(ownerID)
	if err != nil {
		log.Printf("[permits][list] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list permits"})
		return
	}
	if permits == nil {
		permits = []*models.Permit{}
	}
	c.JSON(http.StatusOK, permits)
}

// @Summary      Cancel a permit awaiting payment
// @Tags         Permits
// @Produce      json
// @Param        id   path      int  true  "Permit id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /permits/{id}/cancel [post]
func (h *PermitHandler) Cancel(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	permitID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid permit id"})
		return
	}

	if err := h.permits.Cancel(ownerID, permitID); err != nil {
		switch {
		case errors.Is(err, services.ErrPermitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Permit not found"})
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Permit can no longer be cancelled"})
		default:
			log.Printf("[permits][cancel] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel permit"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permit cancelled"})
}
