package performances

import (
	"errors"
	"net/http"
	"time"

	"theatre/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Controller interface {
	CreatePerformance(c *gin.Context)
	UpdatePerformance(c *gin.Context)
	DeletePerformance(c *gin.Context)
	GetPerformance(c *gin.Context)
	ListPerformances(c *gin.Context)
	GetAvailability(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// ListPerformances handles GET /api/v1/performances?date=YYYY-MM-DD&play=<id>
func (ctrl *controller) ListPerformances(c *gin.Context) {
	var filter Filter

	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil, err.Error())
			return
		}
		filter.Date = &day
	}

	if raw := c.Query("play"); raw != "" {
		playID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid play ID", nil, err.Error())
			return
		}
		filter.PlayID = &playID
	}

	items, err := ctrl.service.ListPerformances(c.Request.Context(), filter)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list performances", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Performances retrieved successfully", items, nil)
}

// GetPerformance handles GET /api/v1/performances/:id
func (ctrl *controller) GetPerformance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	performance, err := ctrl.service.GetPerformance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get performance")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Performance retrieved successfully", performance, nil)
}

// GetAvailability handles GET /api/v1/performances/:id/availability
func (ctrl *controller) GetAvailability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	availability, err := ctrl.service.GetAvailability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get availability")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Availability retrieved successfully", availability, nil)
}

// CreatePerformance handles POST /api/v1/performances
func (ctrl *controller) CreatePerformance(c *gin.Context) {
	var req PerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	performance, err := ctrl.service.CreatePerformance(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create performance")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Performance created successfully", performance, nil)
}

// UpdatePerformance handles PUT /api/v1/performances/:id
func (ctrl *controller) UpdatePerformance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req PerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	performance, err := ctrl.service.UpdatePerformance(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Failed to update performance")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Performance updated successfully", performance, nil)
}

// DeletePerformance handles DELETE /api/v1/performances/:id
func (ctrl *controller) DeletePerformance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeletePerformance(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete performance")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Performance deleted successfully", nil, nil)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid performance ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrPerformanceNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidPerformance):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrPerformanceHasTickets):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}
