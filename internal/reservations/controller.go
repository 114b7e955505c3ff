package reservations

import (
	"errors"
	"net/http"

	"theatre/internal/shared/middleware"
	"theatre/internal/shared/utils/pagination"
	"theatre/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	CreateReservation(c *gin.Context)
	ListReservations(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// CreateReservation handles POST /api/v1/reservations
func (ctrl *controller) CreateReservation(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, ErrUnauthorized, "Authentication required")
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	reservation, err := ctrl.service.CreateReservation(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create reservation")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Reservation created successfully", reservation, nil)
}

// ListReservations handles GET /api/v1/reservations
func (ctrl *controller) ListReservations(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, ErrUnauthorized, "Authentication required")
		return
	}

	params, err := pagination.ParseParams(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusNotFound, "Invalid page", nil, nil)
		return
	}

	items, total, err := ctrl.service.ListReservations(c.Request.Context(), userID, params.Offset(), params.Limit())
	if err != nil {
		respondError(c, err, "Failed to list reservations")
		return
	}

	page, err := pagination.New(c, params, total, items)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusNotFound, "Invalid page", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservations retrieved successfully", page, nil)
}

var kindStatus = map[Kind]int{
	KindOutOfBounds:      http.StatusBadRequest,
	KindEmptyReservation: http.StatusBadRequest,
	KindSeatTaken:        http.StatusConflict,
	KindNotFound:         http.StatusNotFound,
	KindUnauthorized:     http.StatusUnauthorized,
	KindForbidden:        http.StatusForbidden,
}

func respondError(c *gin.Context, err error, fallback string) {
	kind := KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		if errors.Is(err, ErrLockBusy) {
			response.RespondJSON(c, "error", http.StatusServiceUnavailable, "Performance is busy, please retry", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, nil)
		return
	}

	response.RespondJSON(c, "error", status, err.Error(), nil, toSeatErrorResponse(kind, err))
}
