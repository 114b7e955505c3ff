package halls

import (
	"errors"
	"net/http"

	"theatre/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	CreateHall(c *gin.Context)
	ListHalls(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// CreateHall handles POST /api/v1/theatre-halls
func (ctrl *controller) CreateHall(c *gin.Context) {
	var req CreateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	hall, err := ctrl.service.CreateHall(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrHallAlreadyExists):
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
		case errors.Is(err, ErrInvalidGeometry):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create theatre hall", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Theatre hall created successfully", hall, nil)
}

// ListHalls handles GET /api/v1/theatre-halls
func (ctrl *controller) ListHalls(c *gin.Context) {
	halls, err := ctrl.service.ListHalls(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list theatre halls", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Theatre halls retrieved successfully", halls, nil)
}
