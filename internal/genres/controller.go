package genres

import (
	"errors"
	"net/http"

	"theatre/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	CreateGenre(c *gin.Context)
	ListGenres(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateGenre(c *gin.Context) {
	var req CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	genre, err := ctrl.service.CreateGenre(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrGenreAlreadyExists) {
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create genre", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Genre created successfully", genre, nil)
}

func (ctrl *controller) ListGenres(c *gin.Context) {
	genres, err := ctrl.service.ListGenres(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list genres", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Genres retrieved successfully", genres, nil)
}
