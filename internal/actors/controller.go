package actors

import (
	"net/http"

	"theatre/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	CreateActor(c *gin.Context)
	ListActors(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateActor(c *gin.Context) {
	var req CreateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	actor, err := ctrl.service.CreateActor(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create actor", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Actor created successfully", actor, nil)
}

func (ctrl *controller) ListActors(c *gin.Context) {
	actors, err := ctrl.service.ListActors(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list actors", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Actors retrieved successfully", actors, nil)
}
