package plays

import (
	"errors"
	"net/http"
	"path"
	"path/filepath"

	"theatre/internal/shared/config"
	"theatre/internal/shared/utils/pagination"
	"theatre/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Uploaded play images are served from this path
const ImageURLPrefix = "/uploads/plays"

type Controller interface {
	CreatePlay(c *gin.Context)
	ListPlays(c *gin.Context)
	GetPlay(c *gin.Context)
	UploadImage(c *gin.Context)
}

type controller struct {
	service Service
	upload  config.UploadConfig
}

func NewController(service Service, upload config.UploadConfig) Controller {
	return &controller{service: service, upload: upload}
}

// CreatePlay handles POST /api/v1/plays
func (ctrl *controller) CreatePlay(c *gin.Context) {
	var req CreatePlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	play, err := ctrl.service.CreatePlay(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidPlay) {
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create play", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Play created successfully", play, nil)
}

// ListPlays handles GET /api/v1/plays?title=&genres=&actors=&page=&per_page=
func (ctrl *controller) ListPlays(c *gin.Context) {
	genreIDs, err := parseIDList(c.Query("genres"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid genres filter", nil, err.Error())
		return
	}
	actorIDs, err := parseIDList(c.Query("actors"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid actors filter", nil, err.Error())
		return
	}

	params, err := pagination.ParseParams(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusNotFound, "Invalid page", nil, nil)
		return
	}

	filter := Filter{Title: c.Query("title"), GenreIDs: genreIDs, ActorIDs: actorIDs}
	items, total, err := ctrl.service.ListPlays(c.Request.Context(), filter, params.Offset(), params.Limit())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list plays", nil, nil)
		return
	}

	page, err := pagination.New(c, params, total, items)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusNotFound, "Invalid page", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Plays retrieved successfully", page, nil)
}

// GetPlay handles GET /api/v1/plays/:id
func (ctrl *controller) GetPlay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid play ID", nil, err.Error())
		return
	}

	play, err := ctrl.service.GetPlay(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPlayNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get play", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Play retrieved successfully", play, nil)
}

// UploadImage handles POST /api/v1/plays/:id/upload-image (multipart field "image")
func (ctrl *controller) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid play ID", nil, err.Error())
		return
	}

	play, err := ctrl.service.GetPlay(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPlayNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get play", nil, nil)
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Image file is required", nil, err.Error())
		return
	}

	name, err := storeImage(header, filepath.Join(ctrl.upload.Path, "plays"), ctrl.upload.MaxSize, play.Title)
	if err != nil {
		if errors.Is(err, ErrInvalidImage) {
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to store image", nil, nil)
		return
	}

	image := path.Join(ImageURLPrefix, name)
	if err := ctrl.service.SetImage(c.Request.Context(), id, image); err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to save image", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Image uploaded successfully", ImageResponse{ID: id, Image: image}, nil)
}
