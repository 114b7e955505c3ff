package actors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"theatre/internal/shared/middleware"
	"theatre/internal/shared/testutil"
	"theatre/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t, &Actor{})
	svc := NewService(NewRepository(db), cache.NewService(nil))

	r := gin.New()
	SetupActorRoutes(r.Group("/api/v1"), NewController(svc), middleware.JWTAuthWithConfig(testutil.Config()))
	return r, svc
}

func TestCreateActorReturnsFullName(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/actors", strings.NewReader(`{"first_name":"Judi","last_name":"Dench"}`))
	req.Header.Set("Content-Type", "application/json")
	testutil.Authorize(t, req, uuid.New(), "ADMIN")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data ActorResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Judi Dench", resp.Data.FullName)
}

func TestActorWritesRequireAdmin(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/actors", strings.NewReader(`{"first_name":"A","last_name":"B"}`))
	req.Header.Set("Content-Type", "application/json")
	testutil.Authorize(t, req, uuid.New(), "USER")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestResolveUnknownActor(t *testing.T) {
	_, svc := newTestRouter(t)

	_, err := svc.Resolve(t.Context(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, ErrUnknownActor)
}
