package plays

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"theatre/internal/shared/config"
	"theatre/internal/shared/middleware"
	"theatre/internal/shared/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newTestRouter(t *testing.T) (*gin.Engine, *catalog, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c := newCatalog(t)
	dir := t.TempDir()

	r := gin.New()
	ctrl := NewController(c.svc, config.UploadConfig{Path: dir, MaxSize: 1 << 20})
	SetupPlayRoutes(r.Group("/api/v1"), ctrl, middleware.JWTAuthWithConfig(testutil.Config()))
	return r, c, dir
}

func multipartImage(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestListPlaysEndpoint(t *testing.T) {
	r, c, _ := newTestRouter(t)
	for _, title := range []string{"A", "B", "C", "D", "E", "F"} {
		c.play(t, title, []string{"Drama"}, nil)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plays?genres="+c.genres["Drama"].String(), nil)
	testutil.Authorize(t, req, uuid.New(), "USER")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Pages   int            `json:"pages"`
			Count   int            `json:"count"`
			Next    *string        `json:"next"`
			Results []PlayListItem `json:"results"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Pages)
	assert.Equal(t, 6, resp.Data.Count)
	assert.Len(t, resp.Data.Results, 4)
	require.NotNil(t, resp.Data.Next)
	assert.Contains(t, *resp.Data.Next, "page=2")
}

func TestListPlaysRejectsBadFilter(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plays?genres=1,2", nil)
	testutil.Authorize(t, req, uuid.New(), "USER")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/plays?page=9", nil)
	testutil.Authorize(t, req, uuid.New(), "USER")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePlayEndpoint(t *testing.T) {
	r, c, _ := newTestRouter(t)

	body := `{"title":"Hamlet","description":"Prince","genres":["` + c.genres["Tragedy"].String() + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plays", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	testutil.Authorize(t, req, uuid.New(), "ADMIN")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	body = `{"title":"Hamlet","genres":["` + uuid.NewString() + `"]}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/plays", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	testutil.Authorize(t, req, uuid.New(), "ADMIN")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImage(t *testing.T) {
	r, c, dir := newTestRouter(t)
	p := c.play(t, "Hamlet", nil, nil)

	body, contentType := multipartImage(t, "poster.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plays/"+p.ID.String()+"/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	testutil.Authorize(t, req, uuid.New(), "ADMIN")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data ImageResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Data.Image, "/uploads/plays/hamlet-"))
	assert.True(t, strings.HasSuffix(resp.Data.Image, ".png"))

	_, err := os.Stat(filepath.Join(dir, "plays", filepath.Base(resp.Data.Image)))
	assert.NoError(t, err)

	detail, err := c.svc.GetPlay(t.Context(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Image)
	assert.Equal(t, resp.Data.Image, *detail.Image)
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	r, c, _ := newTestRouter(t)
	p := c.play(t, "Hamlet", nil, nil)

	body, contentType := multipartImage(t, "notes.png", []byte("just some text"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plays/"+p.ID.String()+"/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	testutil.Authorize(t, req, uuid.New(), "ADMIN")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImageRequiresAdmin(t *testing.T) {
	r, c, _ := newTestRouter(t)
	p := c.play(t, "Hamlet", nil, nil)

	body, contentType := multipartImage(t, "poster.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plays/"+p.ID.String()+"/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	testutil.Authorize(t, req, uuid.New(), "USER")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "twelfth-night", slugify("Twelfth Night!"))
	assert.Equal(t, "play", slugify("???"))
}
