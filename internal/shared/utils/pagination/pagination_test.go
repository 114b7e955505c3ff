package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		query   string
		want    Params
		wantErr bool
	}{
		{"", Params{Page: 1, PerPage: 4}, false},
		{"?page=3&per_page=2", Params{Page: 3, PerPage: 2}, false},
		{"?per_page=50", Params{Page: 1, PerPage: 10}, false},
		{"?per_page=abc", Params{Page: 1, PerPage: 4}, false},
		{"?page=0", Params{}, true},
		{"?page=last", Params{}, true},
	}

	for _, tt := range tests {
		got, err := ParseParams(newContext("/api/v1/plays" + tt.query))
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidPage, tt.query)
			continue
		}
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.want, got, tt.query)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 8, Params{Page: 3, PerPage: 4}.Offset())
	assert.Equal(t, 4, Params{Page: 3, PerPage: 4}.Limit())
}

func TestNewBuildsLinks(t *testing.T) {
	c := newContext("http://testserver/api/v1/plays?title=ham&page=2")

	page, err := New(c, Params{Page: 2, PerPage: 4}, 10, []string{"a", "b", "c", "d"})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Pages)
	assert.EqualValues(t, 10, page.Count)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://testserver/api/v1/plays?page=3&title=ham", *page.Next)
	assert.Equal(t, "http://testserver/api/v1/plays?page=1&title=ham", *page.Previous)
}

func TestNewEmptyFirstPage(t *testing.T) {
	page, err := New[string](newContext("/api/v1/reservations"), Params{Page: 1, PerPage: 4}, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Pages)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.NotNil(t, page.Results)
}

func TestNewRejectsPagePastEnd(t *testing.T) {
	_, err := New(newContext("/api/v1/plays?page=4"), Params{Page: 4, PerPage: 4}, 10, []int{})
	assert.ErrorIs(t, err, ErrInvalidPage)
}
