package genres

import (
	"context"
	"testing"

	"theatre/internal/shared/testutil"
	"theatre/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	db := testutil.NewDB(t, &Genre{})
	return NewService(NewRepository(db), cache.NewService(nil))
}

func TestCreateAndListGenres(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Drama", "Comedy"} {
		_, err := svc.CreateGenre(ctx, CreateGenreRequest{Name: name})
		require.NoError(t, err)
	}

	_, err := svc.CreateGenre(ctx, CreateGenreRequest{Name: "Drama"})
	assert.ErrorIs(t, err, ErrGenreAlreadyExists)

	genres, err := svc.ListGenres(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "Comedy", genres[0].Name)
}

func TestResolve(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	drama, err := svc.CreateGenre(ctx, CreateGenreRequest{Name: "Drama"})
	require.NoError(t, err)

	got, err := svc.Resolve(ctx, []uuid.UUID{drama.ID, drama.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.Resolve(ctx, []uuid.UUID{drama.ID, uuid.New()})
	assert.ErrorIs(t, err, ErrUnknownGenre)

	got, err = svc.Resolve(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
