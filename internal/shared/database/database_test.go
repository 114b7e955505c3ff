package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"theatre/internal/shared/testutil"
	"theatre/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestMigrateCreatesAllTables(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, MigrateConstraints(db))

	for _, table := range []string{"users", "genres", "actors", "plays", "play_genres", "play_actors", "theatre_halls", "performances", "reservations", "tickets"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("tickets", "idx_tickets_performance_seat"))
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	g := NewGormLogger(logger.NewWithWriter(&buf, "debug", true), 10*time.Millisecond)
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	g.Trace(ctx, time.Now(), sql, nil)
	assert.Contains(t, buf.String(), `"msg":"Database Query"`)

	buf.Reset()
	g.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "Slow Database Query")

	buf.Reset()
	g.Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Contains(t, buf.String(), "Database Query Error")

	buf.Reset()
	g.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Empty(t, buf.String())
}
