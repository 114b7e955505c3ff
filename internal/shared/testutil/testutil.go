// Package testutil holds helpers shared by package tests: an in-memory
// SQLite database, a test configuration and signed access tokens.
package testutil

import (
	"net/http"
	"testing"
	"time"

	"theatre/internal/shared/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "test-secret"

// NewDB opens a private in-memory SQLite database and migrates the given models
func NewDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared-cache database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}

// Config returns a configuration suitable for tests
func Config() *config.Config {
	cfg := config.Load()
	cfg.GinMode = "test"
	cfg.JWT.Secret = JWTSecret
	cfg.JWT.JWTExpiresIn = time.Hour
	cfg.JWT.RefreshExpiresIn = 2 * time.Hour
	cfg.RateLimit.Enabled = false
	cfg.Redis.Enabled = false
	cfg.Kafka.Enabled = false
	cfg.Reservation.RetryBackoff = time.Millisecond
	cfg.PublicURL = "http://testserver"
	return cfg
}

// AccessToken signs an access token the auth middleware accepts
func AccessToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"email":   userID.String() + "@example.com",
		"role":    role,
		"type":    "access",
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(JWTSecret))
	require.NoError(t, err)
	return signed
}

// Authorize sets a bearer token on the request
func Authorize(t *testing.T, req *http.Request, userID uuid.UUID, role string) {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+AccessToken(t, userID, role))
}
