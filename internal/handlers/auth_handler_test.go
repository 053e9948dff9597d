package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/japhet-mokoumbou/chat-platform/internal/repositories"
	"github.com/japhet-mokoumbou/chat-platform/internal/services"
	"github.com/japhet-mokoumbou/chat-platform/internal/storage"
	pkgutils "github.com/japhet-mokoumbou/chat-platform/pkg/utils"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))

	users := services.NewUserService(
		repositories.NewUserRepository(db),
		pkgutils.NewTokenManager("test-secret", 1),
		nil,
	)
	h := NewAuthHandler(users)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLoginBodyContract(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(r, "/auth/register", `{"username":"alice","email":"alice@example.com","password":"correcthorse"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("usernameOrEmail with username", func(t *testing.T) {
		w := postJSON(r, "/auth/login", `{"usernameOrEmail":"alice","password":"correcthorse"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token"`)
	})

	t.Run("usernameOrEmail with email", func(t *testing.T) {
		w := postJSON(r, "/auth/login", `{"usernameOrEmail":"alice@example.com","password":"correcthorse"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing field is malformed", func(t *testing.T) {
		w := postJSON(r, "/auth/login", `{"username":"alice","password":"correcthorse"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		w := postJSON(r, "/auth/login", `{"usernameOrEmail":"alice","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
