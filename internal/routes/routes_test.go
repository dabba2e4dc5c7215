package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"runners_api/internal/config"
	"runners_api/internal/routes"
)

// gin snapshots the middleware chain at registration time, so global
// middleware has to be attached before any route. A handler panic must
// surface as a generic 500 instead of tearing down the connection.
func TestRouterRecoversFromHandlerPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := routes.SetupRouter()
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// Recovery must also cover the routes SetupRouter itself registered; a nil
// database handle makes any of them panic.
func TestRouterRecoveryCoversRegisteredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.DB = nil
	r := routes.SetupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cases/public", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
