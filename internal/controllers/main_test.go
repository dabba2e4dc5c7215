package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"runners_api/internal/config"
	"runners_api/internal/controllers"
	"runners_api/internal/middleware"
	"runners_api/internal/models"
	"runners_api/internal/routes"
)

const testPassword = "Str0ng!pw"

// setupTest wires an in-memory database and a fresh router. Each test gets
// its own schema.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.InitJWT("test-signing-key"))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	config.DB = db
	controllers.Blob = nil

	return routes.SetupRouter()
}

// createUser inserts a user row directly and returns it with a valid token.
func createUser(t *testing.T, email, role string) (models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, config.DB.Create(&user).Error)

	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, "Test User")
	require.NoError(t, err)
	return user, token
}

func createRunner(t *testing.T, userID uint, firstName string) models.Runner {
	t.Helper()
	runner := models.Runner{
		UserID:    userID,
		FirstName: firstName,
		LastName:  "Runner",
		IsActive:  true,
	}
	require.NoError(t, config.DB.Create(&runner).Error)
	return runner
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
