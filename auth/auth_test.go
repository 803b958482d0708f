package auth

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func postJSON(t *testing.T, handler gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func TestSignupAndLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	db := setupDB(t)

	w := postJSON(t, Signup(db), "/auth/signup",
		`{"username":"alice","email":"alice@test.local","password":"secret1"}`)
	require.Equal(t, 201, w.Code)

	// password is stored hashed, never serialized
	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	require.NotEqual(t, "secret1", user.Password)
	require.Equal(t, models.RoleClient, user.Role)
	require.NotContains(t, w.Body.String(), "secret1")

	t.Run("duplicate username is rejected", func(t *testing.T) {
		w := postJSON(t, Signup(db), "/auth/signup",
			`{"username":"alice","email":"other@test.local","password":"secret1"}`)
		require.Equal(t, 400, w.Code)
	})

	t.Run("login by username returns a token", func(t *testing.T) {
		w := postJSON(t, Login(db), "/auth/login",
			`{"username":"alice","password":"secret1"}`)
		require.Equal(t, 200, w.Code)

		var body struct {
			Token string          `json:"token"`
			User  json.RawMessage `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotEmpty(t, body.Token)
	})

	t.Run("login by email works too", func(t *testing.T) {
		w := postJSON(t, Login(db), "/auth/login",
			`{"email":"alice@test.local","password":"secret1"}`)
		require.Equal(t, 200, w.Code)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		w := postJSON(t, Login(db), "/auth/login",
			`{"username":"alice","password":"nope"}`)
		require.Equal(t, 401, w.Code)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		w := postJSON(t, Login(db), "/auth/login",
			`{"username":"ghost","password":"secret1"}`)
		require.Equal(t, 404, w.Code)
	})
}
