package middlewares

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"velorent/src/db"
	"velorent/src/models"
	"velorent/src/types"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *models.User) {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file:auth_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening test database", err)
	}
	if err := d.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	db.NewDB(d)

	user := models.User{Email: "auth@example.com", Name: "Auth User", Role: "customer"}
	if err := d.Create(&user).Error; err != nil {
		t.Fatalf("could not create user: %s", err.Error())
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware)
	router.GET("/whoami", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"id": ctx.GetUint("id"), "email": ctx.GetString("email")})
	})
	return router, &user
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	claims := types.Claims{
		Role: "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("could not sign token: %s", err.Error())
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	router, user := newAuthTestRouter(t)

	t.Run("valid token populates the request context", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", signToken(t, fmt.Sprint(user.ID))))
		router.ServeHTTP(w, req)

		assert.Equal(t, 200, w.Code)
		assert.Contains(t, w.Body.String(), user.Email)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, 401, w.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, 401, w.Code)
	})

	t.Run("token for an unknown user is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", signToken(t, "524287")))
		router.ServeHTTP(w, req)

		assert.Equal(t, 401, w.Code)
	})
}
