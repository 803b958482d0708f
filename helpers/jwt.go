package helpers

import (
	"os"
	"time"

	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken issues the session JWT for a user. Claims carry the user id
// and role so the middleware can gate routes without a DB round trip.
func GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": float64(user.ID),
		"role":    string(user.Role),
		"exp":     time.Now().Add(30 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
