package middleware

import (
	"errors"
	"net/http"
	"os"

	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ValidateToken parses the Authorization header and stores user_id and role
// in the context for the handlers.
func ValidateToken(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		c.Abort()
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return
	}
	role, _ := claims["role"].(string)

	c.Set("user_id", uint(userID))
	c.Set("role", role)

	c.Next()
}

// RequireAdmin must run after ValidateToken.
func RequireAdmin(c *gin.Context) {
	if c.GetString("role") != string(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You must be an admin"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireClient must run after ValidateToken.
func RequireClient(c *gin.Context) {
	if c.GetString("role") != string(models.RoleClient) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You must be a client"})
		c.Abort()
		return
	}
	c.Next()
}

// UserID pulls the authenticated user id set by ValidateToken.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
