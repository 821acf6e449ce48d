package middleware

import (
	"errors"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Hackerette0/ecommerce--ly/httperr"
	"github.com/Hackerette0/ecommerce--ly/models"
)

// ValidateToken checks the Authorization header (with or without a "Bearer "
// prefix) and puts user_id and role into the request context.
func ValidateToken(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		httperr.Respond(c, httperr.Unauthorized.WithMessage("Authorization header is missing"))
		c.Abort()
		return
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		httperr.Respond(c, httperr.Unauthorized.WithMessage("Invalid or expired token"))
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized.WithMessage("Invalid token claims"))
		c.Abort()
		return
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized.WithMessage("Invalid token claims"))
		c.Abort()
		return
	}
	role, _ := claims["role"].(string)

	c.Set("user_id", uint(userID))
	c.Set("role", models.Role(role))
	c.Next()
}

// RequireAdmin gates staff-only endpoints. Runs after ValidateToken.
func RequireAdmin(c *gin.Context) {
	if role, _ := c.Get("role"); role != models.RoleAdmin {
		httperr.Respond(c, httperr.Forbidden)
		c.Abort()
		return
	}
	c.Next()
}

// RequireSeller allows sellers and admins through.
func RequireSeller(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleSeller && role != models.RoleAdmin {
		httperr.Respond(c, httperr.Forbidden)
		c.Abort()
		return
	}
	c.Next()
}

// CallerID returns the authenticated user's id from the context.
func CallerID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
