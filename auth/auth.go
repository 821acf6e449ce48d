package auth

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Hackerette0/ecommerce--ly/httperr"
	"github.com/Hackerette0/ecommerce--ly/middleware"
	"github.com/Hackerette0/ecommerce--ly/models"
)

type RegisterInput struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IssueToken signs a 1-day HMAC token carrying the user's id and role.
func IssueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// POST /auth/register
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid input: "+err.Error()))
			return
		}
		if len(input.Username) < 3 {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Username must be at least 3 characters"))
			return
		}
		if len(input.Password) < 6 {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Password must be at least 6 characters"))
			return
		}
		role := input.Role
		if role == "" {
			role = models.RoleBuyer
		}
		if role != models.RoleBuyer && role != models.RoleSeller && role != models.RoleAdmin {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid role"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		user := models.User{Username: input.Username, Password: string(hash), Role: role}
		if err := db.Create(&user).Error; err != nil {
			// Unique index violation → username taken. GORM translates this
			// on both the postgres and sqlite drivers.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				httperr.Respond(c, httperr.InvalidArgument.WithMessage("Username already taken"))
				return
			}
			httperr.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Registered successfully"})
	}
}

// POST /auth/login
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Username and password are required"))
			return
		}

		// Same response whether the user is missing or the password is wrong.
		var user models.User
		if err := db.Where("username = ?", input.Username).First(&user).Error; err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid credentials"))
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid credentials"))
			return
		}

		token, err := IssueToken(&user)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  gin.H{"id": user.ID, "username": user.Username, "role": user.Role},
		})
	}
}

// GET /auth/me
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			httperr.Respond(c, httperr.Unauthorized)
			return
		}
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.Respond(c, httperr.NotFound.WithMessage("User not found"))
				return
			}
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
