package middleware

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/ahmed50f/new-commerce/models"
)

const identityKey = "identity"

// Identity is the authenticated caller, resolved once per request. CompanyID
// is set only for vendors; ownership checks read it instead of poking at the
// user record again.
type Identity struct {
	UserID    uint
	Role      models.Role
	CompanyID *uint
}

// IsAdmin reports whether the caller may act on any company's data.
func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// ValidateToken checks the Authorization JWT and loads the caller's identity
// into the request context.
func ValidateToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		var user models.User
		if err := db.First(&user, uint(userID)).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			c.Abort()
			return
		}

		SetIdentity(c, Identity{
			UserID:    user.ID,
			Role:      user.Role,
			CompanyID: user.CompanyID,
		})
		c.Next()
	}
}

// SetIdentity stores the caller's identity on the request context.
func SetIdentity(c *gin.Context, ident Identity) {
	c.Set(identityKey, ident)
}

// CurrentIdentity returns the identity stored by ValidateToken.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	ident, ok := val.(Identity)
	return ident, ok
}
