package middleware

import (
	"net/http"
	"time"

	"velora/internal/repository"

	"github.com/gin-gonic/gin"
)

const minAge = 18

// AdultOnly ensures the user is 18+ (DOB verified). Use after AuthRequired.
func AdultOnly(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		u, err := userRepo.GetByID(userID)
		if err != nil || u.DateOfBirth == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "age verification required"})
			return
		}
		if u.Age(time.Now()) < minAge {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "must be 18 or older"})
			return
		}
		c.Next()
	}
}
