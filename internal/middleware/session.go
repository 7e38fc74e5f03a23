package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medexam/medexam-backend/internal/model"
	"github.com/medexam/medexam-backend/internal/response"
	"github.com/medexam/medexam-backend/internal/service"
)

// CheckSingleDeviceSession validates the JWT's JTI against the active login
// in Redis. A mismatch means the login was superseded by another device or
// reset by an admin.
func CheckSingleDeviceSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		// Only enforced for students. Admins may stay signed in on several
		// workstations.
		if claims.Role != model.RoleStudent {
			c.Next()
			return
		}

		if err := authService.ValidateStudentSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
