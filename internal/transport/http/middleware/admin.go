package middleware

import (
	"github.com/gin-gonic/gin"

	"localchat/internal/model"
	"localchat/internal/transport/http/response"
)

// UserLoader resolves the authenticated user; *app.AuthService satisfies it.
type UserLoader interface {
	GetUserByID(id uint) (*model.User, error)
}

// AdminOnly runs after AuthJWT and rejects requests from non-admin accounts.
func AdminOnly(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDAny, exists := c.Get(ContextUserIDKey)
		if !exists {
			response.Error(c, 401, response.CodeUnauthorized, "missing authentication")
			c.Abort()
			return
		}
		userID, ok := userIDAny.(uint)
		if !ok {
			response.Error(c, 401, response.CodeUnauthorized, "invalid token payload")
			c.Abort()
			return
		}

		user, err := users.GetUserByID(userID)
		if err != nil {
			response.Error(c, 500, response.CodeInternalServer, "load user failed")
			c.Abort()
			return
		}
		if user == nil || !user.IsAdmin {
			response.Error(c, 403, response.CodeForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
