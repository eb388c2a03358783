package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"car-management-api/internal/auth"
)

// Session requires a valid session cookie. A missing cookie is 401, a
// cookie that fails verification is 403. On success the identity is
// attached to the request context.
func Session(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(auth.CookieName)
		if err != nil || raw == "" {
			c.Abort()
			c.String(http.StatusUnauthorized, "Unauthorized access")
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		ctx := auth.WithIdentity(c.Request.Context(), auth.NewIdentity(claims))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
