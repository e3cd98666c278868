package middleware

import (
	"net/http"

	"kraft/internal/auth"
	"kraft/model"
	"kraft/service"

	"github.com/gin-gonic/gin"
)

// Identity resolves the request's identity once and stashes it in the
// context. Basic-auth credentials are verified before they become a
// principal; the resolver itself only maps principals to users.
func Identity(resolver *auth.Resolver, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(auth.CookieName)

		var principal auth.Principal
		if email, password, ok := c.Request.BasicAuth(); ok {
			if _, err := users.Authenticate(email, password); err == nil {
				principal = auth.CredentialsPrincipal{Username: email}
			}
		}

		if snap := resolver.Resolve(c.Request.Context(), sessionID, principal); snap != nil {
			c.Set(auth.IdentityKey, snap)
		}
		c.Next()
	}
}

// RequireRole rejects anonymous callers with 401 and callers below the
// required role with 403.
func RequireRole(min model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := auth.Current(c)
		if snap == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if !snap.Role.AtLeast(min) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAuthenticated redirects anonymous page requests to the login entry
// point chosen by the active security policy.
func RequireAuthenticated(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.Current(c) == nil {
			c.Redirect(http.StatusFound, loginURL)
			c.Abort()
			return
		}
		c.Next()
	}
}
