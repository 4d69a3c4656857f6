package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyPrincipal is the key for the authenticated principal in gin context
const ContextKeyPrincipal = "principal"

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
// On failure it writes a 401 response and aborts the request.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		return "", false
	}
	return parts[1], true
}

// Authenticate validates a JWT and stores the freshly loaded principal in
// the context. Roles and groups are read from the database on every request
// so that changes take effect before the token expires.
func Authenticate(c *gin.Context, tokens *Tokens, loader PrincipalLoader, token string) bool {
	claims, err := tokens.Validate(token)
	if err != nil {
		if err == ErrExpiredToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		}
		return false
	}

	principal, err := loader.LoadPrincipal(c.Request.Context(), claims.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return false
	}

	SetPrincipal(c, principal)
	return true
}

// AuthMiddleware validates JWT tokens and sets the principal in context
func AuthMiddleware(tokens *Tokens, loader PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			return
		}
		if !Authenticate(c, tokens, loader, token) {
			return
		}
		c.Next()
	}
}

// RequireRole only lets principals holding at least one of roles through
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, exists := GetPrincipal(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		if !principal.HasAnyRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		c.Next()
	}
}

// SetPrincipal stores the principal in the gin context
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(ContextKeyPrincipal, p)
}

// GetPrincipal returns the principal from the gin context
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}
