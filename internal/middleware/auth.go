package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kiarashjv/task-management-system/internal/logger"
	"github.com/kiarashjv/task-management-system/internal/security"
	"github.com/kiarashjv/task-management-system/internal/service"
	"go.uber.org/zap"
)

const principalKey = "principal"

const bearerPrefix = "Bearer "

func abortUnauthenticated(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// RequireAuth validates the bearer token and attaches the principal to the
// request context. Any failure is unauthenticated (401), never forbidden.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "MISSING_TOKEN", "Authorization header is required")
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) == len(bearerPrefix) {
			abortUnauthenticated(c, "INVALID_TOKEN", "Invalid authorization header format")
			return
		}
		token := authHeader[len(bearerPrefix):]

		principal, err := authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthenticated(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// GetPrincipal returns the principal attached by RequireAuth
func GetPrincipal(c *gin.Context) (*security.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*security.Principal)
	return principal, ok
}

// Authorize evaluates a fixed rule against the request principal.
// 401 when no principal is present, 403 when the rule denies, 500 when the
// decision could not be made (lookup failure is never a deny).
func Authorize(rule security.Rule) gin.HandlerFunc {
	return AuthorizeWith(func(c *gin.Context) security.Rule {
		return rule
	})
}

// AuthorizeWith evaluates a per-request rule, for rules that depend on
// path parameters (ownership checks).
func AuthorizeWith(ruleFor func(c *gin.Context) security.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortUnauthenticated(c, "UNAUTHORIZED", "Authentication required")
			return
		}

		decision, err := ruleFor(c)(c.Request.Context(), principal)
		if err != nil {
			logger.Get().Error("authorization check failed",
				zap.String("username", principal.Username),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Authorization check failed",
				},
			})
			return
		}

		if !decision.Allow {
			logger.Get().Info("access denied",
				zap.String("username", principal.Username),
				zap.String("path", c.FullPath()),
				zap.String("reason", decision.Reason),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions",
				},
			})
			return
		}

		c.Next()
	}
}
