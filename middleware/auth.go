package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contenthub/models"
	"contenthub/utils"
)

const (
	// ContextUserIDKey stores the authenticated user ID in the gin context.
	ContextUserIDKey = "user_id"
	// ContextRoleKey stores the authenticated user's role.
	ContextRoleKey = "role"
	// ContextTokenKey stores the raw bearer token, used by logout.
	ContextTokenKey = "token"
	// ContextClaimsKey stores the full parsed claims.
	ContextClaimsKey = "claims"
)

// AuthRequired ensures the request carries a valid, unrevoked bearer
// token and attaches the decoded subject to the context.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Fail(ctx, http.StatusUnauthorized, "Not authorized, no token provided", nil)
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Fail(ctx, http.StatusUnauthorized, "Not authorized, invalid authorization header", nil)
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Fail(ctx, http.StatusUnauthorized, "Not authorized, no token provided", nil)
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Fail(ctx, http.StatusUnauthorized, "Not authorized, token revoked", nil)
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Fail(ctx, http.StatusUnauthorized, "Not authorized, token failed", nil)
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextRoleKey, models.Role(claims.Role))
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Set(ContextClaimsKey, claims)
		ctx.Next()
	}
}

// RequireRoles rejects requests whose attached role is not in the
// allow-list. It must run after AuthRequired.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(ctx *gin.Context) {
		role, ok := CurrentRole(ctx)
		if !ok || !allowed[role] {
			utils.Fail(ctx, http.StatusForbidden, "Role "+string(role)+" is not authorized to access this resource", nil)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentUserID returns the authenticated user's id from the context.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// CurrentRole returns the authenticated user's role from the context.
func CurrentRole(ctx *gin.Context) (models.Role, bool) {
	value, exists := ctx.Get(ContextRoleKey)
	if !exists {
		return "", false
	}
	role, ok := value.(models.Role)
	return role, ok
}

// IsAdmin reports whether the authenticated user carries the admin role.
func IsAdmin(ctx *gin.Context) bool {
	role, ok := CurrentRole(ctx)
	return ok && role == models.RoleAdmin
}
