package middleware

import (
	"strings"

	"storefront/api/response"
	"storefront/application/account"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ClaimsKey 是 gin context 中保存令牌声明的键。
const ClaimsKey = "claims"

// TokenParser validates a bearer token.
type TokenParser interface {
	Parse(token string) (*account.Claims, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Abort(c, errors.Unauthorized("authorization required"))
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			response.Abort(c, errors.FromDomainError(err))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			response.Abort(c, errors.Unauthorized("authorization required"))
			return
		}
		if !claims.HasRole(role) {
			response.Abort(c, errors.Forbidden("you are not allowed to access this resource"))
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by AuthMiddleware.
func ClaimsFrom(c *gin.Context) (*account.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*account.Claims)
	return claims, ok
}
