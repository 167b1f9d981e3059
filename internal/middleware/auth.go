package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/avereen/studylog/internal/auth"
	"github.com/avereen/studylog/pkg/errors"
	"github.com/avereen/studylog/pkg/response"
)

const (
	CtxClaimsKey    = "authClaims"
	CtxAccountIDKey = "accountID"
	CtxSessionIDKey = "sessionID"
)

// Auth enforces JWT authentication using the supplied JWT service.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxAccountIDKey, claims.AccountID)
		if claims.SessionID != "" {
			c.Set(CtxSessionIDKey, claims.SessionID)
		}

		c.Next()
	}
}

// AccountID extracts the authenticated account id set by Auth.
func AccountID(c *gin.Context) (string, bool) {
	id, ok := c.Get(CtxAccountIDKey)
	if !ok {
		return "", false
	}
	accountID, ok := id.(string)
	return accountID, ok && accountID != ""
}
