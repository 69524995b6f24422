package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
	"github.com/sunudico/sunudico-backend/internal/requestdata"
)

// GatewayIdentity trusts the identity headers set by the upstream API
// gateway, which owns authentication. Routes behind it require X-User-ID.
type GatewayIdentity struct {
	log *logger.Logger
}

func NewGatewayIdentity(log *logger.Logger) *GatewayIdentity {
	return &GatewayIdentity{log: log.With("middleware", "GatewayIdentity")}
}

func (m *GatewayIdentity) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			m.log.Warn("rejected malformed identity header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user identity"})
			return
		}
		rd := &requestdata.RequestData{
			UserID: userID,
			Region: strings.TrimSpace(c.GetHeader("X-Region")),
		}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

// Optional populates identity when present but lets anonymous requests
// through, for the endpoints that do not depend on a user.
func (m *GatewayIdentity) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				rd := &requestdata.RequestData{
					UserID: userID,
					Region: strings.TrimSpace(c.GetHeader("X-Region")),
				}
				c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
			}
		}
		c.Next()
	}
}
