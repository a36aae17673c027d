package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stanleyamo/library-management-system/core"
)

// Identity headers set by the upstream identity provider.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const actorContextKey = "library.actor"

// requireActor resolves the caller from the identity headers. A missing role means member.
func requireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			renderError(c, http.StatusUnauthorized, "Unauthenticated", "missing "+HeaderUserID+" header")
			c.Abort()

			return
		}

		role := core.RoleMember
		if raw := strings.TrimSpace(c.GetHeader(HeaderUserRole)); raw != "" {
			parsed, err := core.ParseRole(strings.ToLower(raw))
			if err != nil {
				renderBadRequest(c, "%s", err.Error())
				c.Abort()

				return
			}

			role = parsed
		}

		c.Set(actorContextKey, core.Actor{UserID: userID, Role: role})
		c.Next()
	}
}

func actorFrom(c *gin.Context) core.Actor {
	value, _ := c.Get(actorContextKey)
	actor, _ := value.(core.Actor)

	return actor
}
