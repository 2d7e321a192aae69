package auth

import (
	"net/http"
	"salonbook-backend/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Middleware authenticates the bearer token and stores the actor on the context.
func Middleware(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			utils.RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}

		actor, err := issuer.Parse(tokenString)
		if err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(actorKey, actor)
		c.Set("userId", actor.UserID.String())
		c.Next()
	}
}

// Require rejects requests whose actor lacks the capability checked by allowed.
func Require(allowed func(Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil || !allowed(actor.Can) {
			utils.RespondWithError(c, http.StatusForbidden, "You do not have permission to perform this action")
			return
		}
		c.Next()
	}
}

func PlatformAdmin(c Capabilities) bool { return c.ManagePlatform }

func SalonManager(c Capabilities) bool { return c.ManageSalon }

func SalonMember(c Capabilities) bool { return c.Book }

// ActorFrom returns the actor set by Middleware, or nil on public routes.
func ActorFrom(c *gin.Context) *Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*Actor)
	return actor
}
