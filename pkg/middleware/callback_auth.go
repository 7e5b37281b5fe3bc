package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"mirage/pkg/utils"
)

// CallbackTokenMiddleware rejects gateway callbacks whose ?token= does not
// verify against secret. With an empty secret every request passes.
func CallbackTokenMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		if err := utils.ValidateCallbackToken(c.Query("token"), secret); err != nil {
			log.Printf("callback: rejected request from %s: %v", c.ClientIP(), err)
			utils.RespondError(c, http.StatusUnauthorized, utils.ErrInvalidCallbackToken.Error())
			c.Abort()
			return
		}

		c.Next()
	}
}
