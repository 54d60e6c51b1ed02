package handler

import (
	"vims/internal/service"

	"github.com/gin-gonic/gin"
)

// actorFrom builds the acting user from claims placed on the context by
// the auth middleware.
func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		Username: c.GetString("username"),
		Role:     c.GetString("userRole"),
	}
}
