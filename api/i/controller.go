package i

import "github.com/gin-gonic/gin"

// Controller mounts one area of the maze API on the router.
type Controller interface {
	// RegisterPublic adds routes reachable without a token, such as login.
	RegisterPublic(public *gin.RouterGroup)
	// RegisterProtected adds routes behind the bearer middleware. Handlers
	// read the caller through identity.PlayerID.
	RegisterProtected(protected *gin.RouterGroup)
}
