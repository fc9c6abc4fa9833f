package gameapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GameController manages level sessions of the authenticated player.
type GameController struct {
	sessions i.GameSessionManager
	progress i.ProgressStore
}

// NewGameController initializes a GameController.
func NewGameController(gsm i.GameSessionManager, ps i.ProgressStore) (*GameController, error) {
	if gsm == nil || ps == nil {
		return nil, errors.New("game controller needs a session manager and a progress store")
	}
	return &GameController{sessions: gsm, progress: ps}, nil
}

// RegisterPublic registers public routes.
func (gc *GameController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (gc *GameController) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/progress", gc.getProgress)
	route.POST("/levels/:level/start", gc.startLevel)

	session := route.Group("/session")
	{
		session.GET("", gc.snapshot)
		session.POST("/move", gc.move)
		session.POST("/pause", gc.pause)
		session.POST("/resume", gc.resume)
		session.POST("/restart", gc.restart)
	}
}

// statusFor maps service errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrLevelLocked):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidLevel), errors.Is(err, maze.ErrUnknownDirection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWith(ctx *gin.Context, err error) {
	ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func (gc *GameController) getProgress(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	p, err := gc.progress.Load(ctx.Request.Context(), playerID)
	if err != nil {
		abortWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newProgressResponse(p))
}

func (gc *GameController) startLevel(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	level, err := strconv.Atoi(ctx.Param("level"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "level must be a number"})
		return
	}

	snap, err := gc.sessions.StartLevel(ctx.Request.Context(), playerID, level)
	if err != nil {
		abortWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, snap)
}

func (gc *GameController) snapshot(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	snap, err := gc.sessions.Snapshot(playerID)
	if err != nil {
		abortWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (gc *GameController) move(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dir, err := maze.ParseDirection(request.Direction)
	if err != nil {
		abortWith(ctx, err)
		return
	}

	res, err := gc.sessions.Move(playerID, dir)
	if err != nil {
		abortWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (gc *GameController) pause(ctx *gin.Context) {
	gc.control(ctx, gc.sessions.Pause)
}

func (gc *GameController) resume(ctx *gin.Context) {
	gc.control(ctx, gc.sessions.Resume)
}

func (gc *GameController) restart(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	snap, err := gc.sessions.Restart(ctx.Request.Context(), playerID)
	if err != nil {
		abortWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, snap)
}

func (gc *GameController) control(ctx *gin.Context, op func(uuid.UUID) (game.Snapshot, error)) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	snap, err := op(playerID)
	if err != nil {
		abortWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}
