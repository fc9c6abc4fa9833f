package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-maze/api"
	gameapi "github.com/beka-birhanu/vinom-maze/api/game"
	api_i "github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/beka-birhanu/vinom-maze/infrastruture/kvstore"
	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/infrastruture/repo"
	"github.com/beka-birhanu/vinom-maze/infrastruture/telemetry"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient        *mongo.Client
	store              i.KVStore
	playerRepo         i.PlayerRepo
	progressStore      *service.ProgressStore
	gameSessionManager *service.GameSessionManager
	gameController     api_i.Controller
	jwtTokenizer       i.Tokenizer
	authService        i.Authenticator
	authController     api_i.Controller
	router             *api.Router
	appLogger          *logger.Logger
)

func fatal(msg string, err error) {
	appLogger.Error(fmt.Sprintf("%s: %v", msg, err))
	os.Exit(1)
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	var err error
	mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		fatal("Failed to connect to MongoDB", err)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		fatal("MongoDB ping failed", err)
	}
	appLogger.Info("Connected to MongoDB")
}

func initStore(ctx context.Context) {
	storeLogger, err := logger.New("STORE", config.ColorBlue, os.Stdout)
	if err != nil {
		fatal("Creating store logger", err)
	}

	switch config.Envs.StoreBackend {
	case "badger":
		store, err = kvstore.NewBadgerStore(kvstore.BadgerConfig{Path: config.Envs.BadgerPath, Logger: storeLogger})
		if err != nil {
			fatal("Opening badger store", err)
		}
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: config.Envs.RedisAddr, Password: config.Envs.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			fatal("Redis ping failed", err)
		}
		store = kvstore.NewRedisStore(client)
	case "mongo":
		initMongo(ctx)
		store = kvstore.NewMongoStore(mongoClient, config.Envs.DBName, "progress")
	default:
		fatal("Selecting store", fmt.Errorf("unknown STORE_BACKEND %q", config.Envs.StoreBackend))
	}
	appLogger.Info(fmt.Sprintf("Store initialized (%s)", config.Envs.StoreBackend))
}

func initPlayerRepo(ctx context.Context) {
	if mongoClient == nil {
		playerRepo = repo.NewPlayerRepo(store)
		appLogger.Info("Player repository initialized")
		return
	}
	var err error
	playerRepo, err = repo.NewMongoPlayerRepo(ctx, mongoClient, config.Envs.DBName, "players")
	if err != nil {
		fatal("Creating player repository", err)
	}
	appLogger.Info("Player repository initialized (mongo)")
}

func initJWTTokenizer() {
	if config.Envs.JWTSecret == "" {
		fatal("Creating JWT tokenizer", fmt.Errorf("JWT_SECRET is not set"))
	}
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(playerRepo, jwtTokenizer)
	if err != nil {
		fatal("Creating auth service", err)
	}
	appLogger.Info("Auth service initialized")
}

func initProgressStore() {
	progressLogger, err := logger.New("PROGRESS", config.ColorPurple, os.Stdout)
	if err != nil {
		fatal("Creating progress logger", err)
	}
	progressStore, err = service.NewProgressStore(store, progressLogger)
	if err != nil {
		fatal("Creating progress store", err)
	}
	appLogger.Info("Progress store initialized")
}

func initSessionManager() {
	sessionLogger, err := logger.New("SESSION-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		fatal("Creating session manager logger", err)
	}
	difficulty, err := game.ParseDifficulty(config.Envs.Difficulty)
	if err != nil {
		fatal("Parsing DIFFICULTY", err)
	}
	alg, err := maze.ParseAlgorithm(config.Envs.MazeAlgorithm)
	if err != nil {
		fatal("Parsing MAZE_ALGORITHM", err)
	}

	gameSessionManager, err = service.NewGameSessionManager(service.Config{
		Progress:         progressStore,
		Logger:           sessionLogger,
		Difficulty:       difficulty,
		InitialTime:      time.Duration(config.Envs.InitialTime) * time.Second,
		MutationInterval: time.Duration(config.Envs.MutationInterval) * time.Second,
		Algorithm:        alg,
		AutoAdvance:      config.Envs.AutoAdvance,
	})
	if err != nil {
		fatal("Creating session manager", err)
	}
	appLogger.Info("Session manager initialized")
}

func initControllers() {
	var err error
	gameController, err = gameapi.NewGameController(gameSessionManager, progressStore)
	if err != nil {
		fatal("Creating game controller", err)
	}
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Controllers initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, gameController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if config.Envs.OTelEnabled {
		shutdown, err := telemetry.Setup(initCtx)
		if err != nil {
			fatal("Setting up telemetry", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
		appLogger.Info("Telemetry initialized")
	}

	initStore(initCtx)
	// Closing the mongo store also disconnects mongoClient.
	defer func() {
		if err := store.Close(); err != nil {
			appLogger.Error(fmt.Sprintf("Closing store: %v", err))
		}
	}()

	initPlayerRepo(initCtx)
	initJWTTokenizer()
	initAuthService()
	initProgressStore()
	initSessionManager()
	defer gameSessionManager.StopAll()
	initControllers()
	initRouter(jwtTokenizer)

	errCh := make(chan error, 1)
	go func() { errCh <- router.Run() }()

	select {
	case err := <-errCh:
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
	case <-ctx.Done():
		appLogger.Info("Shutting down")
	}
}
