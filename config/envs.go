package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP    string // Host IP for the server
	RESTPort  int    // Port for the REST API
	GinMode   string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret string // Secret key for JWT signing
	JWTIssuer string // Issuer claim for JWTs

	StoreBackend  string // badger, redis or mongo
	BadgerPath    string // Directory of the embedded store
	RedisAddr     string
	RedisPassword string
	DBHost        string // Hostname or IP address for the database
	DBPort        int    // Port number for the database
	DBUser        string // Username for the database
	DBPassword    string // Password for the database
	DBName        string // Name of the database

	Difficulty       string // easy, normal or hard
	InitialTime      int    // Level 1 time budget in seconds
	MutationInterval int    // Seconds between maze mutations from level 2 on
	MazeAlgorithm    string // backtracker, prim or wilson
	AutoAdvance      bool   // Start the next level after a win
	OTelEnabled      bool   // Export traces over OTLP
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:    getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:  getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:   getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret: getEnvWithDefault("JWT_SECRET", ""),
		JWTIssuer: getEnvWithDefault("JWT_ISSUER", "vinom-maze"),

		StoreBackend:  getEnvWithDefault("STORE_BACKEND", "badger"),
		BadgerPath:    getEnvWithDefault("BADGER_PATH", "./data"),
		RedisAddr:     getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvWithDefault("REDIS_PASSWORD", ""),
		DBHost:        getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:        getEnvAsIntWithDefault("DB_PORT", 27017),
		DBUser:        getEnvWithDefault("DB_USER", ""),
		DBPassword:    getEnvWithDefault("DB_PASS", ""),
		DBName:        getEnvWithDefault("DB_NAME", "vinom_maze"),

		Difficulty:       getEnvWithDefault("DIFFICULTY", "normal"),
		InitialTime:      getEnvAsIntWithDefault("INITIAL_TIME_SECONDS", 300),
		MutationInterval: getEnvAsIntWithDefault("MUTATION_INTERVAL_SECONDS", 60),
		MazeAlgorithm:    getEnvWithDefault("MAZE_ALGORITHM", "prim"),
		AutoAdvance:      getEnvAsBoolWithDefault("AUTO_ADVANCE", false),
		OTelEnabled:      getEnvAsBoolWithDefault("OTEL_ENABLED", false),
	}
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

func getEnvAsBoolWithDefault(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a boolean: %v", key, err)
	}
	return value
}
