// Package config holds the tuning knobs read from the environment. The
// package level variables are read at init, call Reload after loading a .env
// file.
package config

import (
	"os"
	"strconv"

	"golang.org/x/time/rate"
)

// Store backends understood by SNAKE_STORE.
const (
	StoreInMem    = "inmem"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Configuration variables. These aren't user facing but useful for tuning the
// details of engine performance.
var (
	MaxOpenConns int
	MaxIdleConns int
	PollRate     rate.Limit
	PollBurst    int
)

func init() {
	Reload()
}

// Reload re-reads the configuration variables from the environment.
func Reload() {
	MaxOpenConns = getEnvInt("MAX_OPEN_CONNS", 20)
	MaxIdleConns = getEnvInt("MAX_IDLE_CONNS", 20)
	PollRate = rate.Limit(getEnvInt("SNAKE_POLL_RPS", 40))
	PollBurst = getEnvInt("SNAKE_POLL_BURST", 10)
}

// Settings groups the values the commands need to wire a game together.
type Settings struct {
	Store    string
	StoreURL string
	GamesDir string
	APIAddr  string
	Seed     int64
}

// Load reads the settings from the environment.
func Load() Settings {
	return Settings{
		Store:    getEnvString("SNAKE_STORE", StoreInMem),
		StoreURL: getEnvString("SNAKE_STORE_URL", ""),
		GamesDir: getEnvString("SNAKE_GAMES_DIR", ""),
		APIAddr:  getEnvString("SNAKE_API_ADDR", ":3005"),
		Seed:     int64(getEnvInt("SNAKE_SEED", 0)),
	}
}

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}

func getEnvString(varName string, defaults string) string {
	if val, ok := os.LookupEnv(varName); ok && val != "" {
		return val
	}
	return defaults
}
