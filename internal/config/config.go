// Package config loads server settings from flags with environment fallbacks.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr                string
	AllowOrigins        string
	LogLevel            log.Level
	MatchmakingInterval time.Duration
	ReadBufferSize      int
	WriteBufferSize     int
}

var levels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Load parses args (without the program name). Flags win over CHESS_*
// environment variables, which win over the defaults.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", getenv("CHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("allow-origins", getenv("CHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins")
	level := fs.String("log-level", getenv("CHESS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	interval := fs.String("matchmaking-interval", getenv("CHESS_MATCHMAKING_INTERVAL", "1s"), "how often waiting players are paired")
	readBuf := fs.Int("ws-read-buffer", getenvInt("CHESS_WS_READ_BUFFER", 1024), "websocket read buffer size")
	writeBuf := fs.Int("ws-write-buffer", getenvInt("CHESS_WS_WRITE_BUFFER", 1024), "websocket write buffer size")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	lvl, ok := levels[strings.ToLower(strings.TrimSpace(*level))]
	if !ok {
		return Config{}, fmt.Errorf("invalid log level %q", *level)
	}
	every, err := time.ParseDuration(*interval)
	if err != nil {
		return Config{}, fmt.Errorf("invalid matchmaking interval: %w", err)
	}
	if every <= 0 {
		return Config{}, fmt.Errorf("matchmaking interval must be positive, got %s", every)
	}
	if *readBuf <= 0 || *writeBuf <= 0 {
		return Config{}, fmt.Errorf("websocket buffer sizes must be positive")
	}

	return Config{
		Addr:                *addr,
		AllowOrigins:        *origins,
		LogLevel:            lvl,
		MatchmakingInterval: every,
		ReadBufferSize:      *readBuf,
		WriteBufferSize:     *writeBuf,
	}, nil
}

// Origins splits AllowOrigins into its entries.
func (c Config) Origins() []string {
	out := []string{}
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
