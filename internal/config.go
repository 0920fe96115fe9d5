package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Config struct {
	Host           string `env:"HOST,default=0.0.0.0"`
	Port           int    `env:"PORT,default=8000"`
	GrpcHealthPort int    `env:"GRPC_HEALTH_PORT,default=8001"`
	DebugPort      int    `env:"DEBUG_PORT"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`

	JwtSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=720h"`

	ConnectionBufferSize int   `env:"CONNECTION_BUFFER_SIZE,default=64"`
	MaxUploadSize        int64 `env:"MAX_UPLOAD_SIZE,default=10485760"`
	DefaultPageSize      int   `env:"DEFAULT_PAGE_SIZE,default=50"`
	MaxPageSize          int   `env:"MAX_PAGE_SIZE,default=200"`
	ChatListLimit        int   `env:"CHAT_LIST_LIMIT,default=100"`

	ModerationEnabled bool   `env:"MODERATION_ENABLED,default=false"`
	CharReplacement   string `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`

	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s"`
	CorsOrigins     string        `env:"CORS_ORIGINS,default=*"`
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if len(c.JwtSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.ConnectionBufferSize <= 0 {
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be positive, got %d", c.ConnectionBufferSize)
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("page sizes must satisfy 0 < DEFAULT_PAGE_SIZE <= MAX_PAGE_SIZE, got %d and %d",
			c.DefaultPageSize, c.MaxPageSize)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize)
	}
	if c.MetricInterval <= 0 || c.RestartInterval <= 0 {
		return fmt.Errorf("METRIC_INTERVAL and RESTART_INTERVAL must be positive")
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	origins := c.Origins()
	if len(origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin or *")
	}
	for _, origin := range origins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ORIGINS entry %q must be * or start with http:// or https://", origin)
		}
	}
	return nil
}

// Origins splits CORS_ORIGINS on commas.
func (c Config) Origins() []string {
	origins := lo.Map(strings.Split(c.CorsOrigins, ","), func(o string, _ int) string { return strings.TrimSpace(o) })
	return lo.Compact(origins)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
