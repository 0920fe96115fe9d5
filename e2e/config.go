package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_SERVER_ADDR points at a running chat-hub, e.g. http://localhost:8000. Empty skips the suites.
	ServerAddr string `envconfig:"E2E_SERVER_ADDR"`
	// E2E_HEALTH_ADDR is the gRPC health endpoint of the same server
	HealthAddr string `envconfig:"E2E_HEALTH_ADDR" default:"localhost:8001"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
