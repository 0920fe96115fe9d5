package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server  string        `envconfig:"SERVER" default:"http://localhost:8000"`
	Token   string        `envconfig:"TOKEN"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
	// CHATCTL_COLOURS enables colorized output
	Colours bool `envconfig:"COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("chatctl", &cfg)
	return cfg, err
}
