package e2e

import (
	"chat-hub/client"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

const password = "E2e-passw0rd!"

type BaseSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("E2E_SERVER_ADDR not set")
	}
}

// Step prints a colorized header before running fn with a bounded context
func (s *BaseSuite) Step(name string, fn func(ctx context.Context)) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	fn(ctx)
}

// NewAccount registers a throwaway user and returns a client logged in as them
func (s *BaseSuite) NewAccount(ctx context.Context, prefix string) (*client.Client, client.User) {
	api := client.New(s.Config.ServerAddr, 10*time.Second)
	username := prefix + "_" + uuid.NewString()[:8]
	user, err := api.Register(ctx, username, username+"@e2e.example.com", password)
	s.Require().NoError(err, "cannot register "+username)
	return api, user
}
