// Package config loads environment configuration for the engine and
// player binaries. Command-line flags layer on top of these values.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every variable: SCREW_PLAYER_ENDPOINT, etc.
const envPrefix = "screw"

// Server configures the engine binary.
type Server struct {
	// PlayerEndpoint is a printf pattern expanded with each player
	// number.
	PlayerEndpoint string `envconfig:"PLAYER_ENDPOINT" default:"ws://player%d:5000/"`
	Seed           int64  `envconfig:"SEED"`
	DebugLevel     string `envconfig:"DEBUG" default:"info"`
}

// LoadServer reads the engine configuration from the environment.
func LoadServer() (*Server, error) {
	var c Server
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}

// Endpoints expands the endpoint pattern for n players.
func (c *Server) Endpoints(n int) []string {
	endpoints := make([]string, n)
	for i := range endpoints {
		endpoints[i] = fmt.Sprintf(c.PlayerEndpoint, i)
	}
	return endpoints
}

// Player configures the player binary.
type Player struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":5000"`
	Seed       int64  `envconfig:"SEED"`
	DebugLevel string `envconfig:"DEBUG" default:"info"`
}

// LoadPlayer reads the player configuration from the environment.
func LoadPlayer() (*Player, error) {
	var c Player
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}
