package config

import (
	"time"

	"github.com/ragedunicorn/wago-release/pkg/infra/wago"
	"github.com/urfave/cli/v3"
)

// Wago holds Wago API connection configuration
type Wago struct {
	Endpoint string
	Timeout  time.Duration
}

// Flags returns CLI flags for Wago API configuration
func (c *Wago) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "endpoint",
			Usage:       "Upload endpoint template, :projectId is replaced with the project ID",
			Value:       wago.DefaultEndpoint,
			Destination: &c.Endpoint,
			Sources:     cli.EnvVars("WAGO_ENDPOINT"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of the upload request",
			Value:       wago.DefaultTimeout,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("WAGO_TIMEOUT"),
		},
	}
}

// ClientOptions returns the options for wago.NewClient
func (c *Wago) ClientOptions() []wago.Option {
	return []wago.Option{
		wago.WithTimeout(c.Timeout),
	}
}

// Factory returns the client factory for the configured endpoint template
func (c *Wago) Factory() *wago.Factory {
	return wago.NewFactory(c.Endpoint, c.ClientOptions()...)
}
