package config

import (
	"github.com/ragedunicorn/wago-release/pkg/domain/interfaces"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
	"github.com/ragedunicorn/wago-release/pkg/infra/settings"
	"github.com/urfave/cli/v3"
)

// Credential holds authentication configuration
type Credential struct {
	AuthToken    string
	Server       string
	SettingsPath string
}

// Flags returns CLI flags for credential configuration
func (c *Credential) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-token",
			Usage:       "Wago API token, used when --server is not set or not found",
			Destination: &c.AuthToken,
			Sources:     cli.EnvVars("WAGO_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "server",
			Usage:       "ID of a server entry in the settings file holding the API token",
			Destination: &c.Server,
			Sources:     cli.EnvVars("WAGO_SERVER"),
		},
		&cli.StringFlag{
			Name:        "settings",
			Usage:       "Path to the settings file (default: " + settings.DefaultPath() + ")",
			Destination: &c.SettingsPath,
			Sources:     cli.EnvVars("WAGO_SETTINGS"),
		},
	}
}

// Token returns the inline token
func (c *Credential) Token() model.Token {
	return model.Token(c.AuthToken)
}

// Lookup loads the credential store. The default settings file may be absent; an explicitly
// given one must exist.
func (c *Credential) Lookup() (interfaces.ServerLookup, error) {
	path, optional := c.SettingsPath, false
	if path == "" {
		path, optional = settings.DefaultPath(), true
	}

	s, err := settings.Load(path, optional)
	if err != nil {
		return nil, err
	}
	return s, nil
}
