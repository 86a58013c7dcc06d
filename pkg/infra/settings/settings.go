package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/ragedunicorn/wago-release/pkg/domain/interfaces"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
	"github.com/ragedunicorn/wago-release/pkg/domain/types"
)

// Settings is the credential store. It is read from a TOML file:
//
//	[[servers]]
//	id = "wago"
//	token = "..."
type Settings struct {
	Servers []model.Server `toml:"servers"`
}

var _ interfaces.ServerLookup = (*Settings)(nil)

// DefaultPath returns the settings file location under the user config directory
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, types.AppName, "settings.toml")
}

// Load reads the settings file at path. When optional is true a missing file yields an empty
// store instead of an error.
func Load(path string, optional bool) (*Settings, error) {
	if path == "" {
		return &Settings{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read settings file",
			goerr.T(model.ErrTagIO),
			goerr.V("path", path),
		)
	}

	return Parse(raw, path)
}

// Parse decodes settings from raw TOML
func Parse(raw []byte, source string) (*Settings, error) {
	var s Settings
	if err := toml.Unmarshal(raw, &s); err != nil {
		return nil, goerr.Wrap(err, "failed to parse settings file",
			goerr.T(model.ErrTagConfiguration),
			goerr.V("path", source),
		)
	}

	seen := make(map[string]struct{}, len(s.Servers))
	for _, server := range s.Servers {
		if server.ID == "" {
			return nil, goerr.New("server entry without id",
				goerr.T(model.ErrTagConfiguration),
				goerr.V("path", source),
			)
		}
		if _, ok := seen[server.ID]; ok {
			return nil, goerr.New("duplicated server entry",
				goerr.T(model.ErrTagConfiguration),
				goerr.V("path", source),
				goerr.V("id", server.ID),
			)
		}
		seen[server.ID] = struct{}{}
	}

	return &s, nil
}

// LookupServer returns the server entry with the given id
func (s *Settings) LookupServer(name string) (*model.Server, bool) {
	for i := range s.Servers {
		if s.Servers[i].ID == name {
			server := s.Servers[i]
			return &server, true
		}
	}
	return nil, false
}
