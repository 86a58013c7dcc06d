package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
	"github.com/ragedunicorn/wago-release/pkg/infra/settings"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, `
[[servers]]
id = "wago"
token = "secret-token"

[[servers]]
id = "empty"
token = ""
`)

	s, err := settings.Load(path, false)
	gt.NoError(t, err)

	server, ok := s.LookupServer("wago")
	gt.True(t, ok)
	gt.Value(t, server.Token).Equal(model.Token("secret-token"))

	server, ok = s.LookupServer("empty")
	gt.True(t, ok)
	gt.Value(t, server.Token).Equal(model.Token(""))

	_, ok = s.LookupServer("unknown")
	gt.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	t.Run("optional", func(t *testing.T) {
		s, err := settings.Load(path, true)
		gt.NoError(t, err)
		_, ok := s.LookupServer("wago")
		gt.False(t, ok)
	})

	t.Run("required", func(t *testing.T) {
		_, err := settings.Load(path, false)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagIO))
	})
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed toml", content: `[[servers]`},
		{name: "missing id", content: "[[servers]]\ntoken = \"x\"\n"},
		{name: "duplicated id", content: "[[servers]]\nid = \"a\"\n[[servers]]\nid = \"a\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := settings.Parse([]byte(tt.content), "test")
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, model.ErrTagConfiguration))
		})
	}
}
