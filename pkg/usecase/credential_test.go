package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
	"github.com/ragedunicorn/wago-release/pkg/usecase"
)

// MockServerLookup is a map backed credential store
type MockServerLookup struct {
	servers map[string]model.Token
	calls   []string
}

func (m *MockServerLookup) LookupServer(name string) (*model.Server, bool) {
	m.calls = append(m.calls, name)
	token, ok := m.servers[name]
	if !ok {
		return nil, false
	}
	return &model.Server{ID: name, Token: token}, true
}

func TestResolveToken(t *testing.T) {
	lookup := &MockServerLookup{servers: map[string]model.Token{
		"wago":  "server-token",
		"empty": "",
	}}

	tests := []struct {
		name      string
		serverRef string
		inline    model.Token
		want      model.Token
		wantErr   bool
	}{
		{name: "named server wins over inline", serverRef: "wago", inline: "inline-token", want: "server-token"},
		{name: "named server without inline", serverRef: "wago", want: "server-token"},
		{name: "unknown server falls back to inline", serverRef: "unknown", inline: "inline-token", want: "inline-token"},
		{name: "inline only", inline: "inline-token", want: "inline-token"},
		{name: "server with empty token", serverRef: "empty", inline: "inline-token", wantErr: true},
		{name: "unknown server without inline", serverRef: "unknown", wantErr: true},
		{name: "nothing configured", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := usecase.ResolveToken(context.Background(), tt.serverRef, tt.inline, lookup)
			if tt.wantErr {
				gt.Error(t, err)
				gt.True(t, goerr.HasTag(err, model.ErrTagCredential))
				return
			}
			gt.NoError(t, err)
			gt.Value(t, token).Equal(tt.want)
		})
	}
}

func TestResolveToken_WithoutLookup(t *testing.T) {
	token, err := usecase.ResolveToken(context.Background(), "wago", "inline-token", nil)
	gt.NoError(t, err)
	gt.Value(t, token).Equal(model.Token("inline-token"))
}
