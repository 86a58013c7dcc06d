package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ragedunicorn/wago-release/pkg/domain/interfaces"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
)

// ResolveToken picks the API token. A named server entry of the credential store takes
// precedence over the inline token; an unknown server name falls back to the inline token.
func ResolveToken(ctx context.Context, serverRef string, inlineToken model.Token, lookup interfaces.ServerLookup) (model.Token, error) {
	logger := ctxlog.From(ctx)

	if serverRef != "" && lookup != nil {
		server, found := lookup.LookupServer(serverRef)
		if found {
			if server.Token == "" {
				return "", goerr.New("found server entry but its token is missing or empty",
					goerr.T(model.ErrTagCredential),
					goerr.V("server", serverRef),
				)
			}
			logger.Debug("Using token of server entry", "server", serverRef)
			return server.Token, nil
		}

		logger.Warn("Unable to find server entry, falling back to inline token", "server", serverRef)
	}

	if inlineToken == "" {
		return "", goerr.New("unable to read authentication configuration, set auth token or server",
			goerr.T(model.ErrTagCredential),
			goerr.V("server", serverRef),
		)
	}

	return inlineToken, nil
}
