package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/ragedunicorn/wago-release/pkg/domain/interfaces"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
)

type releaseUseCase struct {
	clients  interfaces.ReleaseClientFactory
	lookup   interfaces.ServerLookup
	notifier interfaces.Notifier
}

// Option is a functional option for the release use case
type Option func(*releaseUseCase)

// WithServerLookup sets the credential store used for named servers
func WithServerLookup(lookup interfaces.ServerLookup) Option {
	return func(uc *releaseUseCase) {
		uc.lookup = lookup
	}
}

// WithNotifier sets a notifier called after a successful upload
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *releaseUseCase) {
		uc.notifier = notifier
	}
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(clients interfaces.ReleaseClientFactory, opts ...Option) interfaces.ReleaseUseCase {
	uc := &releaseUseCase{
		clients: clients,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Publish uploads the artifact of input. Nothing is sent unless every parameter, the token, the
// endpoint and the changelog could be resolved.
func (uc *releaseUseCase) Publish(ctx context.Context, input model.ReleaseInput) error {
	logger := ctxlog.From(ctx)

	if err := input.Validate(); err != nil {
		return err
	}

	token, err := ResolveToken(ctx, input.Server, input.AuthToken, uc.lookup)
	if err != nil {
		return err
	}

	endpoint, err := uc.clients.ResolveEndpoint(input.ProjectID)
	if err != nil {
		return err
	}
	logger.Debug("Resolved endpoint", "endpoint", endpoint.Path)

	metadata, err := BuildMetadata(ctx, input)
	if err != nil {
		return err
	}

	uploader, err := uc.clients.NewUploader(endpoint, token)
	if err != nil {
		return err
	}

	logger.Info("Publishing release",
		"project_id", input.ProjectID,
		"label", metadata.Label,
		"stability", metadata.Stability,
		"file", input.File,
	)

	if err := uploader.Upload(ctx, metadata, input.File); err != nil {
		return err
	}

	logger.Info("Release published",
		"project_id", input.ProjectID,
		"label", metadata.Label,
	)

	if uc.notifier != nil {
		if err := uc.notifier.NotifyRelease(ctx, input.ProjectID, metadata); err != nil {
			logger.Warn("Failed to send release notification", "error", err)
		}
	}

	return nil
}
