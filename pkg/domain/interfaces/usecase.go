package interfaces

import (
	"context"

	"github.com/ragedunicorn/wago-release/pkg/domain/model"
)

// ReleaseUseCase defines the publish operation
type ReleaseUseCase interface {
	// Publish validates input, resolves credentials and endpoint and uploads the artifact
	Publish(ctx context.Context, input model.ReleaseInput) error
}
