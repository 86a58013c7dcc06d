package usecase

import (
	"context"
	"os"
	"unicode/utf8"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
)

// ResolveChangelog returns the changelog text. A changelog file overrides the inline text.
func ResolveChangelog(ctx context.Context, inline, path string) (string, error) {
	if path != "" {
		ctxlog.From(ctx).Debug("Reading changelog", "path", path)

		raw, err := os.ReadFile(path)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read release notes",
				goerr.T(model.ErrTagIO),
				goerr.V("path", path),
			)
		}
		if !utf8.Valid(raw) {
			return "", goerr.New("release notes are not valid UTF-8",
				goerr.T(model.ErrTagIO),
				goerr.V("path", path),
			)
		}
		return string(raw), nil
	}

	return inline, nil
}

// BuildMetadata creates the release metadata of input. input must have passed Validate.
func BuildMetadata(ctx context.Context, input model.ReleaseInput) (model.ReleaseMetadata, error) {
	logger := ctxlog.From(ctx)

	changelog, err := ResolveChangelog(ctx, input.Changelog, input.ChangelogFile)
	if err != nil {
		return model.ReleaseMetadata{}, err
	}

	if !input.Stability.IsKnown() {
		logger.Warn("Unknown stability, expected one of stable, beta, alpha",
			"stability", input.Stability,
		)
	}

	return model.ReleaseMetadata{
		Label:                 input.Label,
		Stability:             input.Stability,
		Changelog:             changelog,
		SupportedRetailPatch:  input.SupportedRetailPatch,
		SupportedBccPatch:     input.SupportedBccPatch,
		SupportedClassicPatch: input.SupportedClassicPatch,
	}, nil
}
