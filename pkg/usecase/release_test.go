package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/ragedunicorn/wago-release/pkg/domain/interfaces"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
	"github.com/ragedunicorn/wago-release/pkg/infra/wago"
	"github.com/ragedunicorn/wago-release/pkg/infra/wago/wagotest"
	"github.com/ragedunicorn/wago-release/pkg/usecase"
)

// MockNotifier records notifications
type MockNotifier struct {
	notifyFunc func(ctx context.Context, projectID string, metadata model.ReleaseMetadata) error
	calls      []model.ReleaseMetadata
}

func (m *MockNotifier) NotifyRelease(ctx context.Context, projectID string, metadata model.ReleaseMetadata) error {
	m.calls = append(m.calls, metadata)
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, projectID, metadata)
	}
	return nil
}

// MockUploader records uploads without network
type MockUploader struct {
	uploadFunc func(ctx context.Context, metadata model.ReleaseMetadata, artifactPath string) error
	calls      int
}

func (m *MockUploader) Upload(ctx context.Context, metadata model.ReleaseMetadata, artifactPath string) error {
	m.calls++
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, metadata, artifactPath)
	}
	return nil
}

// MockClientFactory resolves endpoints like wago.Factory and hands out one uploader
type MockClientFactory struct {
	template  string
	uploader  *MockUploader
	endpoints []*url.URL
	tokens    []model.Token
}

func (m *MockClientFactory) ResolveEndpoint(projectID string) (*url.URL, error) {
	template := m.template
	if template == "" {
		template = wago.DefaultEndpoint
	}
	return wago.ResolveEndpoint(template, projectID)
}

func (m *MockClientFactory) NewUploader(endpoint *url.URL, token model.Token) (interfaces.ReleaseUploader, error) {
	m.endpoints = append(m.endpoints, endpoint)
	m.tokens = append(m.tokens, token)
	return m.uploader, nil
}

func validInput(t *testing.T) model.ReleaseInput {
	t.Helper()
	return model.ReleaseInput{
		ProjectID:            "111111",
		Label:                "addon",
		Stability:            model.StabilityStable,
		Changelog:            "- first release",
		SupportedRetailPatch: "10.2.0",
		File:                 writeFile(t, "addon.zip", []byte("zip content")),
		AuthToken:            "inline-token",
	}
}

func TestReleaseUseCase_Publish_Created(t *testing.T) {
	srv := wagotest.NewServer(t, wagotest.WithToken("inline-token"))
	notifier := &MockNotifier{}

	uc := usecase.NewRelease(wago.NewFactory(srv.Endpoint()),
		usecase.WithNotifier(notifier),
	)

	gt.NoError(t, uc.Publish(context.Background(), validInput(t)))

	uploads := srv.Uploads()
	gt.Number(t, len(uploads)).Equal(1)
	gt.String(t, uploads[0].ProjectID).Equal("111111")

	metadata, err := uploads[0].Metadata()
	gt.NoError(t, err)
	gt.String(t, metadata["changelog"]).Equal("- first release")
	gt.String(t, metadata["supported_retail_patch"]).Equal("10.2.0")

	gt.Number(t, len(notifier.calls)).Equal(1)
	gt.String(t, notifier.calls[0].Label).Equal("addon")
}

func TestReleaseUseCase_Publish_Rejected(t *testing.T) {
	srv := wagotest.NewServer(t,
		wagotest.WithResponse(http.StatusBadRequest, `{"stability":["must be one of stable, beta, alpha"]}`),
	)
	notifier := &MockNotifier{}

	uc := usecase.NewRelease(wago.NewFactory(srv.Endpoint()),
		usecase.WithNotifier(notifier),
	)

	input := validInput(t)
	input.Stability = "gold"

	err := uc.Publish(context.Background(), input)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, model.ErrTagPublish))

	var pubErr *model.PublishError
	gt.True(t, errors.As(err, &pubErr))
	gt.Value(t, pubErr.Errors.Stability).Equal([]string{"must be one of stable, beta, alpha"})
	gt.Number(t, len(notifier.calls)).Equal(0)
}

func TestReleaseUseCase_Publish_NamedServer(t *testing.T) {
	srv := wagotest.NewServer(t, wagotest.WithToken("server-token"))
	lookup := &MockServerLookup{servers: map[string]model.Token{"wago": "server-token"}}

	uc := usecase.NewRelease(wago.NewFactory(srv.Endpoint()),
		usecase.WithServerLookup(lookup),
	)

	input := validInput(t)
	input.Server = "wago"

	gt.NoError(t, uc.Publish(context.Background(), input))
	gt.Value(t, lookup.calls).Equal([]string{"wago"})
	gt.String(t, srv.Uploads()[0].Header.Get("Authorization")).Equal("Bearer server-token")
}

func TestReleaseUseCase_Publish_FailsBeforeUpload(t *testing.T) {
	tests := []struct {
		name   string
		modify func(input *model.ReleaseInput)
		check  func(err error) bool
	}{
		{
			name:   "missing supported patch",
			modify: func(input *model.ReleaseInput) { input.SupportedRetailPatch = "" },
			check:  func(err error) bool { return goerr.HasTag(err, model.ErrTagValidation) },
		},
		{
			name:   "missing artifact",
			modify: func(input *model.ReleaseInput) { input.File = filepath.Join(filepath.Dir(input.File), "missing.zip") },
			check:  func(err error) bool { return goerr.HasTag(err, model.ErrTagValidation) },
		},
		{
			name:   "missing token",
			modify: func(input *model.ReleaseInput) { input.AuthToken = "" },
			check:  func(err error) bool { return goerr.HasTag(err, model.ErrTagCredential) },
		},
		{
			name:   "unreadable changelog file",
			modify: func(input *model.ReleaseInput) { input.ChangelogFile = filepath.Join(filepath.Dir(input.File), "missing.md") },
			check:  func(err error) bool { return goerr.HasTag(err, model.ErrTagIO) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := &MockUploader{}
			uc := usecase.NewRelease(&MockClientFactory{uploader: uploader})

			input := validInput(t)
			tt.modify(&input)

			err := uc.Publish(context.Background(), input)
			gt.Error(t, err)
			gt.True(t, tt.check(err))
			gt.Number(t, uploader.calls).Equal(0)
		})
	}
}

func TestReleaseUseCase_Publish_InvalidEndpoint(t *testing.T) {
	uploader := &MockUploader{}
	factory := &MockClientFactory{template: "https://addons.wago.io/api/projects", uploader: uploader}
	uc := usecase.NewRelease(factory)

	err := uc.Publish(context.Background(), validInput(t))
	gt.True(t, goerr.HasTag(err, model.ErrTagConfiguration))
	gt.Number(t, uploader.calls).Equal(0)
	gt.Number(t, len(factory.endpoints)).Equal(0)
}

func TestReleaseUseCase_Publish_NotificationFailureIsNotFatal(t *testing.T) {
	uploader := &MockUploader{}
	notifier := &MockNotifier{
		notifyFunc: func(ctx context.Context, projectID string, metadata model.ReleaseMetadata) error {
			return errors.New("slack is down")
		},
	}

	factory := &MockClientFactory{uploader: uploader}
	uc := usecase.NewRelease(factory, usecase.WithNotifier(notifier))

	gt.NoError(t, uc.Publish(context.Background(), validInput(t)))
	gt.Number(t, uploader.calls).Equal(1)
	gt.Number(t, len(notifier.calls)).Equal(1)
	gt.Number(t, len(factory.endpoints)).Equal(1)
	gt.String(t, factory.endpoints[0].String()).Equal("https://addons.wago.io/api/projects/111111/upload-file")
	gt.Value(t, factory.tokens).Equal([]model.Token{"inline-token"})
}
