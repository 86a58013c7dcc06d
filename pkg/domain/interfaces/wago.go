package interfaces

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ragedunicorn/wago-release/pkg/domain/model"
)

// HTTPClient is the transport used to talk to the Wago API
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ReleaseUploader uploads an artifact together with its release metadata
type ReleaseUploader interface {
	Upload(ctx context.Context, metadata model.ReleaseMetadata, artifactPath string) error
}

// ReleaseClientFactory resolves the upload endpoint of a project and creates uploaders bound to it
type ReleaseClientFactory interface {
	ResolveEndpoint(projectID string) (*url.URL, error)
	NewUploader(endpoint *url.URL, token model.Token) (ReleaseUploader, error)
}

// ServerLookup resolves a named server entry of the credential store. The second return value
// is false when no entry with that name exists.
type ServerLookup interface {
	LookupServer(name string) (*model.Server, bool)
}

// Notifier announces a published release
type Notifier interface {
	NotifyRelease(ctx context.Context, projectID string, metadata model.ReleaseMetadata) error
}
