package wago

import (
	"net/url"

	"github.com/ragedunicorn/wago-release/pkg/domain/interfaces"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
)

// Factory creates Clients for the projects of one endpoint template
type Factory struct {
	template string
	opts     []Option
}

var _ interfaces.ReleaseClientFactory = (*Factory)(nil)

// NewFactory creates a Factory for template. opts are applied to every Client it creates.
func NewFactory(template string, opts ...Option) *Factory {
	return &Factory{
		template: template,
		opts:     opts,
	}
}

// ResolveEndpoint substitutes projectID into the template of the factory
func (f *Factory) ResolveEndpoint(projectID string) (*url.URL, error) {
	return ResolveEndpoint(f.template, projectID)
}

// NewUploader creates a Client for endpoint
func (f *Factory) NewUploader(endpoint *url.URL, token model.Token) (interfaces.ReleaseUploader, error) {
	client, err := NewClient(endpoint, token, f.opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}
