package wago

import (
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
)

const (
	// DefaultEndpoint is the upload endpoint of the Wago addons API
	DefaultEndpoint = "https://addons.wago.io/api/projects/:projectId/upload-file"

	projectIDPlaceholder = ":projectId"
)

// ResolveEndpoint substitutes projectID into template and parses the result
func ResolveEndpoint(template, projectID string) (*url.URL, error) {
	if template == "" || projectID == "" {
		return nil, goerr.New("endpoint template and project id are required",
			goerr.T(model.ErrTagConfiguration),
			goerr.V("template", template),
			goerr.V("project_id", projectID),
		)
	}

	if !strings.Contains(template, projectIDPlaceholder) {
		return nil, goerr.New("endpoint template has no "+projectIDPlaceholder+" placeholder",
			goerr.T(model.ErrTagConfiguration),
			goerr.V("template", template),
		)
	}

	raw := strings.Replace(template, projectIDPlaceholder, projectID, 1)

	u, err := url.Parse(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare endpoint URI",
			goerr.T(model.ErrTagURIFormat),
			goerr.V("uri", raw),
		)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, goerr.New("endpoint URI must be absolute",
			goerr.T(model.ErrTagURIFormat),
			goerr.V("uri", raw),
		)
	}

	return u, nil
}
