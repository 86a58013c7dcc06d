package wago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ragedunicorn/wago-release/pkg/domain/interfaces"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
	"github.com/ragedunicorn/wago-release/pkg/domain/types"
)

const (
	// DefaultTimeout bounds one upload including redirects
	DefaultTimeout = 5 * time.Minute

	maxRedirects = 10
)

// Client uploads releases to a single, already resolved Wago endpoint
type Client struct {
	endpoint   *url.URL
	token      model.Token
	userAgent  string
	timeout    time.Duration
	httpClient interfaces.HTTPClient
}

var _ interfaces.ReleaseUploader = (*Client)(nil)

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient replaces the default transport
func WithHTTPClient(httpClient interfaces.HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout of the default transport
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a Client for endpoint authenticated with token
func NewClient(endpoint *url.URL, token model.Token, opts ...Option) (*Client, error) {
	if endpoint == nil || endpoint.String() == "" || token == "" {
		return nil, goerr.New("wago client is in invalid state, token and endpoint are required",
			goerr.T(model.ErrTagConfiguration),
			goerr.V("has_endpoint", endpoint != nil && endpoint.String() != ""),
			goerr.V("has_token", token != ""),
		)
	}

	target := *endpoint
	c := &Client{
		endpoint:  &target,
		token:     token,
		userAgent: types.AppName + "/" + types.Version,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient(c.timeout)
	}

	return c, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport:     cleanhttp.DefaultTransport(),
		Timeout:       timeout,
		CheckRedirect: followRedirect,
	}
}

// followRedirect follows every redirect, including ones to another host or from https to http,
// and sends the headers of the original request to each hop.
func followRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return goerr.New("stopped after too many redirects", goerr.V("redirects", len(via)))
	}

	for key, values := range via[0].Header {
		if _, ok := req.Header[key]; !ok {
			req.Header[key] = values
		}
	}
	return nil
}

// Upload sends metadata and the artifact at artifactPath as one multipart request. Only a 201
// response is a success. Metadata without any supported patch is refused before anything is sent.
func (c *Client) Upload(ctx context.Context, metadata model.ReleaseMetadata, artifactPath string) (err error) {
	logger := ctxlog.From(ctx)

	if !metadata.HasSupportedPatch() {
		return model.NewValidationError("supportedPatch",
			"one of supportedRetailPatch, supportedBccPatch or supportedClassicPatch has to be set")
	}

	body, contentType, err := buildMultipart(metadata, artifactPath)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), body)
	if err != nil {
		return goerr.Wrap(err, "failed to create upload request",
			goerr.T(model.ErrTagURIFormat),
			goerr.V("endpoint", c.endpoint.String()),
		)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+string(c.token))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)

	logger.Debug("Uploading release",
		"endpoint", c.endpoint.Path,
		"label", metadata.Label,
		"size_bytes", req.ContentLength,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "upload to Wago failed",
			goerr.T(model.ErrTagTransport),
			goerr.V("endpoint", c.endpoint.String()),
		)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			if err == nil {
				err = goerr.Wrap(cerr, "failed to close http response", goerr.T(model.ErrTagIO))
			} else {
				logger.Warn("Failed to close http response", "error", cerr)
			}
		}
		if closer, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
			closer.CloseIdleConnections()
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read http response",
			goerr.T(model.ErrTagIO),
			goerr.V("status", resp.StatusCode),
		)
	}

	if resp.StatusCode != http.StatusCreated {
		return c.publishError(ctx, resp.StatusCode, respBody)
	}

	logger.Info("Upload successful", "status", resp.StatusCode)
	logger.Debug("Upload response", "body", string(respBody))

	return nil
}

func (c *Client) publishError(ctx context.Context, status int, body []byte) error {
	logger := ctxlog.From(ctx)

	pubErr := &model.PublishError{
		StatusCode: status,
		Body:       string(body),
	}

	var apiErrors model.APIErrors
	if err := json.Unmarshal(body, &apiErrors); err != nil {
		logger.Warn("Failed to decode error response", "error", err, "status", status)
	} else {
		pubErr.Errors = &apiErrors
	}

	logger.Error("Wago rejected the release", "status", status, "reason", pubErr.Error())

	return goerr.Wrap(pubErr, "failed to create release",
		goerr.T(model.ErrTagPublish),
		goerr.V("status", status),
		goerr.V("endpoint", c.endpoint.String()),
	)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildMultipart builds the two part body: "metadata" (JSON text) and "file" (artifact bytes).
func buildMultipart(metadata model.ReleaseMetadata, artifactPath string) (*bytes.Buffer, string, error) {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to encode release metadata")
	}

	artifact, err := os.Open(artifactPath)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to open artifact",
			goerr.T(model.ErrTagIO),
			goerr.V("path", artifactPath),
		)
	}
	defer artifact.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("metadata", string(metadataJSON)); err != nil {
		return nil, "", goerr.Wrap(err, "failed to write metadata part", goerr.T(model.ErrTagIO))
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(metadata.Label)))
	h.Set("Content-Type", "application/octet-stream")

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to create file part", goerr.T(model.ErrTagIO))
	}
	if _, err := io.Copy(part, artifact); err != nil {
		return nil, "", goerr.Wrap(err, "failed to read artifact",
			goerr.T(model.ErrTagIO),
			goerr.V("path", artifactPath),
		)
	}

	if err := w.Close(); err != nil {
		return nil, "", goerr.Wrap(err, "failed to finish multipart body", goerr.T(model.ErrTagIO))
	}

	return &buf, w.FormDataContentType(), nil
}
