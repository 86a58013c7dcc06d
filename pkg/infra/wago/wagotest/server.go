// Package wagotest provides an in-process fake of the Wago upload endpoint for tests.
package wagotest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Part is one part of a received multipart body
type Part struct {
	Name        string
	FileName    string
	ContentType string
	Data        []byte
}

// Upload is a request received by the fake server
type Upload struct {
	ProjectID string
	Header    http.Header
	Parts     []Part
}

// Part returns the part with the given form name
func (u *Upload) Part(name string) (Part, bool) {
	for _, p := range u.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}

// Metadata decodes the "metadata" part
func (u *Upload) Metadata() (map[string]string, error) {
	p, ok := u.Part("metadata")
	if !ok {
		return nil, nil
	}
	var out map[string]string
	if err := json.Unmarshal(p.Data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type config struct {
	token  string
	status int
	body   string
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithToken makes the server reject requests without "Bearer <token>"
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithResponse makes the server answer every upload with status and body
func WithResponse(status int, body string) Option {
	return func(c *config) {
		c.status = status
		c.body = body
	}
}

// Server is a fake Wago API. Uploads are accepted at /api/projects/{projectID}/upload-file;
// /legacy/projects/{projectID}/upload-file answers with a 307 redirect to it.
type Server struct {
	*httptest.Server

	cfg     config
	mu      sync.Mutex
	uploads []Upload
}

// NewServer starts a fake server that is closed when the test ends
func NewServer(tb testing.TB, opts ...Option) *Server {
	tb.Helper()

	cfg := config{status: http.StatusCreated}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{cfg: cfg}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(loggingMiddleware(tb))
	router.Use(middleware.Recoverer)

	router.Post("/api/projects/{projectID}/upload-file", s.handleUpload)
	router.Post("/legacy/projects/{projectID}/upload-file", func(w http.ResponseWriter, r *http.Request) {
		target := "/api/projects/" + chi.URLParam(r, "projectID") + "/upload-file"
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	})

	s.Server = httptest.NewServer(router)
	tb.Cleanup(s.Close)

	return s
}

// Endpoint returns the upload endpoint template of the server
func (s *Server) Endpoint() string {
	return s.URL + "/api/projects/:projectId/upload-file"
}

// LegacyEndpoint returns an endpoint template that is redirected to Endpoint
func (s *Server) LegacyEndpoint() string {
	return s.URL + "/legacy/projects/:projectId/upload-file"
}

// Uploads returns the requests received so far
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.cfg.token != "" && r.Header.Get("Authorization") != "Bearer "+s.cfg.token {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Unauthenticated."}`)
		return
	}

	upload := Upload{
		ProjectID: chi.URLParam(r, "projectID"),
		Header:    r.Header.Clone(),
	}

	reader, err := r.MultipartReader()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, `{"metadata":["request must be multipart/form-data"]}`)
		return
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			writeJSON(w, http.StatusBadRequest, `{"file":["malformed multipart body"]}`)
			return
		}

		data, err := io.ReadAll(part)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, `{"file":["failed to read part"]}`)
			return
		}

		upload.Parts = append(upload.Parts, Part{
			Name:        part.FormName(),
			FileName:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, upload)
	s.mu.Unlock()

	body := s.cfg.body
	if body == "" && s.cfg.status == http.StatusCreated {
		body = `{"id":"` + uuid.NewString() + `"}`
	}
	writeJSON(w, s.cfg.status, body)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.Copy(w, strings.NewReader(body))
}

func loggingMiddleware(tb testing.TB) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				tb.Logf("fake wago: %s %s status=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
