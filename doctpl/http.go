package doctpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lvillar/immodoc"
)

// maxTemplateSize bounds the body accepted from a remote template server.
const maxTemplateSize = 1 << 20

// HTTPStore fetches templates from a static file server such as the public
// directory of the web front end.
type HTTPStore struct {
	base   string
	client *http.Client
}

// NewHTTPStore creates a store that resolves names against baseURL.
// A nil client uses a client with a 10 second timeout.
func NewHTTPStore(baseURL string, client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPStore{base: strings.TrimRight(baseURL, "/"), client: client}
}

// Fetch implements Store. Any non-2xx status is reported as a missing template.
func (s *HTTPStore) Fetch(ctx context.Context, name string) (string, error) {
	if !validName(name) {
		return "", &immodoc.TemplateNotFoundError{Name: name, Err: fmt.Errorf("invalid template name")}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/"+url.PathEscape(name), nil)
	if err != nil {
		return "", &immodoc.TemplateNotFoundError{Name: name, Err: err}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", &immodoc.TemplateNotFoundError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &immodoc.TemplateNotFoundError{Name: name, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateSize+1))
	if err != nil {
		return "", &immodoc.TemplateNotFoundError{Name: name, Err: err}
	}
	if len(data) > maxTemplateSize {
		return "", &immodoc.TemplateNotFoundError{Name: name, Err: fmt.Errorf("template exceeds %d bytes", maxTemplateSize)}
	}
	return string(data), nil
}
