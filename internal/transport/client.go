// Package transport provides the HTTP client used to download the source
// datasets.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http   *http.Client
	auth   Authenticator
	source string
}

// New creates a new transport client with the specified authenticator.
// source names the remote host in errors and logs.
func New(source string, auth Authenticator) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:   &http.Client{Timeout: DefaultHTTPTimeout},
		auth:   auth,
		source: source,
	}
}

// WithTimeout returns a copy of the client whose requests time out after d.
// A zero duration disables the client-side timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	clone := *c
	clone.http = &http.Client{Timeout: d, Transport: c.http.Transport}
	return &clone
}

// WithHTTPClient returns a copy of the client using hc for requests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	clone := *c
	clone.http = hc
	return &clone
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.auth.Apply(req)
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		switch req.Context().Err() {
		case context.DeadlineExceeded:
			limit := ""
			if c.http.Timeout > 0 {
				limit = c.http.Timeout.String()
			}
			return nil, errors.NewTimeoutError(req.Method+" "+req.URL.String(), limit, err.Error())
		case context.Canceled:
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, errors.ErrCanceled)
		}
		return nil, errors.WrapAPI(c.source, 0, err)
	}
	return resp, nil
}

// Get performs a GET request and fails on a non-2xx status.
// The caller closes the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if err := checkResponse(c.source, url, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Download streams url into dst. The file is written under a temporary name
// and renamed into place, so an interrupted download leaves no partial file.
func (c *Client) Download(ctx context.Context, url, dst string) (int64, error) {
	logger := logging.FromContext(ctx)

	resp, err := c.Get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn().Err(cerr).Str("url", url).Msg("Failed to close response body")
		}
	}()

	if err := os.MkdirAll(filepath.Dir(dst), constants.DirPermissions); err != nil {
		return 0, errors.WrapIO("create", filepath.Dir(dst), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return 0, errors.WrapIO("create", dst, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		return n, errors.WrapIO("write", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return n, errors.WrapIO("close", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return n, errors.WrapIO("rename", dst, err)
	}

	logger.Debug().
		Str("source", c.source).
		Str("path", dst).
		Int64("bytes", n).
		Msg("Downloaded file")
	return n, nil
}
