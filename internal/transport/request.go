package transport

import (
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/reelmap/pkg/errors"
)

const userAgent = "reelmap/1.0"

// maxErrorBody bounds how much of an error response is kept in the message.
const maxErrorBody = 512

// checkResponse converts a non-2xx response into an *errors.APIError.
// The body is consumed and closed on failure.
func checkResponse(source, url string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &errors.APIError{
		Source:     source,
		StatusCode: resp.StatusCode,
		Message:    message,
		Endpoint:   url,
	}
}
