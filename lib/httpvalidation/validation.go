package httpvalidation

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Largest error body read from a failed response.
const maxErrorBody = 4096

// Validate HTTP response.
//
// @param res - HTTP response
//
// Returns nil for 2xx responses. Otherwise returns an error carrying the server's plain-text
// message when it sent one, or a generic message for the status.
func ValidateResponse(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	// Prefer the server's own message
	if strings.HasPrefix(res.Header.Get("Content-Type"), "text/plain") {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return errors.New(msg)
		}
	}

	// Check response status
	switch res.StatusCode {
	case http.StatusUnauthorized:
		return errors.New("unauthorized")
	case http.StatusNotFound:
		return errors.New("resource not found")
	case http.StatusRequestTimeout:
		return errors.New("request timed out")
	case http.StatusBadRequest:
		return errors.New("bad request")
	}

	// Handle all other bad response status codes
	return fmt.Errorf("received http status %d", res.StatusCode)
}
