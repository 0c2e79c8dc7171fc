package httpw

import (
	"context"
	"net/http"

	"github.com/joshnies/bygg/lib/httpvalidation"
)

// Send a GET request to the specified URL.
//
// @param ctx - Request context
//
// @param client - HTTP client; nil uses http.DefaultClient
//
// @param url - URL to send the request to
//
// Returns the response if its status is 2xx, otherwise the error described by the server.
func Get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	// Build request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Send request
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	// Validate response
	if err = httpvalidation.ValidateResponse(res); err != nil {
		res.Body.Close()
		return nil, err
	}

	return res, nil
}
