package httpvalidation

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func response(status int, contentType string, body string) *http.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name string
		res  *http.Response
		want string
	}{
		{"ok", response(http.StatusOK, "application/zip", "PK"), ""},
		{"plain text message", response(http.StatusNotFound, "text/plain; charset=utf-8", "Project not found\n"), "Project not found"},
		{"not found without body", response(http.StatusNotFound, "", ""), "resource not found"},
		{"bad request", response(http.StatusBadRequest, "application/json", "{}"), "bad request"},
		{"other status", response(http.StatusBadGateway, "", ""), "received http status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResponse(tt.res)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.want {
				t.Fatalf("got %v, want %q", err, tt.want)
			}
		})
	}
}
