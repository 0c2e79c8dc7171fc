package httpw

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/joshnies/bygg/constants"
)

// Write a plain-text response.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", constants.ContentTypeText)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Write a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		WriteText(w, http.StatusInternalServerError, constants.ErrMsgInternal)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n"))
}

// Build a `Content-Disposition: attachment` value for `filename`.
//
// The quoted `filename` parameter is always present. Names that aren't plain ASCII also get
// an RFC 5987 `filename*` parameter so browsers keep characters like "æøå".
func ContentDisposition(filename string) string {
	v := fmt.Sprintf("attachment; filename=%q", asciiFallback(filename))
	if !isPlainASCII(filename) {
		v += "; filename*=UTF-8''" + url.PathEscape(filename)
	}
	return v
}

// Filename from a `Content-Disposition` header value. The `filename*` parameter wins when both
// are present. Returns "" if there is no usable name.
func AttachmentFilename(contentDisposition string) string {
	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return ""
	}

	// mime folds filename* into filename
	name := strings.TrimSpace(params["filename"])
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return ""
	}
	return name
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] >= utf8.RuneSelf || s[i] == '"' || s[i] == '\\' {
			return false
		}
	}
	return true
}

// Replace characters that can't appear in a quoted header parameter.
func asciiFallback(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('_')
		case r < 0x20 || r >= utf8.RuneSelf:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
