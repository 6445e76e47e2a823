package remote

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

// Response is a normalized 2xx remote response.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	// JSON is set when Body is a JSON document.
	JSON      bool
	RequestID string
	// URL is the request URL; credentials are never part of it.
	URL string
}

// Object decodes the body when it is a JSON object.
func (r *Response) Object() (map[string]any, bool) {
	if !r.JSON {
		return nil, false
	}
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

var (
	noContentBody = []byte(`{"status":"success","message":"Operation completed successfully"}`)
	acceptedBody  = []byte(`{"status":"accepted","message":"Request accepted"}`)
)

func normalize(status int, contentType string, body []byte) *Response {
	switch status {
	case http.StatusNoContent:
		return &Response{Status: status, ContentType: ContentTypeJSON, Body: noContentBody, JSON: true}
	case http.StatusAccepted:
		return &Response{Status: status, ContentType: ContentTypeJSON, Body: acceptedBody, JSON: true}
	}

	mediaType := ""
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = mt
		}
	}

	resp := &Response{Status: status, ContentType: mediaType, Body: body}
	switch {
	case isJSONMediaType(mediaType):
		resp.JSON = json.Valid(body)
	case mediaType == "" || mediaType == ContentTypeText:
		if len(bytes.TrimSpace(body)) > 0 && json.Valid(body) {
			resp.JSON = true
			resp.ContentType = ContentTypeJSON
		}
	}
	if resp.ContentType == "" {
		resp.ContentType = ContentTypeText
	}
	return resp
}

// isJSONMediaType matches application/json and +json suffixes such as
// application/ld+json.
func isJSONMediaType(mt string) bool {
	return mt == ContentTypeJSON || strings.HasSuffix(mt, "+json")
}
