package domain

import (
	"net/http"
	"net/url"
)

// Request describes an outbound call that is safe to issue twice. Body is
// JSON-encoded for every attempt and must not change between them.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}
