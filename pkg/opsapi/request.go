package opsapi

import (
	"context"
	"net/http"
)

// Request represents one logical API operation.
type Request struct {
	Method string
	// Path is appended to the client's API endpoint.
	Path  string
	Query *QueryParams
	// Headers are sent in addition to Accept, Content-Type and User-Agent.
	Headers map[string]string
	// Body is sent verbatim when it is []byte or string and JSON-encoded otherwise.
	Body interface{}
}

// Response represents a completed HTTP exchange with its body fully read.
type Response struct {
	StatusCode int
	// Status is the reason phrase, e.g. "Not Found".
	Status  string
	Headers http.Header
	Body    []byte
	// Request is the logical request that produced this response.
	Request *Request
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Doer sends a logical request through the client's pipeline. On a non-2xx
// status the buffered response is returned together with an *APIError.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}
