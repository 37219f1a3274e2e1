package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(req).
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// NewTransport returns the innermost hop: transport, or a pooled transport
// when nil, with every response body read into memory before it is returned.
func NewTransport(transport http.RoundTripper) http.RoundTripper {
	if transport == nil {
		transport = cleanhttp.DefaultPooledTransport()
	}

	return &bufferingTransport{next: transport}
}

// bufferingTransport reads the body so later stages can inspect it more than once.
type bufferingTransport struct {
	next http.RoundTripper
}

func (t *bufferingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		resp.Body = http.NoBody

		return resp, nil
	}

	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp.Body = io.NopCloser(bytes.NewReader(data))
	resp.ContentLength = int64(len(data))

	return resp, nil
}
