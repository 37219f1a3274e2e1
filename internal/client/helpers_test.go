package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/fivetwenty-io/opsapi/internal/http"
)

// recordedRequest is what the test server saw.
type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type requestRecorder struct {
	mutex    sync.Mutex
	requests []recordedRequest
}

func (r *requestRecorder) record(request *http.Request) {
	body, _ := io.ReadAll(request.Body)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.requests = append(r.requests, recordedRequest{
		Method:   request.Method,
		Path:     request.URL.EscapedPath(),
		RawQuery: request.URL.RawQuery,
		Header:   request.Header.Clone(),
		Body:     body,
	})
}

// Last returns the most recent request, failing the test when there was none.
func (r *requestRecorder) Last(t *testing.T) recordedRequest {
	t.Helper()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	require.NotEmpty(t, r.requests, "no request reached the server")

	return r.requests[len(r.requests)-1]
}

// Count returns the number of requests the server saw.
func (r *requestRecorder) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.requests)
}

// NewTestHTTPClient starts a server answering every request with status and
// body, and returns a client without retries pointed at it.
func NewTestHTTPClient(t *testing.T, status int, body string) (*internalhttp.Client, *requestRecorder) {
	t.Helper()

	recorder := &requestRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		recorder.record(request)

		if body != "" {
			writer.Header().Set("Content-Type", "application/json")
		}

		writer.WriteHeader(status)
		_, _ = io.WriteString(writer, body)
	}))
	t.Cleanup(server.Close)

	return internalhttp.NewClient(server.URL, nil, internalhttp.WithRetryPolicy(internalhttp.RetryPolicy{})), recorder
}

// TestOperation is a table case for a single resource operation.
type TestOperation struct {
	Name           string
	StatusCode     int
	Response       string
	ExpectedMethod string
	ExpectedPath   string
	ExpectedQuery  string
	ExpectedBody   string
	WantErr        bool
	ErrMessage     string
	// Call invokes the operation and returns its result.
	Call func(ctx context.Context, httpClient *internalhttp.Client) (interface{}, error)
	// Check inspects a successful result.
	Check func(t *testing.T, result interface{})
	// CheckErr inspects the returned error.
	CheckErr func(t *testing.T, err error)
}

// RunOperationTests runs a series of resource operation tests.
func RunOperationTests(t *testing.T, tests []TestOperation) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			status := testCase.StatusCode
			if status == 0 {
				status = http.StatusOK
			}

			httpClient, recorder := NewTestHTTPClient(t, status, testCase.Response)

			result, err := testCase.Call(context.Background(), httpClient)

			if testCase.ExpectedPath != "" {
				request := recorder.Last(t)
				assert.Equal(t, testCase.ExpectedMethod, request.Method)
				assert.Equal(t, testCase.ExpectedPath, request.Path)
				assert.Equal(t, testCase.ExpectedQuery, request.RawQuery)

				if testCase.ExpectedBody != "" {
					assert.JSONEq(t, testCase.ExpectedBody, string(request.Body))
				}
			} else {
				assert.Zero(t, recorder.Count(), "request should not have been sent")
			}

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				if testCase.CheckErr != nil {
					testCase.CheckErr(t, err)
				}

				return
			}

			require.NoError(t, err)

			if testCase.Check != nil {
				testCase.Check(t, result)
			}
		})
	}
}
