package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	opshttp "github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTokenManager for testing.
type MockTokenManager struct {
	token string
	err   error
	calls atomic.Int32
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	m.calls.Add(1)

	return m.token, m.err
}

func (m *MockTokenManager) RefreshToken(ctx context.Context) error {
	return nil
}

func (m *MockTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

// Entries returns the log lines with the given message.
func (l *MockLogger) Entries(msg string) []map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []map[string]interface{}

	for _, entry := range l.logs {
		if entry["msg"] == msg {
			entries = append(entries, entry)
		}
	}

	return entries
}

// Len returns the number of log lines.
func (l *MockLogger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.logs)
}

func noRetries() opshttp.Option {
	return opshttp.WithRetryPolicy(opshttp.RetryPolicy{})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v7/tests", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "opsapi-go", request.Header.Get("User-Agent"))

			response := map[string]interface{}{"testId": 42, "name": "homepage"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "test-token"}
		client := opshttp.NewClient(server.URL, tokenManager)

		req := &opshttp.Request{
			Method: "GET",
			Path:   "/v7/tests",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "OK", resp.Status)
		assert.Same(t, req, resp.Request)

		var result map[string]interface{}

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.InDelta(t, 42, result["testId"], 0)
		assert.Equal(t, "homepage", result["name"])
	})

	t.Run("request with ordered repeated query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v7/tests", request.URL.Path)
			assert.Equal(t, "tags=web&tags=api&page=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := opshttp.NewClient(server.URL, nil)

		req := &opshttp.Request{
			Method: "GET",
			Path:   "/v7/tests",
			Query:  opsapi.NewQueryParams().Add("tags", "web").Add("tags", "api").AddInt("page", 2),
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "homepage", body["name"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := opshttp.NewClient(server.URL, nil)

		req := &opshttp.Request{
			Method: "POST",
			Path:   "/v7/tests",
			Body:   map[string]string{"name": "homepage"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("raw body is sent verbatim", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			data, _ := io.ReadAll(request.Body)
			assert.Equal(t, `[{"summary":"printer on fire"}]`, string(data))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := opshttp.NewClient(server.URL, nil)

		_, err := client.Post(context.Background(), "/api/Tickets", []byte(`[{"summary":"printer on fire"}]`))
		require.NoError(t, err)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"message":"ticket not found","error":"not_found"}`))
		}))
		defer server.Close()

		client := opshttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/api/Tickets/42", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, 404, resp.StatusCode)
		assert.JSONEq(t, `{"message":"ticket not found","error":"not_found"}`, string(resp.Body))

		apiErr := opsapi.AsAPIError(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, opsapi.KindNotFound, apiErr.Kind)
		assert.Equal(t, "not_found", apiErr.ErrorCode)
		assert.Equal(t, "Tickets", apiErr.ResourceType)
		assert.Equal(t, "42", apiErr.ResourceID)
		assert.Equal(t, "GET", apiErr.RequestMethod)
		assert.Equal(t, server.URL+"/api/Tickets/42", apiErr.RequestURL)
		assert.True(t, opsapi.IsNotFound(err))
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := opshttp.NewClient(server.URL, nil)

		req := &opshttp.Request{
			Method: "GET",
			Path:   "/v7/tests",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := opshttp.NewClient(server.URL, nil, opshttp.WithLogger(logger), opshttp.WithDebug(true), noRetries())

		req := &opshttp.Request{
			Method: "GET",
			Path:   "/v7/tests",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)

		requests := logger.Entries("HTTP Request")
		responses := logger.Entries("HTTP Response")
		require.Len(t, requests, 1)
		require.Len(t, responses, 1)
		assert.Equal(t, "info", requests[0]["level"])
		assert.Equal(t, "info", responses[0]["level"])

		requestFields, _ := requests[0]["fields"].(map[string]interface{})
		responseFields, _ := responses[0]["fields"].(map[string]interface{})
		assert.Len(t, requestFields["correlation_id"], 8)
		assert.Equal(t, requestFields["correlation_id"], responseFields["correlation_id"])
		assert.Equal(t, 200, responseFields["status"])
	})

	t.Run("empty method is rejected", func(t *testing.T) {
		t.Parallel()

		client := opshttp.NewClient("http://127.0.0.1:1", nil)

		_, err := client.Do(context.Background(), &opshttp.Request{Path: "/v7/tests"})
		require.Error(t, err)
	})

	t.Run("redirects are not followed", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			http.Redirect(writer, request, "/elsewhere", http.StatusFound)
		}))
		defer server.Close()

		client := opshttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/v7/tests", nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)

		apiErr := opsapi.AsAPIError(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, opsapi.KindGeneric, apiErr.Kind)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*opshttp.Client, context.Context) (*opshttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *opshttp.Client, ctx context.Context) (*opshttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *opshttp.Client, ctx context.Context) (*opshttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *opshttp.Client, ctx context.Context) (*opshttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *opshttp.Client, ctx context.Context) (*opshttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *opshttp.Client, ctx context.Context) (*opshttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := opshttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := opshttp.NewClient(server.URL, nil, opshttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := opshttp.NewClient(server.URL, nil, opshttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := opshttp.NewClient(server.URL, nil, opshttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load()) // Should not retry
	})

	t.Run("exhausted retries classify the last response", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			n := attempts.Add(1)
			writer.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{"message": "maintenance", "attempt": n})
		}))
		defer server.Close()

		client := opshttp.NewClient(server.URL, nil, opshttp.WithRetryConfig(2, time.Millisecond, 5*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, int32(3), attempts.Load())
		assert.Equal(t, 503, resp.StatusCode)

		apiErr := opsapi.AsAPIError(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, opsapi.KindServerError, apiErr.Kind)
		assert.Equal(t, "Server error: maintenance", apiErr.Message)
		assert.Equal(t, int64(3), apiErr.Details["attempt"])
	})
}

func TestClient_RequestTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		select {
		case <-release:
		case <-request.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := opshttp.NewClient(server.URL, nil, noRetries(), opshttp.WithTimeout(50*time.Millisecond))

	start := time.Now()
	resp, err := client.Get(context.Background(), "/slow", nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, opsapi.AsAPIError(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}
