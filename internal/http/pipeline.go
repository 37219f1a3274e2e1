package http

import (
	"net/http"

	"github.com/fivetwenty-io/opsapi/internal/auth"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/prometheus/client_golang/prometheus"
)

// Stage wraps the next hop of the pipeline. A stage sees only the hop it wraps.
type Stage func(next http.RoundTripper) http.RoundTripper

// Stage names reported by Pipeline.Stages, innermost first.
const (
	StageTransport = "transport"
	StageAuth      = "auth"
	StageRetry     = "retry"
	StageLogging   = "logging"
	StageClassify  = "classify"
)

// PipelineConfig is fixed when the pipeline is built.
type PipelineConfig struct {
	Transport       http.RoundTripper
	TokenManager    auth.TokenManager
	Retry           RetryPolicy
	RequestLogging  bool
	ResponseLogging bool
	Logger          opsapi.Logger
	// MetricsRegisterer enables per-attempt transport metrics when set.
	MetricsRegisterer prometheus.Registerer
}

// Pipeline is the composed chain. It holds no per-call state and is safe for
// concurrent use.
type Pipeline struct {
	next   http.RoundTripper
	stages []string
	logger opsapi.Logger
}

// Chain wraps transport with stages, the first stage innermost.
func Chain(transport http.RoundTripper, stages ...Stage) http.RoundTripper {
	for _, stage := range stages {
		transport = stage(transport)
	}

	return transport
}

// NewPipeline assembles transport, auth, retry (only when retries are
// allowed), logging (only when enabled) and classification, innermost first.
func NewPipeline(config PipelineConfig) *Pipeline {
	logger := config.Logger
	logging := config.RequestLogging || config.ResponseLogging

	switch {
	case !logging:
		logger = opsapi.NopLogger
	case logger == nil:
		logger = opsapi.DefaultLogger()
	}

	transport := NewTransport(config.Transport)
	if config.MetricsRegisterer != nil {
		transport = newTransportMetrics(config.MetricsRegisterer).instrument(transport)
	}

	names := []string{StageTransport, StageAuth}
	stages := []Stage{AuthStage(config.TokenManager, logger)}

	if config.Retry.MaxAttempts > 0 {
		var retryLogger opsapi.Logger
		if logging {
			retryLogger = logger
		}

		stages = append(stages, RetryStage(config.Retry, retryLogger))
		names = append(names, StageRetry)
	}

	if logging {
		stages = append(stages, LoggingStage(logger, config.RequestLogging, config.ResponseLogging))
		names = append(names, StageLogging)
	}

	return &Pipeline{
		next:   Chain(transport, stages...),
		stages: append(names, StageClassify),
		logger: logger,
	}
}

// Logger returns the logger the stages write to.
func (p *Pipeline) Logger() opsapi.Logger {
	return p.logger
}

// Send runs req through the chain. A non-2xx response is returned together
// with its *opsapi.APIError; transport failures are returned as they arrived.
func (p *Pipeline) Send(req *http.Request) (*http.Response, error) {
	resp, err := p.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	apiErr := Classify(resp)
	if apiErr != nil {
		return resp, apiErr
	}

	return resp, nil
}

// Stages lists the assembled stages, innermost first.
func (p *Pipeline) Stages() []string {
	return append([]string(nil), p.stages...)
}
