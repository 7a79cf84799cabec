package backend

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/semanticallynull/campusride/internal/session"
)

// authRoundTripper adds the session's bearer token to requests that do not
// already carry an Authorization header.
type authRoundTripper struct {
	session *session.Session
	next    http.RoundTripper
}

func (a *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") == "" && a.session.Authenticated() {
		req = req.Clone(req.Context())
		a.session.Authorize(req)
	}
	return a.next.RoundTrip(req)
}

type instrumentedTransport struct {
	next       http.RoundTripper
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator

	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newInstrumentedTransport(next http.RoundTripper, reg prometheus.Registerer) *instrumentedTransport {
	t := &instrumentedTransport{
		next:       next,
		tracer:     otel.Tracer("campusride/backend"),
		propagator: otel.GetTextMapPropagator(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campusride_client_requests_total",
				Help: "Requests sent to the campus backend.",
			},
			[]string{"method", "status"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campusride_client_request_errors_total",
				Help: "Requests to the campus backend that failed.",
			},
			[]string{"method", "error_type"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campusride_client_request_duration_seconds",
				Help:    "Round-trip time of requests to the campus backend.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	if reg != nil {
		reg.MustRegister(t.requests, t.errors, t.duration)
	}
	return t
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	ctx, span := t.tracer.Start(req.Context(), req.Method+" "+req.URL.Path,
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req = req.Clone(ctx)
	req.Header.Set("X-Request-ID", uuid.NewString())
	t.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.String()),
	)

	resp, err := t.next.RoundTrip(req)
	t.duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		t.requests.WithLabelValues(req.Method, "error").Inc()
		t.errors.WithLabelValues(req.Method, "transport").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	status := strconv.Itoa(resp.StatusCode)
	t.requests.WithLabelValues(req.Method, status).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	switch {
	case resp.StatusCode >= 500:
		t.errors.WithLabelValues(req.Method, "server").Inc()
		span.SetStatus(codes.Error, resp.Status)
	case resp.StatusCode >= 400:
		t.errors.WithLabelValues(req.Method, "client").Inc()
	}
	return resp, nil
}
