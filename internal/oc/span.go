// Package oc wraps go.opencensus.io/trace with the conventions used in this
// repository: a fixed default sampler, span status derived from the returned
// error, and an exporter that writes finished spans to logrus.
package oc

import (
	"context"

	"go.opencensus.io/trace"
)

var DefaultSampler = trace.AlwaysSample()

// StartSpan wraps trace.StartSpan, but explicitly sets the sampler to
// DefaultSampler, overriding the sampling of the parent span.
func StartSpan(ctx context.Context, name string, o ...trace.StartOption) (context.Context, *trace.Span) {
	o = append(o, trace.WithSampler(DefaultSampler))
	return trace.StartSpan(ctx, name, o...)
}

// SetSpanStatus sets the span status depending on err. A nil err is
// trace.StatusCodeOK.
func SetSpanStatus(span *trace.Span, err error) {
	status := trace.Status{}
	if err != nil {
		status.Code = trace.StatusCodeUnknown
		status.Message = err.Error()
	}
	span.SetStatus(status)
}

var WithClientSpanKind = trace.WithSpanKind(trace.SpanKindClient)

func spanKindToString(sk int) string {
	switch sk {
	case trace.SpanKindClient:
		return "client"
	case trace.SpanKindServer:
		return "server"
	default:
		return ""
	}
}
