package oc

import (
	"time"

	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// LogrusExporter is an OpenCensus trace.Exporter that writes trace.SpanData
// to logrus output.
type LogrusExporter struct{}

var _ = (trace.Exporter)(&LogrusExporter{})

// ExportSpan writes the span attributes, trace/span/parent IDs, and timing to
// a single logrus entry. Spans are logged at InfoLevel, unless the span
// status is non-zero, in which case they are logged at ErrorLevel with the
// status message as the error value.
func (le *LogrusExporter) ExportSpan(s *trace.SpanData) {
	entry := logrus.WithFields(logrus.Fields(s.Attributes))
	fs := logrus.Fields{
		"traceID":      s.TraceID.String(),
		"spanID":       s.SpanID.String(),
		"parentSpanID": s.ParentSpanID.String(),
		"startTime":    s.StartTime.Format(time.RFC3339Nano),
		"duration":     s.EndTime.Sub(s.StartTime).String(),
		"name":         s.Name,
	}
	if s.Status.Code != 0 {
		fs[logrus.ErrorKey] = s.Status.Message
	}
	if sk := spanKindToString(s.SpanKind); sk != "" {
		fs["spanKind"] = sk
	}
	entry = entry.WithFields(fs)
	entry.Time = s.StartTime

	level := logrus.InfoLevel
	if s.Status.Code != 0 {
		level = logrus.ErrorLevel
	}
	entry.Log(level, "Span")
}
