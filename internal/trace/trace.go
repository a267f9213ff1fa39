// Package trace wires opt-in Datadog tracing around a generation run.
package trace

import (
	"context"
	"os"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// MaybeStart starts the tracer if GEMBUILD_TRACE=1 is set in the
// environment, returning whether it did. Callers that get true must
// call Stop before exiting.
func MaybeStart(serviceVersion string) bool {
	if os.Getenv("GEMBUILD_TRACE") != "1" {
		return false
	}

	tracer.Start(
		tracer.WithService("gembuild"),
		tracer.WithServiceVersion(serviceVersion),
	)
	return true
}

// Span starts a top-level span with the given name.
func Span(name string) ddtrace.Span {
	span, _ := tracer.StartSpanFromContext(context.Background(), name)
	return span
}

// Stop flushes and stops the tracer.
func Stop() {
	tracer.Stop()
}
