// Copyright © 2024 The StrataRegula authors

package lsp

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "strataregula-lsp"

// tracer returns the server tracer from the global provider, so embedders
// that install a provider after New still receive spans.
func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(tracerName)
}
