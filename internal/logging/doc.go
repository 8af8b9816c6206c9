// Package logging provides zerolog setup, trace IDs and the audit log used by
// the edupredict CLI.
//
// Loggers travel on the context: FromContext returns the logger attached with
// zerolog's WithContext, or a disabled logger when none is set. Events logged
// with .Ctx(ctx) pick up the trace ID stored by ContextWithTraceID.
package logging
