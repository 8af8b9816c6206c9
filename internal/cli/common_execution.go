package cli

import (
	"context"
	"time"

	"github.com/edupredict/edupredict/internal/logging"
)

// auditContext holds common context for audit logging within a mutating command.
type auditContext struct {
	logger  logging.AuditLogger
	traceID string
	params  map[string]string
	start   time.Time
	command string
}

// newAuditContext creates a new audit context.
func newAuditContext(ctx context.Context, command string, params map[string]string) *auditContext {
	return &auditContext{
		logger:  logging.AuditLoggerFromContext(ctx),
		traceID: logging.TraceIDFromContext(ctx),
		params:  params,
		start:   time.Now(),
		command: command,
	}
}

// logFailure logs an audit entry for a failed operation.
func (a *auditContext) logFailure(ctx context.Context, err error) {
	entry := logging.NewAuditEntry(a.command, a.traceID).
		WithParameters(a.params).
		WithError(err.Error()).
		WithDuration(a.start)
	a.logger.Log(ctx, *entry)
}

// logSuccess logs an audit entry for a successful operation.
func (a *auditContext) logSuccess(ctx context.Context, count int) {
	entry := logging.NewAuditEntry(a.command, a.traceID).
		WithParameters(a.params).
		WithSuccess(count).
		WithDuration(a.start)
	a.logger.Log(ctx, *entry)
}

// finish records err or success and returns err unchanged.
func (a *auditContext) finish(ctx context.Context, count int, err error) error {
	if err != nil {
		a.logFailure(ctx, err)
		return err
	}
	a.logSuccess(ctx, count)
	return nil
}
