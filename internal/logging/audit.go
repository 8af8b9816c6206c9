package logging

import (
	"context"
	"io"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AuditEntry records one state-changing command against the backend.
type AuditEntry struct {
	Timestamp  time.Time
	TraceID    string
	Command    string
	Parameters map[string]string
	Success    bool
	Count      int
	Error      string
	Duration   time.Duration
}

// NewAuditEntry starts an entry for command.
func NewAuditEntry(command, traceID string) *AuditEntry {
	return &AuditEntry{
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Command:   command,
	}
}

// WithParameters records the command parameters. Values are copied.
func (e *AuditEntry) WithParameters(params map[string]string) *AuditEntry {
	e.Parameters = maps.Clone(params)
	return e
}

// WithSuccess marks the entry successful with the number of affected records.
func (e *AuditEntry) WithSuccess(count int) *AuditEntry {
	e.Success = true
	e.Count = count
	e.Error = ""
	return e
}

// WithError marks the entry failed.
func (e *AuditEntry) WithError(msg string) *AuditEntry {
	e.Success = false
	e.Error = msg
	return e
}

// WithDuration sets the elapsed time since start.
func (e *AuditEntry) WithDuration(start time.Time) *AuditEntry {
	e.Duration = time.Since(start)
	return e
}

// AuditLogger writes audit entries.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditEntry)
	Close() error
}

// AuditLoggerConfig configures NewAuditLogger.
type AuditLoggerConfig struct {
	Enabled bool
	File    string
	// Writer overrides File when set.
	Writer io.Writer
}

type nopAuditLogger struct{}

func (nopAuditLogger) Log(context.Context, AuditEntry) {}

func (nopAuditLogger) Close() error {
	return nil
}

type fileAuditLogger struct {
	mu     sync.Mutex
	logger zerolog.Logger
	closer io.Closer
}

// NewAuditLogger returns a JSON-lines audit logger, or a no-op logger when
// auditing is disabled or the file cannot be opened.
func NewAuditLogger(cfg AuditLoggerConfig) AuditLogger {
	if !cfg.Enabled {
		return nopAuditLogger{}
	}

	w := cfg.Writer
	var closer io.Closer
	if w == nil {
		if cfg.File == "" {
			return nopAuditLogger{}
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
			return nopAuditLogger{}
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nopAuditLogger{}
		}
		w, closer = f, f
	}

	return &fileAuditLogger{
		logger: zerolog.New(w).With().Str("log_type", "audit").Logger(),
		closer: closer,
	}
}

func (l *fileAuditLogger) Log(_ context.Context, entry AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ev := l.logger.Log().
		Time("timestamp", entry.Timestamp).
		Str(TraceIDField, entry.TraceID).
		Str("command", entry.Command).
		Bool("success", entry.Success).
		Dur("duration", entry.Duration)
	if len(entry.Parameters) > 0 {
		params := zerolog.Dict()
		for k, v := range entry.Parameters {
			params.Str(k, v)
		}
		ev = ev.Dict("parameters", params)
	}
	if entry.Success {
		ev = ev.Int("count", entry.Count)
	} else if entry.Error != "" {
		ev = ev.Str("error", entry.Error)
	}
	ev.Send()
}

func (l *fileAuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

type auditLoggerKey struct{}

// ContextWithAuditLogger stores an audit logger in ctx.
func ContextWithAuditLogger(ctx context.Context, l AuditLogger) context.Context {
	return context.WithValue(ctx, auditLoggerKey{}, l)
}

// AuditLoggerFromContext returns the audit logger in ctx or a no-op logger.
func AuditLoggerFromContext(ctx context.Context) AuditLogger {
	if ctx == nil {
		return nopAuditLogger{}
	}
	if l, ok := ctx.Value(auditLoggerKey{}).(AuditLogger); ok && l != nil {
		return l
	}
	return nopAuditLogger{}
}
