package gcguard

import (
	"context"
	"log/slog"
	"runtime/debug"
)

// FailurePolicy decides what an AccountingProtector does when Unprotect finds
// an object with no recorded protections.
type FailurePolicy interface {
	// Name names the protector flavor the policy produces, for messages.
	Name() string

	// NotProtected handles the condition. The returned error, possibly nil, is
	// what Unprotect returns.
	NotProtected(obj any, err *NotProtectedError) error
}

// RaisingPolicy returns the error to the caller.
type RaisingPolicy struct{}

// Name returns "RaisingProtector".
func (RaisingPolicy) Name() string { return "RaisingProtector" }

// NotProtected returns err.
func (RaisingPolicy) NotProtected(_ any, err *NotProtectedError) error {
	return err
}

// LoggingPolicy logs the condition and swallows it, so Unprotect succeeds
// from the caller's point of view.
type LoggingPolicy struct {
	// Logger receives the diagnostic. Nil means slog.Default().
	Logger *slog.Logger

	// StackTraces attaches the current goroutine's stack to the diagnostic.
	StackTraces bool
}

// NewLogging creates an AccountingProtector that logs unbalanced Unprotect
// calls with a stack trace instead of returning an error.
func NewLogging(logger *slog.Logger) *AccountingProtector {
	return NewAccounting(LoggingPolicy{Logger: logger, StackTraces: true})
}

// Name returns "LoggingProtector".
func (LoggingPolicy) Name() string { return "LoggingProtector" }

// NotProtected logs err and returns nil.
func (lp LoggingPolicy) NotProtected(_ any, err *NotProtectedError) error {
	lp.report(err)
	return nil
}

func (lp LoggingPolicy) report(err *NotProtectedError) {
	// A broken handler must not fail the Unprotect call.
	defer func() { _ = recover() }()

	logger := lp.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []slog.Attr{
		slog.String("protector", err.Protector),
		slog.String("object_type", err.ObjectType),
	}
	if lp.StackTraces {
		attrs = append(attrs, slog.String("stack", string(debug.Stack())))
	}
	logger.LogAttrs(context.Background(), slog.LevelError, err.Error(), attrs...)
}
