// Package telemetry reports driver-internal failures (plan errors, job
// launch failures, panics inside the executor) to Sentry when configured.
// It is a no-op unless SWIFT_DRIVER_SENTRY_DSN is set, so the driver never
// depends on network access to run.
package telemetry

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

// Init initializes the Sentry SDK with the given driver version. If
// SWIFT_DRIVER_SENTRY_DSN is not set, telemetry is disabled and Init
// returns a no-op cleanup function.
func Init(version string) func() {
	dsn := os.Getenv("SWIFT_DRIVER_SENTRY_DSN")
	if dsn == "" {
		return func() {}
	}

	env := os.Getenv("SWIFT_DRIVER_ENVIRONMENT")
	if env == "" {
		env = "production"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          "swift-driver@" + version,
		Environment:      env,
		AttachStacktrace: true,
		SampleRate:       1.0,
	})
	if err != nil {
		return func() {}
	}

	return func() {
		sentry.Flush(flushTimeout)
	}
}

// CaptureError reports a driver-internal error (PlanError, ExecutionError
// class failures). Safe to call even when telemetry is disabled.
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// RecoverAndPanic recovers from a panic inside a worker goroutine, reports
// it, then re-panics so the process still terminates with a crash.
func RecoverAndPanic() {
	if r := recover(); r != nil {
		sentry.CurrentHub().Recover(r)
		sentry.Flush(flushTimeout)
		panic(r)
	}
}

// AddBreadcrumb records a planning/execution milestone for crash context.
func AddBreadcrumb(category, message string) {
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category: category,
		Message:  message,
		Level:    sentry.LevelInfo,
	})
}

// SetTag attaches a searchable tag (e.g. "mode"="swiftc", "target"=triple).
func SetTag(key, value string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag(key, value)
	})
}
