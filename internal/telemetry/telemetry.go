// Package telemetry forwards swallowed failures to Sentry.
package telemetry

import (
	"fmt"
	"time"

	sentry "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavecast/internal/playback"
)

const flushTimeout = 2 * time.Second

// Options configures the Sentry client.
type Options struct {
	DSN         string
	Environment string
	Release     string
}

// Init initialises the global Sentry client. The returned function flushes
// pending events and must be called on exit.
func Init(opts Options) (func(), error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, fmt.Errorf("sentry init: %w", err)
	}
	return func() { sentry.Flush(flushTimeout) }, nil
}

// Reporter captures coordinator errors and error-level log entries.
type Reporter struct {
	hub *sentry.Hub
}

// NewReporter creates a reporter bound to hub, or to the current hub if nil.
func NewReporter(hub *sentry.Hub) *Reporter {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &Reporter{hub: hub}
}

// ReportPlayback captures a swallowed playback failure.
// It matches playback.ErrorReporter.
func (r *Reporter) ReportPlayback(ev playback.ErrorEvent) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("op", ev.Op)
		if ev.TrackID != "" {
			scope.SetTag("track", ev.TrackID)
		}
		scope.SetLevel(sentry.LevelWarning)
		r.hub.CaptureException(ev)
	})
}

// Levels implements logrus.Hook.
func (r *Reporter) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel}
}

// Fire implements logrus.Hook.
func (r *Reporter) Fire(entry *log.Entry) error {
	r.hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range entry.Data {
			if k == log.ErrorKey {
				continue
			}
			scope.SetTag(k, fmt.Sprint(v))
		}
		scope.SetLevel(sentryLevel(entry.Level))
		if err, ok := entry.Data[log.ErrorKey].(error); ok {
			scope.SetExtra("message", entry.Message)
			r.hub.CaptureException(err)
			return
		}
		r.hub.CaptureMessage(entry.Message)
	})
	return nil
}

func sentryLevel(l log.Level) sentry.Level {
	switch l {
	case log.PanicLevel, log.FatalLevel:
		return sentry.LevelFatal
	case log.ErrorLevel:
		return sentry.LevelError
	case log.WarnLevel:
		return sentry.LevelWarning
	case log.InfoLevel:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}

// GinMiddleware returns the Sentry middleware for the remote control server.
func GinMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}
