// Package tracing wraps refreshable fetches in OpenTracing spans.
package tracing

import (
	"context"
	"fmt"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"

	"github.com/softwaretechnik-berlin/refreshable"
	"github.com/softwaretechnik-berlin/refreshable/remote"
)

var (
	successEvent = log.String("event", "success")
	failureEvent = log.String("event", "failure")
	panicEvent   = log.String("event", "panic")
)

// Fetch wraps fetch so that every invocation is recorded as a span named operation, a child of any span in the
// fetch context. A nil tracer means opentracing.GlobalTracer().
//
// A failed fetch tags its span as an error. A panicking fetch does too, and then panics again with the same
// reason.
func Fetch[E, A any](tracer opentracing.Tracer, operation string, fetch refreshable.Fetch[E, A]) refreshable.Fetch[E, A] {
	return func(ctx context.Context) (result remote.Either[E, A]) {
		t := tracer
		if t == nil {
			t = opentracing.GlobalTracer()
		}
		span, ctx := opentracing.StartSpanFromContextWithTracer(ctx, t, operation)
		defer span.Finish()

		defer func() {
			if reason := recover(); reason != nil {
				ext.Error.Set(span, true)
				span.LogFields(panicEvent, log.String("reason", fmt.Sprint(reason)))
				panic(reason)
			}
		}()

		result = fetch(ctx)
		logOutcome(span, result)
		return result
	}
}

func logOutcome[E, A any](span opentracing.Span, result remote.Either[E, A]) {
	left, _, isRight := result.Unwrap()
	if isRight {
		span.LogFields(successEvent)
		return
	}
	ext.Error.Set(span, true)
	span.LogFields(failureEvent, log.String("message", fmt.Sprint(left)))
}
