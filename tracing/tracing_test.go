package tracing

import (
	"context"
	"testing"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwaretechnik-berlin/refreshable"
	"github.com/softwaretechnik-berlin/refreshable/remote"
)

func TestFetchSuccess(t *testing.T) {
	t.Parallel()

	tracer := mocktracer.New()
	fetch := Fetch(tracer, "load", func(ctx context.Context) remote.Either[string, int] {
		assert.NotNil(t, opentracing.SpanFromContext(ctx), "the fetch runs inside the span")
		return remote.Right[string](1)
	})

	assert.Equal(t, remote.Right[string](1), fetch(context.Background()))

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "load", spans[0].OperationName)
	assert.Nil(t, spans[0].Tag("error"))
	require.Len(t, spans[0].Logs(), 1)
	assert.Equal(t, "success", spans[0].Logs()[0].Fields[0].ValueString)
}

func TestFetchFailure(t *testing.T) {
	t.Parallel()

	tracer := mocktracer.New()
	fetch := Fetch(tracer, "load", func(context.Context) remote.Either[string, int] {
		return remote.Left[string, int]("down")
	})

	assert.Equal(t, remote.Left[string, int]("down"), fetch(context.Background()))

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, true, spans[0].Tag("error"))
	fields := spans[0].Logs()[0].Fields
	assert.Equal(t, "failure", fields[0].ValueString)
	assert.Equal(t, "down", fields[1].ValueString)
}

func TestFetchChildOfContextSpan(t *testing.T) {
	t.Parallel()

	tracer := mocktracer.New()
	parent := tracer.StartSpan("parent")
	ctx := opentracing.ContextWithSpan(context.Background(), parent)

	fetch := Fetch(tracer, "load", func(context.Context) remote.Either[string, int] {
		return remote.Right[string](1)
	})
	fetch(ctx)
	parent.Finish()

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, parent.(*mocktracer.MockSpan).SpanContext.SpanID, spans[0].ParentID)
}

func TestFetchPanicIsRecordedAndRecoveredByRefreshRequest(t *testing.T) {
	t.Parallel()

	tracer := mocktracer.New()
	fetch := Fetch(tracer, "load", func(context.Context) remote.Either[string, string] {
		panic("FAIL")
	})

	_, eventual := refreshable.RefreshRequest(context.Background(),
		refreshable.FromRemoteData(remote.Initial[string, string]()), fetch)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	final, err := eventual.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, refreshable.FromRemoteData(remote.Failure[string, string]("FAIL")), final)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, true, spans[0].Tag("error"))
	fields := spans[0].Logs()[0].Fields
	assert.Equal(t, "panic", fields[0].ValueString)
	assert.Equal(t, "FAIL", fields[1].ValueString)
}
