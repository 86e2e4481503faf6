package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// newRecorder 安装内存中的TracerProvider,测试结束后恢复
func newRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

// TestStartSpan 父子Span共享TraceID
func TestStartSpan(t *testing.T) {
	recorder := newRecorder(t)

	ctx, parent := StartSpan(context.Background(), "purchase", "Purchase")
	_, child := StartSpan(ctx, "purchase", "DecrementStock")
	child.SetAttributes(attribute.Int("book_id", 1))
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "DecrementStock", spans[0].Name())
	assert.Equal(t, "Purchase", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

// TestEndSpan 错误写入Span状态
func TestEndSpan(t *testing.T) {
	recorder := newRecorder(t)

	_, ok := StartSpan(context.Background(), "purchase", "FindBook")
	EndSpan(ok, nil)
	_, failed := StartSpan(context.Background(), "purchase", "AppendLedger")
	EndSpan(failed, errors.New("写入失败"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "写入失败", spans[1].Status().Description)
	assert.NotEmpty(t, spans[1].Events(), "RecordError应产生exception事件")
}

// TestExtractTraceID 有/无Span时的TraceID
func TestExtractTraceID(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))

	newRecorder(t)
	ctx, span := StartSpan(context.Background(), "purchase", "Purchase")
	defer span.End()

	assert.Len(t, ExtractTraceID(ctx), 32)
	assert.Len(t, ExtractSpanID(ctx), 16)
	assert.Equal(t, span.SpanContext().TraceID().String(), ExtractTraceID(ctx))
}
