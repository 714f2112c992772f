package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go"
)

func TestInitTracerDisabled(t *testing.T) {
	tracer, closer, err := InitTracer(Config{})
	if err != nil {
		t.Fatalf("InitTracer returned error: %v", err)
	}
	if _, ok := tracer.(opentracing.NoopTracer); !ok {
		t.Fatalf("expected noop tracer, got %T", tracer)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestRunIDRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "abc")
	if RunID(ctx) != "abc" {
		t.Fatalf("expected run id abc, got %q", RunID(ctx))
	}
	if RunID(context.Background()) != "" {
		t.Fatalf("expected empty run id")
	}

	span, spanCtx := StartSpan(ctx, "test")
	defer span.Finish()
	if opentracing.SpanFromContext(spanCtx) == nil {
		t.Fatalf("expected span in context")
	}
	Fail(span, errors.New("boom"))
	Fail(span, nil)
}
