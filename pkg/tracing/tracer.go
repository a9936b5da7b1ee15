// Copyright 2025 The c2pa-go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracing wraps the driver's sign and read operations in spans.
// The default build uses a no-op tracer; building with -tags=otel exports
// spans over OTLP/HTTP when InitFromEnv is called.
package tracing

import (
	"context"
	"sync/atomic"
)

// Span is one timed operation.
type Span interface {
	SetAttribute(key string, value interface{})
	// RecordError marks the span as failed. A nil err is ignored.
	RecordError(err error)
	End()
}

// Tracer starts spans.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}

type holder struct{ t Tracer }

var global atomic.Pointer[holder]

func init() {
	global.Store(&holder{t: NoopTracer{}})
}

// SetTracer installs t as the global tracer. nil restores the no-op tracer.
func SetTracer(t Tracer) {
	if t == nil {
		t = NoopTracer{}
	}
	global.Store(&holder{t: t})
}

// GetTracer returns the global tracer, never nil.
func GetTracer() Tracer {
	return global.Load().t
}

// Start starts a span on the global tracer.
func Start(ctx context.Context, name string) (context.Context, Span) {
	return GetTracer().Start(ctx, name)
}

// Enabled reports whether a tracer other than the no-op one is installed.
func Enabled() bool {
	_, noop := GetTracer().(NoopTracer)
	return !noop
}

// Run calls fn inside a span named name carrying attrs. The error returned by
// fn is recorded on the span and returned unchanged. Without a tracer fn is
// called directly.
func Run(ctx context.Context, name string, attrs map[string]interface{}, fn func(context.Context) error) error {
	t := GetTracer()
	if _, noop := t.(NoopTracer); noop {
		return fn(ctx)
	}
	ctx, span := t.Start(ctx, name)
	defer span.End()
	for k, v := range attrs {
		span.SetAttribute(k, v)
	}
	err := fn(ctx)
	span.RecordError(err)
	return err
}

// NoopSpan discards everything.
type NoopSpan struct{}

func (NoopSpan) SetAttribute(string, interface{}) {}
func (NoopSpan) RecordError(error)                {}
func (NoopSpan) End()                             {}

// NoopTracer returns NoopSpans.
type NoopTracer struct{}

func (NoopTracer) Start(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, NoopSpan{}
}
