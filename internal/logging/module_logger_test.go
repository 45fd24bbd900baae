package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerWithoutProviderIsNoOp(t *testing.T) {
	logger := ModuleLogger(nil, headerModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger, got %T", logger)
	}
	logger.WithContext(context.Background()).WithFields(map[string]any{"k": "v"}).Info("noop")
}

func TestModuleLoggerNamespaces(t *testing.T) {
	cases := []struct {
		name   string
		build  func(interfaces.LoggerProvider) interfaces.Logger
		module string
	}{
		{"header", HeaderLogger, headerModule},
		{"navigation", NavigationLogger, navigationModule},
		{"http", HTTPLogger, httpModule},
		{"commands", CommandsLogger, commandsModule},
		{"root", func(p interfaces.LoggerProvider) interfaces.Logger { return ModuleLogger(p, "") }, rootModule},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recordingLogger{}
			provider := &stubProvider{logger: rec}

			tc.build(provider)

			if len(provider.requested) != 1 || provider.requested[0] != tc.module {
				t.Fatalf("expected module %s, got %v", tc.module, provider.requested)
			}
			if len(rec.fields) != 1 || rec.fields[0]["module"] != tc.module {
				t.Fatalf("expected module field %s, got %v", tc.module, rec.fields)
			}
		})
	}
}

func TestWithObjectSkipsBlankValues(t *testing.T) {
	rec := &recordingLogger{}
	WithObject(rec, "post", "  ")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if rec.fields[0][fieldObjectKind] != "post" {
		t.Fatalf("expected object kind, got %v", rec.fields[0])
	}
	if _, ok := rec.fields[0][fieldObjectID]; ok {
		t.Fatalf("expected blank id to be skipped, got %v", rec.fields[0])
	}

	rec = &recordingLogger{}
	WithMenuSource(rec, "", "")
	if len(rec.fields) != 0 {
		t.Fatalf("expected no fields for blank menu source, got %v", rec.fields)
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"path": "/nav"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "a" || fields["path"] != "/nav" {
		t.Fatalf("expected merged fields, got %v", fields)
	}

	fields["request_id"] = "mutated"
	if ContextFields(ctx)["request_id"] != "a" {
		t.Fatal("expected ContextFields to return a copy")
	}

	rec := &recordingLogger{}
	FromContext(ctx, rec)
	if len(rec.fields) != 1 || len(rec.contexts) != 1 {
		t.Fatalf("expected fields and context to be applied, got %v / %d", rec.fields, len(rec.contexts))
	}
}
