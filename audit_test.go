package gsauth

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hexfold/gsauth/httpx"
	"github.com/rs/zerolog"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func buildAuditTestEngine(t *testing.T, transport httpx.RoundTripper, sink AuditSink) *Engine {
	t.Helper()

	cfg := defaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 32
	cfg.Audit.DropIfFull = false

	engine, err := New().
		WithConfig(cfg).
		WithTransport(transport).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", nil, nil, []byte(storeLockedBody)),
	}}
	sink := &countingSink{}

	engine, err := New().WithTransport(st).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	_, _ = engine.SignIn(context.Background(), signInTestRequest())
	time.Sleep(30 * time.Millisecond)

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
}

func TestAuditEnabledSinkReceivesEventWithFields(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", nil, nil, []byte(storeBadCredentialsBody)),
	}}
	sink := NewChannelSink(8)
	engine := buildAuditTestEngine(t, st, sink)

	req := signInTestRequest()
	req.Password = "super-secret-password"
	_, _ = engine.SignIn(context.Background(), req)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sink.Events():
			if ev.EventType != auditEventSignInFailure {
				continue
			}
			if ev.AccountID != "user@example.com" {
				t.Fatalf("expected account id from context, got %q", ev.AccountID)
			}
			if ev.Success {
				t.Fatal("failure event must not report success")
			}
			if strings.Contains(ev.Error, "super-secret-password") {
				t.Fatal("sensitive password leaked in error")
			}
			for _, v := range ev.Metadata {
				if strings.Contains(v, "super-secret-password") {
					t.Fatal("sensitive password leaked in metadata")
				}
			}
			return
		case <-deadline:
			t.Fatal("expected a sign-in failure audit event")
		}
	}
}

func TestAuditBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	start := time.Now()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if dispatcher.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
}

func TestAuditBufferFullDropIfFullFalseBlocksUntilSpace(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: false,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	done := make(chan struct{})
	go func() {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while buffer is full")
	case <-time.After(150 * time.Millisecond):
	}

	sink.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected blocked emit to proceed after space is available")
	}
}

func TestAuditJSONWriterSinkWritesJSONLines(t *testing.T) {
	var buf syncBuffer
	sink := NewJSONWriterSink(&buf)
	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: auditEventSignInSuccess,
		AccountID: "user@example.com",
		SessionID: "sess-1",
		Success:   true,
	}
	sink.Emit(context.Background(), event)

	if !buf.Contains("sign_in_success") {
		t.Fatal("expected JSON log line to contain event type")
	}
	if !buf.Contains("\"account_id\":\"user@example.com\"") {
		t.Fatal("expected JSON log line to contain account id")
	}
}

func TestAuditZerologSinkLevels(t *testing.T) {
	var buf syncBuffer
	logger := zerolog.New(&buf)
	sink := NewZerologSink(logger)

	sink.Emit(context.Background(), AuditEvent{
		EventType: auditEventSignInSuccess,
		AccountID: "user@example.com",
		Success:   true,
	})
	sink.Emit(context.Background(), AuditEvent{
		EventType: auditEventAccountLocked,
		Error:     "account locked by the identity provider",
	})

	if !buf.Contains("\"level\":\"info\"") {
		t.Fatal("expected successful event at info level")
	}
	if !buf.Contains("\"level\":\"warn\"") {
		t.Fatal("expected failed event at warn level")
	}
	if !buf.Contains("account locked by the identity provider") {
		t.Fatal("expected error detail in log output")
	}
}

func TestAuditDispatcherCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
		DropIfFull: true,
	}, &countingSink{})

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Close()
	dispatcher.Close()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) Contains(v string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Contains(string(b.buf), v)
}
