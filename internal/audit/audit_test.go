package audit

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromRequest_ParsesUserAgent(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/sessionLogin", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	e := FromRequest(r, EventSessionIssued, "u1", "")

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventSessionIssued, e.Type)
	assert.Equal(t, "u1", e.Subject)
	assert.Contains(t, e.Browser, "Chrome")
	assert.NotEmpty(t, e.OS)
	assert.False(t, e.Timestamp.IsZero())
}

func TestPublisher_EmitNeverBlocks(t *testing.T) {
	p := NewPublisher(1, discard())

	p.Emit(Event{Type: EventLogout})
	// Buffer is full now; the second emit must drop, not block.
	done := make(chan struct{})
	go func() {
		p.Emit(Event{Type: EventLogout})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}
}

func TestWorker_DrainsUntilCancelled(t *testing.T) {
	p := NewPublisher(4, discard())
	w := NewWorker(p.Inbox(), discard())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	p.Emit(Event{Type: EventSessionIssued, Subject: "u1"})
	p.Emit(Event{Type: EventSessionInvalidated, Subject: "u1", Reason: "expired"})

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on cancellation")
	}
}
