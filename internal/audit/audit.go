// Package audit captures structured security events for the auth subsystem.
// Events flow through a buffered channel into a background worker so request
// handling never blocks on the sink.
package audit

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mssola/useragent"
)

type EventType string

const (
	EventSessionIssued      EventType = "session_issued"
	EventExchangeRejected   EventType = "exchange_rejected"
	EventSessionInvalidated EventType = "session_invalidated"
	EventLogout             EventType = "logout"
)

// Event is one security-relevant fact. Append-only; never updated.
type Event struct {
	ID        string
	Type      EventType
	Subject   string
	Reason    string
	RequestID string
	ClientIP  string
	Browser   string
	OS        string
	Timestamp time.Time
}

// FromRequest fills the request-derived fields: request id, client IP and
// parsed user-agent facts.
func FromRequest(r *http.Request, eventType EventType, subject, reason string) Event {
	e := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Reason:    reason,
		RequestID: middleware.GetReqID(r.Context()),
		ClientIP:  r.RemoteAddr,
		Timestamp: time.Now(),
	}
	if raw := r.UserAgent(); raw != "" {
		ua := useragent.New(raw)
		name, version := ua.Browser()
		e.Browser = name + " " + version
		e.OS = ua.OS()
	}
	return e
}

// Publisher hands events to the worker. Emit never blocks: when the buffer
// is full the event is dropped and counted against the log instead.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger.With("component", "audit"),
	}
}

func (p *Publisher) Emit(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case p.inbox <- e:
	default:
		p.logger.Warn("audit buffer full, event dropped", "type", string(e.Type))
	}
}

// Inbox exposes the channel for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Worker drains events to the structured log. It keeps background
// processing testable without wiring queue implementations.
type Worker struct {
	inbox <-chan Event
	sink  *slog.Logger
}

func NewWorker(inbox <-chan Event, sink *slog.Logger) *Worker {
	return &Worker{inbox: inbox, sink: sink.With("component", "audit")}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-w.inbox:
			w.sink.InfoContext(ctx, "audit event",
				"event_id", e.ID,
				"type", string(e.Type),
				"subject", e.Subject,
				"reason", e.Reason,
				"request_id", e.RequestID,
				"client_ip", e.ClientIP,
				"browser", e.Browser,
				"os", e.OS,
				"ts", e.Timestamp,
			)
		}
	}
}
