// Package audit publishes application lifecycle events.
//
// Publishing is fire-and-forget from the caller's point of view: services
// publish after their unit of work commits and only log a failed publish.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/clock"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/google/uuid"
)

// Publisher accepts audit events.
type Publisher interface {
	Publish(ctx context.Context, event domain.AuditEvent) error
}

// Store is the persistence the store-backed publisher writes through.
type Store interface {
	Create(ctx context.Context, e *domain.AuditEvent) error
}

// StorePublisher writes events to a Store, filling in id and time.
type StorePublisher struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger
}

type Option func(*StorePublisher)

func WithClock(c clock.Clock) Option {
	return func(p *StorePublisher) {
		p.clock = c
	}
}

// WithLogger also writes every published event to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *StorePublisher) {
		p.logger = logger
	}
}

func NewStorePublisher(store Store, opts ...Option) *StorePublisher {
	p := &StorePublisher{store: store, clock: clock.Real()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *StorePublisher) Publish(ctx context.Context, event domain.AuditEvent) error {
	if event.Name == "" {
		return fmt.Errorf("audit event requires a name")
	}
	if event.ApplicationID == "" {
		return fmt.Errorf("audit event %s requires an application id", event.Name)
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.clock.Now()
	}
	if err := p.store.Create(ctx, &event); err != nil {
		return fmt.Errorf("storing audit event %s: %w", event.Name, err)
	}
	if p.logger != nil {
		logEvent(ctx, p.logger, event)
	}
	return nil
}

// LogPublisher writes events to a structured logger and never fails.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.AuditEvent) error {
	logEvent(ctx, p.logger, event)
	return nil
}

func logEvent(ctx context.Context, logger *slog.Logger, event domain.AuditEvent) {
	args := make([]any, 0, 10+len(event.Detail)*2)
	args = append(args,
		"event", string(event.Name),
		"log_type", "audit",
		"application_id", event.ApplicationID,
		"source", string(event.Source),
	)
	if event.ActorID != "" {
		args = append(args, "actor_id", event.ActorID)
	}
	for k, v := range event.Detail {
		args = append(args, k, v)
	}
	logger.InfoContext(ctx, "audit_event", args...)
}

// NoopPublisher discards events.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.AuditEvent) error { return nil }

// Emit publishes event and logs, rather than returns, any failure.
func Emit(ctx context.Context, pub Publisher, logger *slog.Logger, event domain.AuditEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil && logger != nil {
		logger.ErrorContext(ctx, "audit_publish_failed",
			"event", string(event.Name),
			"application_id", event.ApplicationID,
			"error", err.Error(),
		)
	}
}
