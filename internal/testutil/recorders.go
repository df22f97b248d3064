package testutil

import (
	"context"
	"sync"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/notify"
)

// RecordingNotifier captures notifications. Err, when set, is returned
// from every call after recording.
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []notify.Message
	Err      error
}

func (n *RecordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, msg)
	return n.Err
}

// ForApplication returns the notifications sent about one application.
func (n *RecordingNotifier) ForApplication(applicationID string) []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Message
	for _, m := range n.Messages {
		if m.ApplicationID == applicationID {
			out = append(out, m)
		}
	}
	return out
}

// RecordingPublisher captures audit events.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []domain.AuditEvent
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, event domain.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return p.Err
}

// Names returns the recorded event names in order.
func (p *RecordingPublisher) Names() []domain.AuditEventName {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]domain.AuditEventName, 0, len(p.Events))
	for _, e := range p.Events {
		names = append(names, e.Name)
	}
	return names
}
