// Package notify sends user notifications for application lifecycle events.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type Kind string

const (
	KindAmendmentReminder       Kind = "AmendmentReminder"
	KindLateAmendmentWithdrawn  Kind = "LateAmendmentWithdrawn"
	KindFinalActionDateExtended Kind = "FinalActionDateExtended"
)

// Message is one notification addressed to a set of users.
type Message struct {
	Kind                 Kind
	ApplicationID        string
	ApplicationReference string
	RecipientIDs         []string
	Detail               map[string]string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier writes notifications to a structured logger in place of a
// delivery channel.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Message) error {
	if err := Validate(msg); err != nil {
		return err
	}
	args := []any{
		"kind", string(msg.Kind),
		"application_id", msg.ApplicationID,
		"application_reference", msg.ApplicationReference,
		"recipients", strings.Join(msg.RecipientIDs, ","),
	}
	for k, v := range msg.Detail {
		args = append(args, k, v)
	}
	n.logger.InfoContext(ctx, "notification", args...)
	return nil
}

// Validate rejects messages that could not be delivered.
func Validate(msg Message) error {
	if msg.Kind == "" {
		return fmt.Errorf("notification requires a kind")
	}
	if len(msg.RecipientIDs) == 0 {
		return fmt.Errorf("%s notification for %s has no recipients", msg.Kind, msg.ApplicationID)
	}
	return nil
}
