// Package notify tells staff about new contact submissions. Every notifier is
// best-effort: the submission is already stored when Notify runs.
package notify

import (
	"context"
	"errors"

	"contactus-backend/models"
)

type Notifier interface {
	Notify(ctx context.Context, sub models.ContactSubmission) error
	Close() error
}

// Noop drops every notification.
type Noop struct{}

func (Noop) Notify(context.Context, models.ContactSubmission) error { return nil }
func (Noop) Close() error                                           { return nil }

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, sub models.ContactSubmission) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, sub); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
