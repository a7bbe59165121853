// Package sink delivers notification events produced by the poller to their
// consumers: the console, a logger, or a webhook.
package sink

import (
	"context"
	"errors"

	"github.com/Nehorai4/git-project/internal/domain"
)

// Sink consumes notification events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Emit(ctx context.Context, event domain.Event) error
}

// Func adapts an ordinary function to a Sink.
type Func func(ctx context.Context, event domain.Event) error

func (f Func) Emit(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// Multi delivers every event to each sink in order and joins their errors.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
