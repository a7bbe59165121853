package sink

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/Nehorai4/git-project/internal/domain"
)

// Throttled limits how fast events reach the wrapped sink, so a burst of new
// commits does not flood a chat webhook. Emit blocks until a token is available.
type Throttled struct {
	next    Sink
	limiter *rate.Limiter
}

// NewThrottled wraps next with a token bucket of perSec events per second.
// A non-positive burst defaults to perSec.
func NewThrottled(next Sink, perSec float64, burst int) *Throttled {
	if burst <= 0 {
		burst = int(perSec)
		if burst < 1 {
			burst = 1
		}
	}
	return &Throttled{next: next, limiter: rate.NewLimiter(rate.Limit(perSec), burst)}
}

func (t *Throttled) Emit(ctx context.Context, event domain.Event) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notification dropped: %w", err)
	}
	return t.next.Emit(ctx, event)
}
