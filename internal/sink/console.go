package sink

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Nehorai4/git-project/internal/domain"
)

const consoleTimeLayout = "15:04:05"

// Console writes one line per event to an io.Writer, typically os.Stdout.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Emit(_ context.Context, event domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := event.Summary()
	if !event.ObservedAt.IsZero() {
		line = fmt.Sprintf("[%s] %s", event.ObservedAt.Format(consoleTimeLayout), line)
	}
	if _, err := fmt.Fprintln(c.w, line); err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}
	return nil
}
