package sink

import (
	"context"
	"log"

	"github.com/Nehorai4/git-project/internal/domain"
)

// Logger records events through a *log.Logger.
type Logger struct {
	logger *log.Logger
}

func NewLogger(logger *log.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Emit(_ context.Context, event domain.Event) error {
	if event.Repository != "" {
		l.logger.Printf("[%s] %s", event.Repository, event.Summary())
		return nil
	}
	l.logger.Println(event.Summary())
	return nil
}
