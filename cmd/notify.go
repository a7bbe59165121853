package cmd

import (
	"io"
	"log"
	"sync"

	"github.com/Nehorai4/git-project/internal/config"
	"github.com/Nehorai4/git-project/internal/sink"
)

// syncWriter serializes writes from the foreground loop and the poller.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// buildSink wires the configured notification outputs. Events are always
// logged; the webhook is throttled when a rate is configured.
func buildSink(cfg config.NotifyConfig, out io.Writer, logger *log.Logger) sink.Sink {
	sinks := sink.Multi{sink.NewLogger(logger)}
	if cfg.Console {
		sinks = append(sinks, sink.NewConsole(out))
	}
	if cfg.WebhookURL != "" {
		var webhook sink.Sink = sink.NewWebhook(cfg.WebhookURL, nil)
		if cfg.RatePerSec > 0 {
			webhook = sink.NewThrottled(webhook, cfg.RatePerSec, cfg.Burst)
		}
		sinks = append(sinks, webhook)
	}
	return sinks
}
