package service

import (
	"context"
	"math"
	"time"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

// publish is best effort: the write already committed, so failures are only logged.
func publish(ctx context.Context, p events.Publisher, topic, key string, ev events.Event) {
	if p == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	if err := p.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warnw("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
