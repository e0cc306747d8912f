package observers

import (
	"github.com/eduassist/server/internal/agent/model"
	logx "github.com/eduassist/server/pkg/logger"
)

// Observer sees every event before it reaches the caller's stream. Observers
// must not block; the pipeline invokes them synchronously in emission order.
type Observer func(*model.Event)

// NewLoggingObserver logs pipeline progress. Token events are skipped to keep
// the log readable; everything else is recorded with its payload summary.
func NewLoggingObserver() Observer {
	return func(ev *model.Event) {
		if ev == nil || ev.Type == model.EventToken {
			return
		}
		entry := logx.Debug().Str("event", string(ev.Type))
		switch ev.Type {
		case model.EventStatus:
			entry = entry.Str("stage", ev.Stage).Str("detail", ev.Detail)
		case model.EventPreview:
			entry = entry.Int("content_len", len(ev.Content))
		case model.EventValidation:
			if ev.Result != nil {
				entry = entry.Str("status", string(ev.Result.Status)).Int("issues", len(ev.Result.Issues))
			}
		case model.EventFinal:
			entry = entry.Int("output_len", len(ev.Output))
		case model.EventError:
			entry = entry.Str("message", ev.Message)
		}
		entry.Msg("pipeline event")
	}
}

// Combine fans one event out to several observers in order.
func Combine(observers ...Observer) Observer {
	return func(ev *model.Event) {
		for _, ob := range observers {
			if ob != nil {
				ob(ev)
			}
		}
	}
}
