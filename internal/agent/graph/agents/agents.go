package agents

import (
	"context"

	"github.com/eduassist/server/internal/agent/model"
)

// EmitFunc delivers one progress event to the pipeline's output stream.
// Events are forwarded in call order; agents must only call it from the
// goroutine running Run.
type EmitFunc func(*model.Event)

// Agent is one pipeline stage: it observes the current state snapshot, emits
// ordered progress events, and returns the partial state it produced. A
// returned error means the agent's own execution failed (dependency outage,
// malformed model output); domain findings travel inside the patch instead.
type Agent interface {
	Name() string
	Run(ctx context.Context, st model.State, emit EmitFunc) (model.Patch, error)
}
