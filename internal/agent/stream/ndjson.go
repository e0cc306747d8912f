package stream

import (
	"context"
	"encoding/json"
	"io"

	"github.com/cloudwego/eino/schema"

	"github.com/eduassist/server/internal/agent/model"
)

// flusher matches http.Flusher without pulling net/http into the core.
type flusher interface {
	Flush()
}

// errFlusher matches bufio.Writer-style flushing.
type errFlusher interface {
	Flush() error
}

// WriteNDJSON drains the pipeline event stream into w, one JSON object per
// line, flushing after each event when the writer supports it. It returns
// once the stream ends; the stream is consumed and closed either way, so the
// pipeline is cancelled if the caller's context expires first.
func WriteNDJSON(ctx context.Context, w io.Writer, events *schema.StreamReader[*model.Event]) error {
	defer events.Close()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := events.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(ev); err != nil {
			return err
		}
		flush(w)
	}
}

func flush(w io.Writer) {
	switch f := w.(type) {
	case flusher:
		f.Flush()
	case errFlusher:
		_ = f.Flush()
	}
}

// Collect drains the event stream into a slice. Intended for callers that
// want the whole run at once (and for tests); streaming consumers should use
// WriteNDJSON or read the stream directly.
func Collect(events *schema.StreamReader[*model.Event]) ([]*model.Event, error) {
	defer events.Close()

	var collected []*model.Event
	for {
		ev, err := events.Recv()
		if err == io.EOF {
			return collected, nil
		}
		if err != nil {
			return collected, err
		}
		collected = append(collected, ev)
	}
}
