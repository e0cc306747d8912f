package model

// EventType discriminates the events emitted on the pipeline stream.
type EventType string

const (
	EventStatus     EventType = "status"
	EventToken      EventType = "token"
	EventPreview    EventType = "preview"
	EventValidation EventType = "validation"
	EventFinal      EventType = "final"
	EventError      EventType = "error"
)

// Event is one entry of the pipeline's output stream. Exactly one terminal
// event (final or error) closes the stream. The JSON shape matches the
// newline-delimited wire protocol: unused payload fields are omitted.
type Event struct {
	Type EventType `json:"type"`

	// status payload
	Stage  string `json:"stage,omitempty"`
	Detail string `json:"detail,omitempty"`

	// token payload
	Text string `json:"text,omitempty"`

	// preview payload
	Content string `json:"content,omitempty"`

	// validation payload
	Result *ValidationResult `json:"result,omitempty"`

	// final payload
	Output string `json:"output,omitempty"`

	// error payload
	Message string `json:"message,omitempty"`
}

// Terminal reports whether the event closes the stream.
func (e *Event) Terminal() bool {
	return e.Type == EventFinal || e.Type == EventError
}

func StatusEvent(stage, detail string) *Event {
	return &Event{Type: EventStatus, Stage: stage, Detail: detail}
}

func TokenEvent(text string) *Event {
	return &Event{Type: EventToken, Text: text}
}

func PreviewEvent(content string) *Event {
	return &Event{Type: EventPreview, Content: content}
}

func ValidationEvent(result *ValidationResult) *Event {
	return &Event{Type: EventValidation, Result: result}
}

func FinalEvent(output string) *Event {
	return &Event{Type: EventFinal, Output: output}
}

func ErrorEvent(message string) *Event {
	return &Event{Type: EventError, Message: message}
}
