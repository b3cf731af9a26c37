package codex

import "encoding/json"

// EventType enumerates the JSONL event types streamed by codex exec.
type EventType string

const (
	EventTypeThreadStarted EventType = "thread.started"
	EventTypeTurnStarted   EventType = "turn.started"
	EventTypeTurnCompleted EventType = "turn.completed"
	EventTypeTurnFailed    EventType = "turn.failed"
	EventTypeItemStarted   EventType = "item.started"
	EventTypeItemUpdated   EventType = "item.updated"
	EventTypeItemCompleted EventType = "item.completed"
	EventTypeError         EventType = "error"
)

// ThreadEvent is the closed union of wire events. Events are immutable and
// delivered in the exact order the CLI emitted them.
type ThreadEvent interface {
	EventType() EventType
}

// Usage describes token consumption during a turn.
type Usage struct {
	InputTokens       int64 `json:"input_tokens"`
	CachedInputTokens int64 `json:"cached_input_tokens"`
	OutputTokens      int64 `json:"output_tokens"`
}

// ThreadError is the error payload embedded in a turn.failed event.
type ThreadError struct {
	Message string `json:"message"`
}

// ThreadStartedEvent is the first event of a new thread.
type ThreadStartedEvent struct {
	ThreadID string `json:"thread_id"`
}

func (e ThreadStartedEvent) EventType() EventType { return EventTypeThreadStarted }

// TurnStartedEvent marks the beginning of a turn. A turn encompasses all
// events emitted while the agent processes one prompt.
type TurnStartedEvent struct{}

func (e TurnStartedEvent) EventType() EventType { return EventTypeTurnStarted }

// TurnCompletedEvent marks the successful end of a turn.
type TurnCompletedEvent struct {
	Usage Usage `json:"usage"`
}

func (e TurnCompletedEvent) EventType() EventType { return EventTypeTurnCompleted }

// TurnFailedEvent marks a failed turn.
type TurnFailedEvent struct {
	Error ThreadError `json:"error"`
}

func (e TurnFailedEvent) EventType() EventType { return EventTypeTurnFailed }

// ItemStartedEvent is emitted when a new item is added to the thread,
// typically still in progress.
type ItemStartedEvent struct {
	Item ThreadItem
}

func (e ItemStartedEvent) EventType() EventType { return EventTypeItemStarted }

// ItemUpdatedEvent is emitted when an in-progress item changes.
type ItemUpdatedEvent struct {
	Item ThreadItem
}

func (e ItemUpdatedEvent) EventType() EventType { return EventTypeItemUpdated }

// ItemCompletedEvent signals that an item reached a terminal state, either
// success or failure.
type ItemCompletedEvent struct {
	Item ThreadItem
}

func (e ItemCompletedEvent) EventType() EventType { return EventTypeItemCompleted }

// ThreadErrorEvent is an unrecoverable error emitted directly by the stream.
type ThreadErrorEvent struct {
	Message string `json:"message"`
}

func (e ThreadErrorEvent) EventType() EventType { return EventTypeError }

// itemEnvelope defers item decoding so the `item` payload can be
// discriminated by its own type tag.
type itemEnvelope struct {
	Item json.RawMessage `json:"item"`
}

// ParseEvent decodes one NDJSON line into a ThreadEvent. A line that is not
// valid JSON, or whose type tag is unknown, yields a *ProtocolError carrying
// the raw line. This is fatal for the turn: skipping a line could drop an
// item.completed or the terminal turn event and leave a consumer waiting for
// an event that never arrives.
func ParseEvent(line []byte) (ThreadEvent, error) {
	var tag struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(line, &tag); err != nil {
		return nil, &ProtocolError{Message: "failed to parse event", Line: string(line), Cause: err}
	}

	switch tag.Type {
	case EventTypeThreadStarted:
		var ev ThreadStartedEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, &ProtocolError{Message: "failed to parse thread.started event", Line: string(line), Cause: err}
		}
		return ev, nil

	case EventTypeTurnStarted:
		return TurnStartedEvent{}, nil

	case EventTypeTurnCompleted:
		var ev TurnCompletedEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, &ProtocolError{Message: "failed to parse turn.completed event", Line: string(line), Cause: err}
		}
		return ev, nil

	case EventTypeTurnFailed:
		var ev TurnFailedEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, &ProtocolError{Message: "failed to parse turn.failed event", Line: string(line), Cause: err}
		}
		return ev, nil

	case EventTypeItemStarted, EventTypeItemUpdated, EventTypeItemCompleted:
		var env itemEnvelope
		if err := json.Unmarshal(line, &env); err != nil {
			return nil, &ProtocolError{Message: "failed to parse item event", Line: string(line), Cause: err}
		}
		item, err := UnmarshalThreadItem(env.Item)
		if err != nil {
			return nil, &ProtocolError{Message: "failed to parse item payload", Line: string(line), Cause: err}
		}
		switch tag.Type {
		case EventTypeItemStarted:
			return ItemStartedEvent{Item: item}, nil
		case EventTypeItemUpdated:
			return ItemUpdatedEvent{Item: item}, nil
		default:
			return ItemCompletedEvent{Item: item}, nil
		}

	case EventTypeError:
		var ev ThreadErrorEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, &ProtocolError{Message: "failed to parse error event", Line: string(line), Cause: err}
		}
		return ev, nil

	default:
		return nil, &ProtocolError{Message: "unknown event type: " + string(tag.Type), Line: string(line)}
	}
}
