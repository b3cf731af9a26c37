package codex

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Turn is one completed request/response exchange within a thread.
type Turn struct {
	// Items are the completed items in arrival order.
	Items []ThreadItem

	// FinalResponse is the text of the last completed agent message, or ""
	// if the turn produced none.
	FinalResponse string

	// Usage is the token usage reported by turn.completed, nil if the
	// stream ended without one.
	Usage *Usage
}

// Thread is a conversation with the agent. One thread can have multiple
// consecutive turns; its configuration is fixed at creation. A Thread is not
// safe for two concurrent in-flight turns — resume the same id on separate
// Thread instances instead.
type Thread struct {
	client  *Codex
	options ThreadOptions
	logger  zerolog.Logger
	mu      sync.RWMutex
	id      string
}

func newThread(client *Codex, threadID string, opts []ThreadOption) *Thread {
	var options ThreadOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Thread{
		client:  client,
		options: options,
		logger:  client.logger,
		id:      threadID,
	}
}

// ID returns the thread id. Empty until the first turn starts; populated
// immediately for resumed threads.
func (t *Thread) ID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.id
}

// captureID records the id reported by thread.started. The id is
// single-assignment: the first observed (or caller-supplied) id wins, so a
// resumption id is never silently replaced. A later differing id is logged
// and dropped.
func (t *Thread) captureID(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.id == "" {
		t.id = id
		return
	}
	if t.id != id {
		t.logger.Warn().
			Str("thread_id", t.id).
			Str("reported_id", id).
			Msg("ignoring thread.started with a different id")
	}
}

// EventStream is a single-pass sequence of events from one turn. Range over
// Events until it closes, then check Err for the terminal error. Close
// terminates the underlying subprocess; it must be called (directly or via
// defer) if consumption is abandoned early.
type EventStream struct {
	events    chan ThreadEvent
	done      chan struct{}
	pm        *processManager
	closeOnce sync.Once
	mu        sync.Mutex
	err       error
	closed    bool
}

// Events returns the event channel. Events arrive in the exact order the CLI
// emitted them; the channel closes when the stream ends.
func (s *EventStream) Events() <-chan ThreadEvent {
	return s.events
}

// Err returns the error that terminated the stream, if any. Valid once
// Events has closed. A prefix of valid events may have been delivered before
// the failure.
func (s *EventStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops consumption and terminates the subprocess, gracefully first
// and by force after the grace period. Safe to call multiple times.
func (s *EventStream) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
		if s.pm != nil {
			_ = s.pm.Stop()
		}
	})
	return nil
}

// setErr records the terminal error unless the caller already closed the
// stream deliberately.
func (s *EventStream) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.err != nil {
		return
	}
	s.err = err
}

// RunStreamed provides the input to the agent and streams events as they are
// produced during the turn. The subprocess is spawned before RunStreamed
// returns, so launch failures surface here rather than on the stream.
func (t *Thread) RunStreamed(ctx context.Context, input Input, opts *TurnOptions) (*EventStream, error) {
	cliPath, err := t.client.resolvePath()
	if err != nil {
		return nil, err
	}

	prompt, images := normalizeInput(input)

	schemaFile, cleanupSchema, err := writeSchemaFile(turnSchema(opts))
	if err != nil {
		return nil, err
	}

	pm := newProcessManager(cliPath, execArgs{
		Prompt:      prompt,
		Images:      images,
		ThreadID:    t.ID(),
		SchemaFile:  schemaFile,
		BaseURL:     t.client.baseURL,
		APIKey:      t.client.apiKey,
		EnvOverride: t.client.env,
		Options:     t.options,
	}, t.logger)

	if err := pm.Start(ctx); err != nil {
		cleanupSchema()
		return nil, err
	}

	stream := &EventStream{
		events: make(chan ThreadEvent),
		done:   make(chan struct{}),
		pm:     pm,
	}

	go t.streamLoop(ctx, pm, stream, cleanupSchema)

	return stream, nil
}

// streamLoop reads, parses, and forwards events until the stream ends.
// Cleanup runs on every exit path: the schema file is removed and the
// process is stopped (a no-op if it already exited) before the channel
// closes, so Err is always set by the time Events drains.
func (t *Thread) streamLoop(ctx context.Context, pm *processManager, stream *EventStream, cleanupSchema func()) {
	defer close(stream.events)
	defer cleanupSchema()
	defer pm.Stop()

	for {
		line, err := pm.ReadLine()
		if err != nil {
			if err == io.EOF {
				// Output exhausted: reap the exit status.
				if werr := pm.Wait(); werr != nil {
					stream.setErr(werr)
				}
				return
			}
			stream.setErr(&ProcessError{Message: "failed to read CLI output", Cause: err})
			return
		}

		event, err := ParseEvent(line)
		if err != nil {
			stream.setErr(err)
			return
		}

		// The id must be visible through Thread.ID before the event is
		// forwarded, so a consumer reading the id from its own event
		// handler never observes it unset.
		if started, ok := event.(ThreadStartedEvent); ok {
			t.captureID(started.ThreadID)
		}

		select {
		case stream.events <- event:
		case <-stream.done:
			return
		case <-ctx.Done():
			stream.setErr(ctx.Err())
			return
		}
	}
}

// Run provides the input to the agent and blocks until the turn concludes,
// folding the event stream into a Turn. It never returns a partial Turn: a
// turn.failed event surfaces as *TurnFailedError, and parse or process
// errors propagate unchanged.
func (t *Thread) Run(ctx context.Context, input Input, opts *TurnOptions) (*Turn, error) {
	stream, err := t.RunStreamed(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var acc turnAccumulator
	for event := range stream.Events() {
		acc.observe(event)
		if acc.terminal {
			break
		}
	}

	if acc.failure != nil {
		return nil, &TurnFailedError{Message: acc.failure.Message}
	}
	if !acc.completed {
		if err := stream.Err(); err != nil {
			return nil, err
		}
		if acc.streamError != nil {
			return nil, &ThreadStreamError{Message: acc.streamError.Message}
		}
	}
	return acc.turn(), nil
}

// turnAccumulator folds an ordered event sequence into a Turn. The fold is
// pure: it holds no references to the session or the process.
type turnAccumulator struct {
	items         []ThreadItem
	finalResponse string
	usage         *Usage
	failure       *ThreadError
	streamError   *ThreadErrorEvent
	completed     bool
	terminal      bool
}

// observe applies one event. item.completed appends the item, and a
// completed agent message overwrites the running final response: the wire
// protocol's convention is a single terminal message, so the last one wins.
func (a *turnAccumulator) observe(event ThreadEvent) {
	switch ev := event.(type) {
	case ItemCompletedEvent:
		if msg, ok := ev.Item.(AgentMessageItem); ok {
			a.finalResponse = msg.Text
		}
		a.items = append(a.items, ev.Item)
	case TurnCompletedEvent:
		usage := ev.Usage
		a.usage = &usage
		a.completed = true
		a.terminal = true
	case TurnFailedEvent:
		failure := ev.Error
		a.failure = &failure
		a.terminal = true
	case ThreadErrorEvent:
		a.streamError = &ev
	}
}

func (a *turnAccumulator) turn() *Turn {
	return &Turn{
		Items:         a.items,
		FinalResponse: a.finalResponse,
		Usage:         a.usage,
	}
}

// turnSchema extracts the output schema from per-turn options.
func turnSchema(opts *TurnOptions) any {
	if opts == nil {
		return nil
	}
	return opts.OutputSchema
}
