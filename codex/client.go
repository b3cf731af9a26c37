// Package codex wraps the Codex CLI: it spawns codex exec as a subprocess,
// feeds it one conversation turn, and decodes the newline-delimited JSON
// event stream from its stdout into typed events and items.
//
// Basic usage:
//
//	client := codex.New(codex.WithAPIKey(key))
//	thread := client.StartThread(codex.WithModel("gpt-5.2-codex"))
//	turn, err := thread.Run(ctx, codex.Text("fix the failing test"), nil)
//
// Use RunStreamed to observe events as they arrive, and ResumeThread to
// continue a persisted conversation by id.
package codex

import (
	"os/exec"

	"github.com/rs/zerolog"
)

// Codex is the entry point for interacting with the Codex agent. Obtain
// threads with StartThread or ResumeThread; each thread runs turns through
// its own subprocess invocations.
type Codex struct {
	codexPath string
	env       map[string]string
	baseURL   string
	apiKey    string
	logger    zerolog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Codex)

// WithCodexPath overrides the path to the codex binary. Without an override
// the binary is looked up on PATH at spawn time.
func WithCodexPath(path string) Option {
	return func(c *Codex) {
		c.codexPath = path
	}
}

// WithEnv replaces the subprocess environment wholesale. Without it the
// subprocess inherits the current process environment.
func WithEnv(env map[string]string) Option {
	return func(c *Codex) {
		c.env = env
	}
}

// WithBaseURL sets the API base URL passed to the CLI via OPENAI_BASE_URL.
func WithBaseURL(url string) Option {
	return func(c *Codex) {
		c.baseURL = url
	}
}

// WithAPIKey sets the API key passed to the CLI via CODEX_API_KEY.
func WithAPIKey(key string) Option {
	return func(c *Codex) {
		c.apiKey = key
	}
}

// WithLogger sets a structured logger for subprocess lifecycle diagnostics.
// Logging is disabled by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Codex) {
		c.logger = logger
	}
}

// New creates a Codex client.
func New(opts ...Option) *Codex {
	c := &Codex{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartThread starts a new conversation. The thread's id is unset until the
// first turn reports it.
func (c *Codex) StartThread(opts ...ThreadOption) *Thread {
	return newThread(c, "", opts)
}

// ResumeThread resumes a previously started conversation by id. Threads are
// persisted by the CLI under ~/.codex/sessions.
func (c *Codex) ResumeThread(threadID string, opts ...ThreadOption) *Thread {
	return newThread(c, threadID, opts)
}

// resolvePath returns the binary to spawn: the override if set, otherwise
// codex from PATH.
func (c *Codex) resolvePath() (string, error) {
	if c.codexPath != "" {
		return c.codexPath, nil
	}
	path, err := exec.LookPath("codex")
	if err != nil {
		return "", &CLINotFoundError{Path: "codex", Cause: err}
	}
	return path, nil
}
