package codex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/bazelment/codex-sdk/internal/ndjson"
	"github.com/bazelment/codex-sdk/internal/procattr"
)

const (
	internalOriginatorEnv = "CODEX_INTERNAL_ORIGINATOR_OVERRIDE"
	sdkOriginator         = "codex_sdk_go"

	// stopGracePeriod is how long Stop waits after SIGTERM before SIGKILL.
	stopGracePeriod = 5 * time.Second
)

// execArgs captures everything needed for one codex exec invocation.
type execArgs struct {
	Prompt     string
	Images     []string
	ThreadID   string
	SchemaFile string
	BaseURL    string
	APIKey     string

	// EnvOverride, when non-nil, replaces the inherited environment
	// wholesale before the SDK's own variables are applied.
	EnvOverride map[string]string

	Options ThreadOptions
}

// BuildCLIArgs builds the argument vector for the invocation.
//
// The CLI contract is: codex exec --experimental-json [flags] [resume <id>],
// with the prompt delivered on stdin.
func (a execArgs) BuildCLIArgs() []string {
	args := []string{"exec", "--experimental-json"}

	opts := a.Options

	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}

	if opts.SandboxMode != "" {
		args = append(args, "--sandbox", string(opts.SandboxMode))
	}

	if opts.WorkingDirectory != "" {
		args = append(args, "--cd", opts.WorkingDirectory)
	}

	for _, dir := range opts.AdditionalDirectories {
		args = append(args, "--add-dir", dir)
	}

	if opts.SkipGitRepoCheck {
		args = append(args, "--skip-git-repo-check")
	}

	if a.SchemaFile != "" {
		args = append(args, "--output-schema", a.SchemaFile)
	}

	if opts.ReasoningEffort != "" {
		args = append(args, "--config", fmt.Sprintf("model_reasoning_effort=%q", opts.ReasoningEffort))
	}

	if opts.NetworkAccess != nil {
		args = append(args, "--config",
			fmt.Sprintf("sandbox_workspace_write.network_access=%t", *opts.NetworkAccess))
	}

	if opts.WebSearch != nil {
		args = append(args, "--config",
			fmt.Sprintf("features.web_search_request=%t", *opts.WebSearch))
	}

	if opts.ApprovalPolicy != "" {
		args = append(args, "--config", fmt.Sprintf("approval_policy=%q", opts.ApprovalPolicy))
	}

	for _, image := range a.Images {
		args = append(args, "--image", image)
	}

	if a.ThreadID != "" {
		args = append(args, "resume", a.ThreadID)
	}

	return args
}

// buildEnv computes the subprocess environment. It is pure: base is the
// inherited environment ("k=v" entries), override replaces it wholesale when
// non-nil. The SDK originator tag is added only when absent, so callers can
// override it.
func buildEnv(base []string, override map[string]string, baseURL, apiKey string) []string {
	env := make(map[string]string)
	if override != nil {
		for k, v := range override {
			env[k] = v
		}
	} else {
		for _, entry := range base {
			if k, v, ok := strings.Cut(entry, "="); ok {
				env[k] = v
			}
		}
	}

	if _, ok := env[internalOriginatorEnv]; !ok {
		env[internalOriginatorEnv] = sdkOriginator
	}

	if baseURL != "" {
		env["OPENAI_BASE_URL"] = baseURL
	}

	if apiKey != "" {
		env["CODEX_API_KEY"] = apiKey
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(env))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

// processManager manages one codex exec process.
type processManager struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    io.ReadCloser
	stderr    io.ReadCloser
	reader    *ndjson.Reader
	args      execArgs
	cliPath   string
	logger    zerolog.Logger
	waitOnce  sync.Once
	waitErr   error
	stderrMu  sync.Mutex
	stderrBuf strings.Builder
	mu        sync.Mutex
	started   bool
	stopping  bool
}

// newProcessManager creates a process manager for one invocation.
func newProcessManager(cliPath string, args execArgs, logger zerolog.Logger) *processManager {
	return &processManager{
		cliPath: cliPath,
		args:    args,
		logger:  logger,
	}
}

// Start spawns the codex process, begins writing the prompt to its stdin on a
// separate goroutine, and begins draining stderr. Writing concurrently with
// reading keeps a large prompt from deadlocking behind an unread stdout pipe.
func (pm *processManager) Start(ctx context.Context) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.started {
		return &ProcessError{Message: "process already started"}
	}

	args := pm.args.BuildCLIArgs()

	pm.cmd = exec.CommandContext(ctx, pm.cliPath, args...)
	pm.cmd.Env = buildEnv(os.Environ(), pm.args.EnvOverride, pm.args.BaseURL, pm.args.APIKey)

	// Configure process group for orphan prevention
	procattr.Set(pm.cmd)

	var err error
	pm.stdin, err = pm.cmd.StdinPipe()
	if err != nil {
		return &ProcessError{Message: "failed to create stdin pipe", Cause: err}
	}

	pm.stdout, err = pm.cmd.StdoutPipe()
	if err != nil {
		return &ProcessError{Message: "failed to create stdout pipe", Cause: err}
	}

	pm.stderr, err = pm.cmd.StderrPipe()
	if err != nil {
		return &ProcessError{Message: "failed to create stderr pipe", Cause: err}
	}

	pm.reader = ndjson.NewReader(pm.stdout)

	if err := pm.cmd.Start(); err != nil {
		// PATH lookup failures surface as exec.ErrNotFound; an explicit path
		// to a missing binary surfaces as a *fs.PathError wrapping ENOENT.
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return &CLINotFoundError{Path: pm.cliPath, Cause: err}
		}
		return &ProcessError{Message: "failed to start CLI process", Cause: err}
	}

	pm.logger.Debug().
		Str("path", pm.cliPath).
		Strs("args", args).
		Int("pid", pm.cmd.Process.Pid).
		Msg("codex process started")

	go pm.writeInput()
	go pm.drainStderr()

	pm.started = true
	return nil
}

// writeInput writes the prompt to stdin and closes it. A write failure means
// the process died early; the exit status reported by Wait covers it.
func (pm *processManager) writeInput() {
	defer pm.stdin.Close()
	if _, err := io.WriteString(pm.stdin, pm.args.Prompt); err != nil {
		pm.logger.Debug().Err(err).Msg("failed to write prompt to stdin")
	}
}

// drainStderr accumulates stderr for diagnostic inclusion on non-zero exit.
func (pm *processManager) drainStderr() {
	buf := make([]byte, 4096)
	for {
		n, err := pm.stderr.Read(buf)
		if n > 0 {
			pm.stderrMu.Lock()
			pm.stderrBuf.Write(buf[:n])
			pm.stderrMu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// ReadLine reads the next JSON line from stdout. Returns io.EOF when the
// output stream is exhausted.
func (pm *processManager) ReadLine() ([]byte, error) {
	pm.mu.Lock()
	reader := pm.reader
	pm.mu.Unlock()

	if reader == nil {
		return nil, ErrNotStarted
	}

	return reader.ReadLine()
}

// StderrText returns the stderr captured so far.
func (pm *processManager) StderrText() string {
	pm.stderrMu.Lock()
	defer pm.stderrMu.Unlock()
	return pm.stderrBuf.String()
}

// wait reaps the process exactly once.
func (pm *processManager) wait() error {
	pm.waitOnce.Do(func() {
		pm.waitErr = pm.cmd.Wait()
	})
	return pm.waitErr
}

// Wait blocks until the process exits and converts a non-zero exit status
// into a *ProcessError carrying the exit code and captured stderr. Call only
// after stdout has been fully consumed.
func (pm *processManager) Wait() error {
	err := pm.wait()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ProcessError{
			Message:  "codex exec exited with an error",
			Cause:    err,
			ExitCode: exitErr.ExitCode(),
			Stderr:   pm.StderrText(),
		}
	}
	return &ProcessError{Message: "failed to wait for CLI process", Cause: err}
}

// Stop requests graceful termination and force-kills after the grace period.
// Safe to call multiple times and after normal exit.
func (pm *processManager) Stop() error {
	pm.mu.Lock()
	if !pm.started || pm.stopping {
		pm.mu.Unlock()
		return nil
	}
	pm.stopping = true
	pm.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- pm.wait()
	}()

	// Graceful shutdown: SIGTERM → grace period → SIGKILL
	if pm.cmd.Process != nil {
		_ = procattr.SignalGroup(pm.cmd.Process, syscall.SIGTERM)
	}

	select {
	case <-done:
		return nil
	case <-time.After(stopGracePeriod):
		// Process didn't respond to SIGTERM, force kill
	}

	if pm.cmd.Process != nil {
		_ = procattr.KillGroup(pm.cmd.Process)
	}

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
	}

	return nil
}
