package codex

// SandboxMode controls how much of the filesystem the agent may touch.
type SandboxMode string

const (
	SandboxReadOnly       SandboxMode = "read-only"
	SandboxWorkspaceWrite SandboxMode = "workspace-write"
	SandboxFullAccess     SandboxMode = "danger-full-access"
)

// ReasoningEffort selects the model's reasoning effort level.
type ReasoningEffort string

const (
	ReasoningEffortLow    ReasoningEffort = "low"
	ReasoningEffortMedium ReasoningEffort = "medium"
	ReasoningEffortHigh   ReasoningEffort = "high"
)

// ApprovalPolicy controls when the agent asks before acting.
type ApprovalPolicy string

const (
	ApprovalUntrusted ApprovalPolicy = "untrusted"
	ApprovalOnFailure ApprovalPolicy = "on-failure"
	ApprovalOnRequest ApprovalPolicy = "on-request"
	ApprovalNever     ApprovalPolicy = "never"
)

// ThreadOptions holds the immutable configuration of a thread. Every turn on
// the thread is invoked with this configuration.
type ThreadOptions struct {
	Model                 string
	SandboxMode           SandboxMode
	WorkingDirectory      string
	AdditionalDirectories []string
	SkipGitRepoCheck      bool
	ReasoningEffort       ReasoningEffort

	// NetworkAccess and WebSearch are tri-state: nil leaves the CLI default
	// in place, a non-nil value forces the toggle.
	NetworkAccess *bool
	WebSearch     *bool

	ApprovalPolicy ApprovalPolicy
}

// ThreadOption is a functional option for configuring a thread.
type ThreadOption func(*ThreadOptions)

// WithModel sets the model to use for the conversation.
func WithModel(model string) ThreadOption {
	return func(o *ThreadOptions) {
		o.Model = model
	}
}

// WithSandboxMode sets the sandbox mode.
func WithSandboxMode(mode SandboxMode) ThreadOption {
	return func(o *ThreadOptions) {
		o.SandboxMode = mode
	}
}

// WithWorkingDirectory sets the working directory for the thread.
func WithWorkingDirectory(dir string) ThreadOption {
	return func(o *ThreadOptions) {
		o.WorkingDirectory = dir
	}
}

// WithAdditionalDirectories grants the agent access to directories beyond the
// working directory.
func WithAdditionalDirectories(dirs ...string) ThreadOption {
	return func(o *ThreadOptions) {
		o.AdditionalDirectories = append(o.AdditionalDirectories, dirs...)
	}
}

// WithSkipGitRepoCheck skips the CLI's Git repository check.
func WithSkipGitRepoCheck() ThreadOption {
	return func(o *ThreadOptions) {
		o.SkipGitRepoCheck = true
	}
}

// WithReasoningEffort sets the model reasoning effort level.
func WithReasoningEffort(effort ReasoningEffort) ThreadOption {
	return func(o *ThreadOptions) {
		o.ReasoningEffort = effort
	}
}

// WithNetworkAccess forces sandbox network access on or off.
func WithNetworkAccess(enabled bool) ThreadOption {
	return func(o *ThreadOptions) {
		o.NetworkAccess = &enabled
	}
}

// WithWebSearch forces the web search feature on or off.
func WithWebSearch(enabled bool) ThreadOption {
	return func(o *ThreadOptions) {
		o.WebSearch = &enabled
	}
}

// WithApprovalPolicy sets the approval policy.
func WithApprovalPolicy(policy ApprovalPolicy) ThreadOption {
	return func(o *ThreadOptions) {
		o.ApprovalPolicy = policy
	}
}

// TurnOptions holds per-turn settings.
type TurnOptions struct {
	// OutputSchema is a JSON schema for structured output. It may be any
	// value that marshals to a JSON schema document: a map, a
	// json.RawMessage, or the result of OutputSchemaFor. When set, the
	// schema is written to a transient file for the duration of the turn.
	OutputSchema any
}
