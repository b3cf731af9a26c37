// codex-exec - run a Codex agent turn from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bazelment/codex-sdk/codex"
	"github.com/bazelment/codex-sdk/codex/render"
)

var (
	configPath string
	codexPath  string
	baseURL    string
	apiKey     string

	modelFlag      string
	sandboxFlag    string
	cdFlag         string
	addDirs        []string
	skipGitCheck   bool
	effortFlag     string
	approvalFlag   string
	webSearchFlag  bool
	networkFlag    bool
	resumeFlag     string
	imageFlags     []string
	schemaFileFlag string

	streamFlag  bool
	jsonFlag    bool
	verboseFlag bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "codex-exec [flags] <prompt>",
	Short: "Run a Codex agent turn and print the result",
	Long: `codex-exec - run a Codex agent turn from the command line.

Spawns the codex CLI, sends the prompt, and prints either the aggregated
final response or the live event stream. Thread ids printed on completion
can be passed back with --resume to continue the conversation.

Defaults for model, sandbox mode, and approval policy can be stored in
~/.codex-exec.yaml (override with --config).`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()

	flags.StringVar(&configPath, "config", "", "Path to the YAML defaults file")
	flags.StringVar(&codexPath, "codex-path", "", "Path to the codex binary (default: codex from PATH)")
	flags.StringVar(&baseURL, "base-url", "", "API base URL")
	flags.StringVar(&apiKey, "api-key", "", "API key (defaults to the inherited CODEX_API_KEY environment variable)")

	flags.StringVarP(&modelFlag, "model", "m", "", "Model to use")
	flags.StringVarP(&sandboxFlag, "sandbox", "s", "", "Sandbox mode: read-only, workspace-write, danger-full-access")
	flags.StringVarP(&cdFlag, "cd", "C", "", "Working directory for the agent")
	flags.StringArrayVar(&addDirs, "add-dir", nil, "Additional writable directory (repeatable)")
	flags.BoolVar(&skipGitCheck, "skip-git-repo-check", false, "Skip the Git repository check")
	flags.StringVar(&effortFlag, "effort", "", "Reasoning effort: low, medium, high")
	flags.StringVar(&approvalFlag, "approval-policy", "", "Approval policy: untrusted, on-failure, on-request, never")
	flags.BoolVar(&webSearchFlag, "web-search", false, "Enable web search")
	flags.BoolVar(&networkFlag, "network", false, "Enable sandbox network access")
	flags.StringVar(&resumeFlag, "resume", "", "Thread id to resume")
	flags.StringArrayVar(&imageFlags, "image", nil, "Local image to attach (repeatable)")
	flags.StringVar(&schemaFileFlag, "output-schema", "", "JSON schema file for structured output")

	flags.BoolVar(&streamFlag, "stream", false, "Render events as they arrive instead of the final response")
	flags.BoolVar(&jsonFlag, "json", false, "Print the aggregated turn as JSON")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output (reasoning, commands, debug logs)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := zerolog.Nop()
	if verboseFlag {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}

	client := codex.New(clientOptions(cfg, logger)...)

	threadOpts := threadOptions(cfg)
	var thread *codex.Thread
	if resumeFlag != "" {
		thread = client.ResumeThread(resumeFlag, threadOpts...)
	} else {
		thread = client.StartThread(threadOpts...)
	}

	input := buildInput(args[0])

	turnOpts, err := buildTurnOptions()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if streamFlag {
		return runStreamed(ctx, thread, input, turnOpts)
	}
	return runAggregated(ctx, thread, input, turnOpts)
}

// clientOptions merges flags over config-file defaults.
func clientOptions(cfg *Config, logger zerolog.Logger) []codex.Option {
	opts := []codex.Option{codex.WithLogger(logger)}

	if path := firstOf(codexPath, cfg.CodexPath); path != "" {
		opts = append(opts, codex.WithCodexPath(path))
	}
	if url := firstOf(baseURL, cfg.BaseURL); url != "" {
		opts = append(opts, codex.WithBaseURL(url))
	}
	if apiKey != "" {
		opts = append(opts, codex.WithAPIKey(apiKey))
	}
	return opts
}

func threadOptions(cfg *Config) []codex.ThreadOption {
	var opts []codex.ThreadOption

	if model := firstOf(modelFlag, cfg.Model); model != "" {
		opts = append(opts, codex.WithModel(model))
	}
	if sandbox := firstOf(sandboxFlag, cfg.SandboxMode); sandbox != "" {
		opts = append(opts, codex.WithSandboxMode(codex.SandboxMode(sandbox)))
	}
	if cdFlag != "" {
		opts = append(opts, codex.WithWorkingDirectory(cdFlag))
	}
	if len(addDirs) > 0 {
		opts = append(opts, codex.WithAdditionalDirectories(addDirs...))
	}
	if skipGitCheck {
		opts = append(opts, codex.WithSkipGitRepoCheck())
	}
	if effort := firstOf(effortFlag, cfg.ReasoningEffort); effort != "" {
		opts = append(opts, codex.WithReasoningEffort(codex.ReasoningEffort(effort)))
	}
	if policy := firstOf(approvalFlag, cfg.ApprovalPolicy); policy != "" {
		opts = append(opts, codex.WithApprovalPolicy(codex.ApprovalPolicy(policy)))
	}
	if webSearchFlag {
		opts = append(opts, codex.WithWebSearch(true))
	}
	if networkFlag {
		opts = append(opts, codex.WithNetworkAccess(true))
	}
	return opts
}

// buildInput attaches any --image flags to the prompt.
func buildInput(prompt string) codex.Input {
	if len(imageFlags) == 0 {
		return codex.Text(prompt)
	}
	parts := codex.Parts{codex.TextPart{Text: prompt}}
	for _, path := range imageFlags {
		parts = append(parts, codex.LocalImagePart{Path: path})
	}
	return parts
}

func buildTurnOptions() (*codex.TurnOptions, error) {
	if schemaFileFlag == "" {
		return nil, nil
	}
	data, err := os.ReadFile(schemaFileFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to read output schema: %w", err)
	}
	return &codex.TurnOptions{OutputSchema: json.RawMessage(data)}, nil
}

func runStreamed(ctx context.Context, thread *codex.Thread, input codex.Input, opts *codex.TurnOptions) error {
	stream, err := thread.RunStreamed(ctx, input, opts)
	if err != nil {
		return err
	}
	defer stream.Close()

	renderer := render.NewRenderer(os.Stdout, verboseFlag, false)
	for event := range stream.Events() {
		renderer.HandleEvent(event)
	}
	if err := stream.Err(); err != nil {
		return err
	}

	if id := thread.ID(); id != "" {
		fmt.Fprintf(os.Stderr, "thread id: %s\n", id)
	}
	return nil
}

func runAggregated(ctx context.Context, thread *codex.Thread, input codex.Input, opts *codex.TurnOptions) error {
	turn, err := thread.Run(ctx, input, opts)
	if err != nil {
		return err
	}

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"thread_id":      thread.ID(),
			"final_response": turn.FinalResponse,
			"items":          len(turn.Items),
			"usage":          turn.Usage,
		})
	}

	fmt.Println(turn.FinalResponse)
	if id := thread.ID(); id != "" {
		fmt.Fprintf(os.Stderr, "thread id: %s\n", id)
	}
	return nil
}

// firstOf returns the first non-empty string.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
