package codex

import (
	"encoding/json"
	"fmt"
)

// ItemType discriminates between thread item kinds.
type ItemType string

const (
	ItemTypeAgentMessage     ItemType = "agent_message"
	ItemTypeReasoning        ItemType = "reasoning"
	ItemTypeCommandExecution ItemType = "command_execution"
	ItemTypeFileChange       ItemType = "file_change"
	ItemTypeMcpToolCall      ItemType = "mcp_tool_call"
	ItemTypeWebSearch        ItemType = "web_search"
	ItemTypeTodoList         ItemType = "todo_list"
	ItemTypeError            ItemType = "error"
)

// ThreadItem is the closed union of work units produced within a turn.
// An item's ID is stable across item.started → item.updated → item.completed
// for the same logical unit of work.
type ThreadItem interface {
	ItemType() ItemType
	ItemID() string
}

// CommandExecutionStatus is the status of a command execution.
type CommandExecutionStatus string

const (
	CommandStatusInProgress CommandExecutionStatus = "in_progress"
	CommandStatusCompleted  CommandExecutionStatus = "completed"
	CommandStatusFailed     CommandExecutionStatus = "failed"
)

// CommandExecutionItem is a shell command executed by the agent.
type CommandExecutionItem struct {
	ID               string                 `json:"id"`
	Type             ItemType               `json:"type"`
	Command          string                 `json:"command"`
	AggregatedOutput string                 `json:"aggregated_output"`
	ExitCode         *int                   `json:"exit_code,omitempty"`
	Status           CommandExecutionStatus `json:"status"`
}

func (i CommandExecutionItem) ItemType() ItemType { return ItemTypeCommandExecution }
func (i CommandExecutionItem) ItemID() string     { return i.ID }

// PatchChangeKind indicates the type of a file change.
type PatchChangeKind string

const (
	PatchChangeAdd    PatchChangeKind = "add"
	PatchChangeDelete PatchChangeKind = "delete"
	PatchChangeUpdate PatchChangeKind = "update"
)

// FileUpdateChange is a single file change within a patch.
type FileUpdateChange struct {
	Path string          `json:"path"`
	Kind PatchChangeKind `json:"kind"`
}

// PatchApplyStatus is the terminal status of a file change set.
type PatchApplyStatus string

const (
	PatchApplyCompleted PatchApplyStatus = "completed"
	PatchApplyFailed    PatchApplyStatus = "failed"
)

// FileChangeItem is a set of file changes by the agent. Emitted once the
// patch succeeds or fails.
type FileChangeItem struct {
	ID      string             `json:"id"`
	Type    ItemType           `json:"type"`
	Changes []FileUpdateChange `json:"changes"`
	Status  PatchApplyStatus   `json:"status"`
}

func (i FileChangeItem) ItemType() ItemType { return ItemTypeFileChange }
func (i FileChangeItem) ItemID() string     { return i.ID }

// McpToolCallStatus is the status of an MCP tool call.
type McpToolCallStatus string

const (
	McpToolCallInProgress McpToolCallStatus = "in_progress"
	McpToolCallCompleted  McpToolCallStatus = "completed"
	McpToolCallFailed     McpToolCallStatus = "failed"
)

// McpContentBlock is a content block returned from an MCP server.
type McpContentBlock struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

// McpToolCallResult is the result payload of an MCP tool call.
type McpToolCallResult struct {
	Content           []McpContentBlock `json:"content"`
	StructuredContent json.RawMessage   `json:"structured_content,omitempty"`
}

// McpToolCallError is the error payload of a failed MCP tool call.
type McpToolCallError struct {
	Message string `json:"message"`
}

// McpToolCallItem is a call to an MCP tool. The item starts when the
// invocation is dispatched and completes when the server reports success or
// failure.
type McpToolCallItem struct {
	ID        string             `json:"id"`
	Type      ItemType           `json:"type"`
	Server    string             `json:"server"`
	Tool      string             `json:"tool"`
	Arguments json.RawMessage    `json:"arguments,omitempty"`
	Result    *McpToolCallResult `json:"result,omitempty"`
	Error     *McpToolCallError  `json:"error,omitempty"`
	Status    McpToolCallStatus  `json:"status"`
}

func (i McpToolCallItem) ItemType() ItemType { return ItemTypeMcpToolCall }
func (i McpToolCallItem) ItemID() string     { return i.ID }

// AgentMessageItem is a response from the agent: natural-language text, or
// JSON when structured output was requested.
type AgentMessageItem struct {
	ID   string   `json:"id"`
	Type ItemType `json:"type"`
	Text string   `json:"text"`
}

func (i AgentMessageItem) ItemType() ItemType { return ItemTypeAgentMessage }
func (i AgentMessageItem) ItemID() string     { return i.ID }

// ReasoningItem is a summary of the agent's reasoning.
type ReasoningItem struct {
	ID   string   `json:"id"`
	Type ItemType `json:"type"`
	Text string   `json:"text"`
}

func (i ReasoningItem) ItemType() ItemType { return ItemTypeReasoning }
func (i ReasoningItem) ItemID() string     { return i.ID }

// WebSearchItem captures a web search request. Completes when results are
// returned to the agent.
type WebSearchItem struct {
	ID    string   `json:"id"`
	Type  ItemType `json:"type"`
	Query string   `json:"query"`
}

func (i WebSearchItem) ItemType() ItemType { return ItemTypeWebSearch }
func (i WebSearchItem) ItemID() string     { return i.ID }

// TodoEntry is one step in the agent's to-do list.
type TodoEntry struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TodoListItem tracks the agent's running to-do list. Starts when the plan is
// issued, updates as steps change, and completes when the turn ends.
type TodoListItem struct {
	ID    string      `json:"id"`
	Type  ItemType    `json:"type"`
	Items []TodoEntry `json:"items"`
}

func (i TodoListItem) ItemType() ItemType { return ItemTypeTodoList }
func (i TodoListItem) ItemID() string     { return i.ID }

// ErrorItem describes a non-fatal error surfaced as an item.
type ErrorItem struct {
	ID      string   `json:"id"`
	Type    ItemType `json:"type"`
	Message string   `json:"message"`
}

func (i ErrorItem) ItemType() ItemType { return ItemTypeError }
func (i ErrorItem) ItemID() string     { return i.ID }

// UnmarshalThreadItem decodes one item payload by its `type` discriminator.
// An unknown item type is an error: the union is closed, and passing through
// an untyped blob would let consumers silently ignore new item kinds.
func UnmarshalThreadItem(data []byte) (ThreadItem, error) {
	var tag struct {
		Type ItemType `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("failed to parse item type: %w", err)
	}

	switch tag.Type {
	case ItemTypeAgentMessage:
		var item AgentMessageItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse agent_message item: %w", err)
		}
		return item, nil

	case ItemTypeReasoning:
		var item ReasoningItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse reasoning item: %w", err)
		}
		return item, nil

	case ItemTypeCommandExecution:
		var item CommandExecutionItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse command_execution item: %w", err)
		}
		return item, nil

	case ItemTypeFileChange:
		var item FileChangeItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse file_change item: %w", err)
		}
		return item, nil

	case ItemTypeMcpToolCall:
		var item McpToolCallItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse mcp_tool_call item: %w", err)
		}
		return item, nil

	case ItemTypeWebSearch:
		var item WebSearchItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse web_search item: %w", err)
		}
		return item, nil

	case ItemTypeTodoList:
		var item TodoListItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse todo_list item: %w", err)
		}
		return item, nil

	case ItemTypeError:
		var item ErrorItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse error item: %w", err)
		}
		return item, nil

	default:
		return nil, fmt.Errorf("unknown item type: %q", tag.Type)
	}
}
