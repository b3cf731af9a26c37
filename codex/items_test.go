package codex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalThreadItem_CommandExecution(t *testing.T) {
	item, err := UnmarshalThreadItem([]byte(
		`{"id":"c1","type":"command_execution","command":"go test ./...","aggregated_output":"ok\n","exit_code":0,"status":"completed"}`))
	require.NoError(t, err)

	cmd, ok := item.(CommandExecutionItem)
	require.True(t, ok)
	assert.Equal(t, "c1", cmd.ItemID())
	assert.Equal(t, "go test ./...", cmd.Command)
	assert.Equal(t, "ok\n", cmd.AggregatedOutput)
	require.NotNil(t, cmd.ExitCode)
	assert.Equal(t, 0, *cmd.ExitCode)
	assert.Equal(t, CommandStatusCompleted, cmd.Status)
}

func TestUnmarshalThreadItem_CommandExecution_InProgress(t *testing.T) {
	// An in-progress command has no exit code yet.
	item, err := UnmarshalThreadItem([]byte(
		`{"id":"c1","type":"command_execution","command":"sleep 5","aggregated_output":"","status":"in_progress"}`))
	require.NoError(t, err)

	cmd := item.(CommandExecutionItem)
	assert.Nil(t, cmd.ExitCode)
	assert.Equal(t, CommandStatusInProgress, cmd.Status)
}

func TestUnmarshalThreadItem_FileChange(t *testing.T) {
	item, err := UnmarshalThreadItem([]byte(
		`{"id":"f1","type":"file_change","changes":[{"path":"main.go","kind":"update"},{"path":"new.go","kind":"add"}],"status":"completed"}`))
	require.NoError(t, err)

	fc, ok := item.(FileChangeItem)
	require.True(t, ok)
	require.Len(t, fc.Changes, 2)
	assert.Equal(t, PatchChangeUpdate, fc.Changes[0].Kind)
	assert.Equal(t, "new.go", fc.Changes[1].Path)
	assert.Equal(t, PatchApplyCompleted, fc.Status)
}

func TestUnmarshalThreadItem_McpToolCall(t *testing.T) {
	item, err := UnmarshalThreadItem([]byte(
		`{"id":"m1","type":"mcp_tool_call","server":"files","tool":"read","arguments":{"path":"a.txt"},"result":{"content":[{"type":"text","text":"data"}]},"status":"completed"}`))
	require.NoError(t, err)

	call, ok := item.(McpToolCallItem)
	require.True(t, ok)
	assert.Equal(t, "files", call.Server)
	assert.Equal(t, "read", call.Tool)
	require.NotNil(t, call.Result)
	require.Len(t, call.Result.Content, 1)
	assert.Equal(t, "data", call.Result.Content[0].Text)
	assert.Nil(t, call.Error)
}

func TestUnmarshalThreadItem_McpToolCall_Failed(t *testing.T) {
	item, err := UnmarshalThreadItem([]byte(
		`{"id":"m1","type":"mcp_tool_call","server":"files","tool":"read","error":{"message":"no such file"},"status":"failed"}`))
	require.NoError(t, err)

	call := item.(McpToolCallItem)
	require.NotNil(t, call.Error)
	assert.Equal(t, "no such file", call.Error.Message)
	assert.Equal(t, McpToolCallFailed, call.Status)
}

func TestUnmarshalThreadItem_Reasoning(t *testing.T) {
	item, err := UnmarshalThreadItem([]byte(`{"id":"r1","type":"reasoning","text":"thinking"}`))
	require.NoError(t, err)
	assert.Equal(t, "thinking", item.(ReasoningItem).Text)
}

func TestUnmarshalThreadItem_WebSearch(t *testing.T) {
	item, err := UnmarshalThreadItem([]byte(`{"id":"w1","type":"web_search","query":"go generics"}`))
	require.NoError(t, err)
	assert.Equal(t, "go generics", item.(WebSearchItem).Query)
}

func TestUnmarshalThreadItem_TodoList(t *testing.T) {
	item, err := UnmarshalThreadItem([]byte(
		`{"id":"td1","type":"todo_list","items":[{"text":"write tests","completed":true},{"text":"ship","completed":false}]}`))
	require.NoError(t, err)

	todo, ok := item.(TodoListItem)
	require.True(t, ok)
	require.Len(t, todo.Items, 2)
	assert.True(t, todo.Items[0].Completed)
	assert.Equal(t, "ship", todo.Items[1].Text)
}

func TestUnmarshalThreadItem_Error(t *testing.T) {
	item, err := UnmarshalThreadItem([]byte(`{"id":"e1","type":"error","message":"tool crashed"}`))
	require.NoError(t, err)
	assert.Equal(t, "tool crashed", item.(ErrorItem).Message)
}

func TestUnmarshalThreadItem_UnknownType(t *testing.T) {
	_, err := UnmarshalThreadItem([]byte(`{"id":"x1","type":"teleport"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}
