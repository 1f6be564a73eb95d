package event

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionKind categorizes the intercepted operation.
type ActionKind string

const (
	ActionShell     ActionKind = "shell-execution"
	ActionFileEdit  ActionKind = "file-edit"
	ActionFileWrite ActionKind = "file-write"
	ActionUnknown   ActionKind = "unknown"
)

// Phase distinguishes whether the action is being intercepted before or
// after execution. Post-phase events can only advise, never block.
type Phase string

const (
	PhasePre  Phase = "pre"
	PhasePost Phase = "post"
)

// GuardContext is an immutable snapshot of one intercepted action.
// It is constructed once per invocation; every guard observes the same
// snapshot, so decisions do not depend on evaluation order.
type GuardContext struct {
	ActionKind   ActionKind
	Phase        Phase
	Command      string // set for shell-execution
	FilePath     string // set for file mutations
	PriorContent string // set for edits
	NewContent   string // set for edits and writes
	Raw          map[string]any
}

// ParseError indicates the inbound payload could not be turned into a
// GuardContext. It is an infrastructure fault, not a policy violation.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse hook input: " + e.Reason
}

// payload is the union of the two payload dialects Parse understands.
//
// Native:    {"actionKind": "shell-execution", "command": "..."}
// Tool-call: {"hook_event_name": "PreToolUse", "tool_name": "Bash", "tool_input": {"command": "..."}}
type payload struct {
	ActionKind   string `json:"actionKind"`
	Command      string `json:"command"`
	FilePath     string `json:"filePath"`
	PriorContent string `json:"priorContent"`
	NewContent   string `json:"newContent"`
	Phase        string `json:"phase"`

	HookEventName string    `json:"hook_event_name"`
	ToolName      string    `json:"tool_name"`
	ToolInput     toolInput `json:"tool_input"`
}

type toolInput struct {
	Command   string `json:"command"`
	FilePath  string `json:"file_path"`
	OldString string `json:"old_string"`
	NewString string `json:"new_string"`
	Content   string `json:"content"`
}

// Parse builds a GuardContext from raw input bytes.
//
// Tolerates missing optional fields (absent, not an error) and unknown extra
// fields (ignored, but preserved in Raw). Empty input, non-JSON input, and
// non-object input fail with *ParseError.
func Parse(data []byte) (*GuardContext, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &ParseError{Reason: "empty input"}
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}
	if raw == nil {
		return nil, &ParseError{Reason: "payload is null"}
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("malformed payload: %v", err)}
	}

	// Tool-call dialect takes effect only when the native discriminator
	// is absent, so explicit actionKind always wins.
	if p.ActionKind == "" && p.ToolName != "" {
		return fromToolCall(p, raw), nil
	}

	ctx := &GuardContext{
		ActionKind:   normalizeKind(p.ActionKind),
		Phase:        normalizePhase(p.Phase),
		Command:      p.Command,
		FilePath:     p.FilePath,
		PriorContent: p.PriorContent,
		NewContent:   p.NewContent,
		Raw:          raw,
	}
	return ctx, nil
}

// fromToolCall maps an agent tool-call payload onto the native model.
func fromToolCall(p payload, raw map[string]any) *GuardContext {
	ctx := &GuardContext{
		ActionKind: ActionUnknown,
		Phase:      PhasePre,
		Raw:        raw,
	}
	if strings.EqualFold(p.HookEventName, "PostToolUse") {
		ctx.Phase = PhasePost
	}

	switch p.ToolName {
	case "Bash":
		ctx.ActionKind = ActionShell
		ctx.Command = p.ToolInput.Command
	case "Edit":
		ctx.ActionKind = ActionFileEdit
		ctx.FilePath = p.ToolInput.FilePath
		ctx.PriorContent = p.ToolInput.OldString
		ctx.NewContent = p.ToolInput.NewString
	case "Write":
		ctx.ActionKind = ActionFileWrite
		ctx.FilePath = p.ToolInput.FilePath
		ctx.NewContent = p.ToolInput.Content
	}
	return ctx
}

func normalizeKind(kind string) ActionKind {
	switch ActionKind(kind) {
	case ActionShell, ActionFileEdit, ActionFileWrite:
		return ActionKind(kind)
	default:
		return ActionUnknown
	}
}

func normalizePhase(phase string) Phase {
	if Phase(phase) == PhasePost {
		return PhasePost
	}
	return PhasePre
}
