package domain

import "encoding/json"

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ToolName  string          `json:"tool_name"`
	Arguments json.RawMessage `json:"arguments"`
}

// AgentStep is one completed loop iteration. Steps are appended in order and
// immutable once appended.
type AgentStep struct {
	StepNumber  int        `json:"step_number"`
	Reasoning   string     `json:"reasoning"`
	ToolCalls   []ToolCall `json:"tool_calls,omitempty"`
	Observation string     `json:"observation,omitempty"`
	IsFinal     bool       `json:"is_final"`
}

// AgentDecision is the structured output of one reasoning call: either a
// set of tool calls or a final answer, never both.
type AgentDecision struct {
	Reasoning   string     `json:"reasoning"`
	ToolCalls   []ToolCall `json:"tool_calls,omitempty"`
	FinalAnswer string     `json:"final_answer,omitempty"`
}

// IsFinal reports whether the decision ends the loop.
func (d AgentDecision) IsFinal() bool {
	return len(d.ToolCalls) == 0
}
