package agent

import "context"

// Config identifies the remote Bedrock agent to invoke.
type Config struct {
	AgentID      string `json:"agent_id"`
	AgentAliasID string `json:"agent_alias_id"`
}

// Complete reports whether both identifiers are present.
func (c Config) Complete() bool {
	return c.AgentID != "" && c.AgentAliasID != ""
}

// InvokeInput carries the parameters of a single InvokeAgent call.
type InvokeInput struct {
	AgentID      string
	AgentAliasID string
	SessionID    string
	InputText    string
}

// Event is one record from the agent's response stream. Chunk is nil for
// events that carry no payload; Type names the event for diagnostics.
type Event struct {
	Type  string
	Chunk []byte
}

// Stream iterates the events of one agent response in delivery order.
// Next returns nil, nil once the stream is exhausted.
type Stream interface {
	Next() (*Event, error)
	Close() error
}

// Caller performs the remote agent invocation. The production
// implementation wraps the Bedrock agent runtime; tests substitute fakes.
type Caller interface {
	InvokeAgent(ctx context.Context, input InvokeInput) (Stream, error)
}
