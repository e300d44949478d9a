package web

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/pixpod/pixpod/pkg/agent"
	"github.com/pixpod/pixpod/pkg/session"
)

// ServerOptions configures the web server
type ServerOptions struct {
	Host               string
	Port               int
	RateLimitPerMinute int
}

// CredentialResolver resolves an AWS configuration from tiered sources.
type CredentialResolver interface {
	Resolve(ctx context.Context) (aws.Config, string, error)
}

// AgentConfigResolver resolves the agent identifiers.
type AgentConfigResolver interface {
	Resolve() (agent.Config, bool)
}

// CallerFactory turns a resolved AWS configuration into an agent caller.
// Production wires agent.NewBedrockCaller; tests substitute fakes.
type CallerFactory func(cfg aws.Config) agent.Caller

// chatRequest is the body of POST /api/chat
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse carries the assistant reply for one turn
type chatResponse struct {
	Reply session.Message `json:"reply"`
	Stats session.Stats   `json:"stats"`
}

// stateResponse describes the session for the page
type stateResponse struct {
	SessionID     string              `json:"session_id"`
	ClientState   session.ClientState `json:"client_state"`
	AgentConfig   agentConfigStatus   `json:"agent_config"`
	Messages      []session.Message   `json:"messages"`
	Stats         session.Stats       `json:"stats"`
	BlockedReason string              `json:"blocked_reason,omitempty"`
}

// agentConfigStatus is the redacted agent config shown in the sidebar
type agentConfigStatus struct {
	Present       bool   `json:"present"`
	AgentIDPrefix string `json:"agent_id_prefix,omitempty"`
	AgentAliasID  string `json:"agent_alias_id,omitempty"`
}

// initializeResponse is the body of POST /api/client/initialize
type initializeResponse struct {
	ClientState session.ClientState `json:"client_state"`
	Source      string              `json:"source,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// errorResponse is the generic error body
type errorResponse struct {
	Error string `json:"error"`
	Setup string `json:"setup,omitempty"`
}

// healthResponse is the body of GET /health
type healthResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Sessions  int     `json:"sessions"`
	Timestamp int64   `json:"timestamp"`
}

// sessionCookie names the browser token cookie
const sessionCookie = "pixpod_session"

// defaultShutdownTimeout bounds graceful shutdown
const defaultShutdownTimeout = 5 * time.Second
