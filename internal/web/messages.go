package web

import (
	"errors"
	"fmt"

	"github.com/pixpod/pixpod/pkg/agent"
)

// User-facing message templates. Typed invocation errors are mapped to
// display text here and nowhere else; failed turns come back as ordinary
// assistant replies so a bad message never ends the session.
const (
	msgAccessDenied  = "Access denied. Check your AWS permissions for Bedrock."
	msgAgentNotFound = "Agent not found. Check your Agent ID and Alias ID."
	msgNoCredentials = "AWS credentials not found. Please configure credentials."
	msgNoResponse    = "No response received"

	msgClientUninitialized = "Please initialize the AWS client first."
	msgClientFailed        = "AWS client not available. Check credentials and try again."
	msgConfigMissing       = "Agent configuration missing. Check AGENT_ID and AGENT_ALIAS_ID in secrets."
)

// setupInstructions is shown alongside blocking errors so a fresh
// deployment can be configured without reading the docs.
const setupInstructions = `Configure PixPod through one of:

1. Secret store (recommended) — create ~/.pixpod/secrets.toml:
   AWS_ACCESS_KEY_ID = "your-access-key"
   AWS_SECRET_ACCESS_KEY = "your-secret-key"
   AWS_SESSION_TOKEN = "your-session-token"  # optional
   AGENT_ID = "your-agent-id"
   AGENT_ALIAS_ID = "your-agent-alias-id"

2. Environment variables with the same names.

3. Ambient AWS credentials (execution role or ~/.aws/credentials) plus
   AGENT_ID and AGENT_ALIAS_ID in the environment.`

// displayMessage renders a failed invocation as reply text.
func displayMessage(err error) string {
	var invErr *agent.InvokeError
	if !errors.As(err, &invErr) {
		return fmt.Sprintf("Unexpected error: %v", err)
	}

	switch invErr.Kind {
	case agent.KindAccessDenied:
		return msgAccessDenied
	case agent.KindNotFound:
		return msgAgentNotFound
	case agent.KindService:
		return fmt.Sprintf("AWS Error: %s", invErr.Message)
	case agent.KindNoCredentials:
		return msgNoCredentials
	default:
		return fmt.Sprintf("Unexpected error: %v", invErr.Unwrap())
	}
}
