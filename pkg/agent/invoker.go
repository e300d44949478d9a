package agent

import (
	"context"
	"errors"
	"time"

	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
)

// Invoker performs one remote agent call per user turn and extracts the
// reply text. Every failure comes back as a typed *InvokeError; Invoke
// never panics and never returns an unclassified error.
type Invoker struct {
	caller Caller
	logger zerolog.Logger
}

// NewInvoker creates an invoker backed by the given caller.
func NewInvoker(caller Caller, logger zerolog.Logger) *Invoker {
	return &Invoker{
		caller: caller,
		logger: logger.With().Str("component", "invoker").Logger(),
	}
}

// Invoke sends the prompt to the configured agent under the given session
// and returns the extracted reply. An empty reply with a nil error means
// the stream carried no events. Invoke mutates no state; appending the
// reply to history is the caller's job.
func (i *Invoker) Invoke(ctx context.Context, prompt string, cfg Config, sessionID string) (string, error) {
	start := time.Now()

	stream, err := i.caller.InvokeAgent(ctx, InvokeInput{
		AgentID:      cfg.AgentID,
		AgentAliasID: cfg.AgentAliasID,
		SessionID:    sessionID,
		InputText:    prompt,
	})
	if err != nil {
		invErr := classify(err)
		i.logger.Warn().
			Err(err).
			Str("kind", string(invErr.Kind)).
			Str("agent_id", cfg.AgentID).
			Msg("Agent invocation failed")
		return "", invErr
	}

	text, err := Extract(stream)
	if err != nil {
		invErr := classify(err)
		i.logger.Warn().
			Err(err).
			Str("kind", string(invErr.Kind)).
			Msg("Response extraction failed")
		return "", invErr
	}

	i.logger.Debug().
		Dur("duration", time.Since(start)).
		Int("reply_len", len(text)).
		Msg("Agent invocation completed")

	return text, nil
}

// classify maps an invocation failure onto its error kind.
func classify(err error) *InvokeError {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException":
			return &InvokeError{Kind: KindAccessDenied, Err: err}
		case "ResourceNotFoundException":
			return &InvokeError{Kind: KindNotFound, Err: err}
		default:
			return &InvokeError{Kind: KindService, Message: apiErr.ErrorMessage(), Err: err}
		}
	}

	if errors.Is(err, ErrNoCredentials) {
		return &InvokeError{Kind: KindNoCredentials, Err: err}
	}

	var eventErr *UnexpectedEventError
	if errors.As(err, &eventErr) {
		return &InvokeError{Kind: KindExtraction, Err: err}
	}

	return &InvokeError{Kind: KindUnknown, Err: err}
}
