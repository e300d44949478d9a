package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	stream Stream
	err    error
	last   InvokeInput
}

func (c *fakeCaller) InvokeAgent(_ context.Context, input InvokeInput) (Stream, error) {
	c.last = input
	if c.err != nil {
		return nil, c.err
	}
	return c.stream, nil
}

func testConfig() Config {
	return Config{AgentID: "AGENT123", AgentAliasID: "ALIAS456"}
}

func TestInvokeReturnsReply(t *testing.T) {
	caller := &fakeCaller{stream: &fakeStream{events: []Event{
		{Type: "chunk", Chunk: []byte("Hi there")},
	}}}
	invoker := NewInvoker(caller, zerolog.Nop())

	text, err := invoker.Invoke(context.Background(), "Hello", testConfig(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)

	// All five parameters reach the remote call.
	assert.Equal(t, "AGENT123", caller.last.AgentID)
	assert.Equal(t, "ALIAS456", caller.last.AgentAliasID)
	assert.Equal(t, "session-1", caller.last.SessionID)
	assert.Equal(t, "Hello", caller.last.InputText)
}

func TestInvokeEmptyStream(t *testing.T) {
	caller := &fakeCaller{stream: &fakeStream{}}
	invoker := NewInvoker(caller, zerolog.Nop())

	text, err := invoker.Invoke(context.Background(), "Hello", testConfig(), "session-1")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestInvokeErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{
			name: "access denied",
			err:  &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not allowed"},
			kind: KindAccessDenied,
		},
		{
			name: "agent not found",
			err:  &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "no such agent"},
			kind: KindNotFound,
		},
		{
			name: "other service error",
			err:  &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"},
			kind: KindService,
		},
		{
			name: "missing credentials",
			err:  ErrNoCredentials,
			kind: KindNoCredentials,
		},
		{
			name: "arbitrary error",
			err:  errors.New("connection reset"),
			kind: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &fakeCaller{err: tt.err}
			invoker := NewInvoker(caller, zerolog.Nop())

			_, err := invoker.Invoke(context.Background(), "Hello", testConfig(), "session-1")
			require.Error(t, err)

			var invErr *InvokeError
			require.ErrorAs(t, err, &invErr)
			assert.Equal(t, tt.kind, invErr.Kind)
		})
	}
}

func TestInvokeServiceErrorCarriesMessage(t *testing.T) {
	caller := &fakeCaller{err: &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}}
	invoker := NewInvoker(caller, zerolog.Nop())

	_, err := invoker.Invoke(context.Background(), "Hello", testConfig(), "session-1")

	var invErr *InvokeError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "slow down", invErr.Message)
}

func TestInvokeExtractionFailure(t *testing.T) {
	caller := &fakeCaller{stream: &fakeStream{events: []Event{{Type: "trace"}}}}
	invoker := NewInvoker(caller, zerolog.Nop())

	_, err := invoker.Invoke(context.Background(), "Hello", testConfig(), "session-1")

	var invErr *InvokeError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, KindExtraction, invErr.Kind)
}

func TestInvokeStreamReadFailure(t *testing.T) {
	caller := &fakeCaller{stream: &fakeStream{err: errors.New("stream torn down")}}
	invoker := NewInvoker(caller, zerolog.Nop())

	_, err := invoker.Invoke(context.Background(), "Hello", testConfig(), "session-1")

	var invErr *InvokeError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, KindUnknown, invErr.Kind)
}
