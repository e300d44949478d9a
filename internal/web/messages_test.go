package web

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixpod/pixpod/pkg/agent"
)

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "access denied",
			err:  &agent.InvokeError{Kind: agent.KindAccessDenied, Err: errors.New("denied")},
			want: msgAccessDenied,
		},
		{
			name: "not found",
			err:  &agent.InvokeError{Kind: agent.KindNotFound, Err: errors.New("missing")},
			want: msgAgentNotFound,
		},
		{
			name: "service error embeds text",
			err:  &agent.InvokeError{Kind: agent.KindService, Message: "throttled", Err: errors.New("x")},
			want: "AWS Error: throttled",
		},
		{
			name: "no credentials",
			err:  &agent.InvokeError{Kind: agent.KindNoCredentials, Err: errors.New("x")},
			want: msgNoCredentials,
		},
		{
			name: "extraction failure",
			err:  &agent.InvokeError{Kind: agent.KindExtraction, Err: errors.New("unexpected event in response stream: trace")},
			want: "Unexpected error: unexpected event in response stream: trace",
		},
		{
			name: "unknown kind",
			err:  &agent.InvokeError{Kind: agent.KindUnknown, Err: errors.New("boom")},
			want: "Unexpected error: boom",
		},
		{
			name: "untyped error",
			err:  errors.New("boom"),
			want: "Unexpected error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayMessage(tt.err))
		})
	}
}
