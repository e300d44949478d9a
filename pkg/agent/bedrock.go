package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// BedrockCaller invokes agents through the Bedrock agent runtime.
type BedrockCaller struct {
	client *bedrockagentruntime.Client
}

// NewBedrockCaller builds a caller from a resolved AWS configuration.
func NewBedrockCaller(cfg aws.Config) *BedrockCaller {
	return &BedrockCaller{
		client: bedrockagentruntime.NewFromConfig(cfg),
	}
}

// InvokeAgent performs one InvokeAgent call and returns its event stream.
func (c *BedrockCaller) InvokeAgent(ctx context.Context, input InvokeInput) (Stream, error) {
	out, err := c.client.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(input.AgentID),
		AgentAliasId: aws.String(input.AgentAliasID),
		SessionId:    aws.String(input.SessionID),
		InputText:    aws.String(input.InputText),
	})
	if err != nil {
		// The SDK does not expose a typed missing-credentials error; the
		// default chain reports retrieval failures only in the message.
		if strings.Contains(err.Error(), "get credentials") ||
			strings.Contains(err.Error(), "no EC2 IMDS role found") {
			return nil, fmt.Errorf("%w: %v", ErrNoCredentials, err)
		}
		return nil, err
	}

	return &bedrockStream{stream: out.GetStream()}, nil
}

// bedrockStream adapts the SDK event stream to the Stream interface.
type bedrockStream struct {
	stream *bedrockagentruntime.InvokeAgentEventStream
}

func (s *bedrockStream) Next() (*Event, error) {
	event, ok := <-s.stream.Events()
	if !ok {
		if err := s.stream.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	switch v := event.(type) {
	case *types.ResponseStreamMemberChunk:
		chunk := v.Value.Bytes
		if chunk == nil {
			chunk = []byte{}
		}
		return &Event{Type: "chunk", Chunk: chunk}, nil
	default:
		return &Event{Type: fmt.Sprintf("%T", event)}, nil
	}
}

func (s *bedrockStream) Close() error {
	return s.stream.Close()
}
