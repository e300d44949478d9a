package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream yields a fixed sequence of events and records whether any
// events were left unconsumed.
type fakeStream struct {
	events []Event
	pos    int
	closed bool
	err    error
}

func (s *fakeStream) Next() (*Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.pos >= len(s.events) {
		return nil, nil
	}
	event := s.events[s.pos]
	s.pos++
	return &event, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

func TestExtractFirstChunk(t *testing.T) {
	stream := &fakeStream{events: []Event{
		{Type: "chunk", Chunk: []byte("Hi there")},
	}}

	text, err := Extract(stream)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
	assert.True(t, stream.closed)
}

func TestExtractIgnoresLaterEvents(t *testing.T) {
	stream := &fakeStream{events: []Event{
		{Type: "chunk", Chunk: []byte("first")},
		{Type: "chunk", Chunk: []byte("second")},
		{Type: "trace"},
	}}

	text, err := Extract(stream)
	require.NoError(t, err)
	assert.Equal(t, "first", text)

	// Only the first event may be consumed; truncation is the contract.
	assert.Equal(t, 1, stream.pos)
}

func TestExtractUnexpectedEvent(t *testing.T) {
	stream := &fakeStream{events: []Event{
		{Type: "trace"},
		{Type: "chunk", Chunk: []byte("never reached")},
	}}

	_, err := Extract(stream)
	require.Error(t, err)

	var eventErr *UnexpectedEventError
	require.ErrorAs(t, err, &eventErr)
	assert.Equal(t, "trace", eventErr.Event.Type)
}

func TestExtractEmptyStream(t *testing.T) {
	stream := &fakeStream{}

	text, err := Extract(stream)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractEmptyChunk(t *testing.T) {
	stream := &fakeStream{events: []Event{
		{Type: "chunk", Chunk: []byte{}},
	}}

	text, err := Extract(stream)
	require.NoError(t, err)
	assert.Empty(t, text)
}
