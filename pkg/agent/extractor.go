package agent

// Extract consumes a response stream and returns the first chunk's text.
//
// The integration assumes the service emits exactly one chunk per turn, so
// extraction returns on the first chunk and never consumes later events;
// multi-chunk responses are truncated to their first chunk by contract. An
// event without a chunk before any chunk yields an UnexpectedEventError.
// An empty stream yields an empty string and no error; the caller surfaces
// that as "no response received".
func Extract(stream Stream) (string, error) {
	defer stream.Close()

	event, err := stream.Next()
	if err != nil {
		return "", err
	}
	if event == nil {
		return "", nil
	}
	if event.Chunk == nil {
		return "", &UnexpectedEventError{Event: *event}
	}
	return string(event.Chunk), nil
}
