package castwire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadEnvelopeRoundTrip(t *testing.T) {
	env := NewStringEnvelope("sender-abc", "receiver-0", "urn:x-cast:com.google.cast.tp.connection", `{"type":"CONNECT"}`)

	var buf bytes.Buffer
	require.NoError(t, WriteEnvelope(&buf, env))

	got, err := ReadEnvelope(&buf)
	require.NoError(t, err)
	require.Equal(t, env.GetSourceId(), got.GetSourceId())
	require.Equal(t, env.GetDestinationId(), got.GetDestinationId())
	require.Equal(t, env.GetNamespace(), got.GetNamespace())
	require.Equal(t, env.GetPayloadUtf8(), got.GetPayloadUtf8())
}

// TestFrameSequenceSurvivesArbitrarySplits implements invariant 2: writing
// N concatenated envelopes and reading them back yields the same sequence
// regardless of how the underlying reads are chunked.
func TestFrameSequenceSurvivesArbitrarySplits(t *testing.T) {
	envs := []*CastMessage{
		NewStringEnvelope("sender-1", "receiver-0", "urn:x-cast:com.google.cast.tp.heartbeat", `{"type":"PING"}`),
		NewStringEnvelope("sender-1", "receiver-0", "urn:x-cast:com.google.cast.receiver", `{"type":"GET_STATUS","requestId":1}`),
		NewStringEnvelope("sender-1", "web-55", "urn:x-cast:com.google.cast.media", `{"type":"LOAD","requestId":2}`),
	}

	var full bytes.Buffer
	for _, e := range envs {
		require.NoError(t, WriteEnvelope(&full, e))
	}

	for chunkSize := 1; chunkSize <= full.Len(); chunkSize++ {
		r := &chunkedReader{data: full.Bytes(), chunk: chunkSize}
		for i, want := range envs {
			got, err := ReadEnvelope(r)
			require.NoErrorf(t, err, "chunk size %d, envelope %d", chunkSize, i)
			require.Equal(t, want.GetPayloadUtf8(), got.GetPayloadUtf8())
		}
	}
}

func TestReadEnvelopeShortLengthIsFraming(t *testing.T) {
	_, err := ReadEnvelope(bytes.NewReader([]byte{0x00, 0x00}))
	var fe *FramingError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "length", fe.Stage)
}

func TestReadEnvelopeShortBodyIsFraming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEnvelope(&buf, NewStringEnvelope("s", "d", "n", "{}")))
	truncated := buf.Bytes()[:buf.Len()-1]

	_, err := ReadEnvelope(bytes.NewReader(truncated))
	var fe *FramingError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "body", fe.Stage)
}

// chunkedReader serves data in fixed-size reads regardless of how much the
// caller asked for, to exercise ReadEnvelope against arbitrary read splits.
type chunkedReader struct {
	data  []byte
	chunk int
	pos   int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	n := c.chunk
	if n > len(p) {
		n = len(p)
	}
	if c.pos+n > len(c.data) {
		n = len(c.data) - c.pos
	}
	copy(p, c.data[c.pos:c.pos+n])
	c.pos += n
	return n, nil
}
