package nativebridge

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, f Frame) Frame {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteFramed(&buf, f))
	got, err := ReadFramed(&buf)
	require.NoError(t, err)
	return got
}

func TestRegisterFrameRoundTrip(t *testing.T) {
	f := NewRegisterFrame(111, 222)
	got := roundTrip(t, f)
	assert.Equal(t, f, got)
}

func TestStateRequestFrameRoundTrip(t *testing.T) {
	f := NewStateRequestFrame()
	got := roundTrip(t, f)
	assert.Equal(t, f, got)
}

func TestStateResponseFrameRoundTripEachVariant(t *testing.T) {
	cases := []StateResponseFrame{
		{Kind: StateYoutube, Youtube: &YoutubeState{URL: "https://youtube.com/watch?v=x", Title: "t", Transcript: []TranscriptLine{{Text: "hi", Start: 0, Duration: 1}}}},
		{Kind: StateArticle, Article: &ArticleState{Title: "Article", Content: "<p>hi</p>", TextContent: "hi"}},
		{Kind: StatePdf, Pdf: &PdfState{URL: "https://x/y.pdf", Title: "doc"}},
		{Kind: StateTwitter, Twitter: &TwitterState{URL: "https://x.com", Tweets: []Tweet{{Text: "hello"}}}},
	}
	for _, c := range cases {
		f := NewStateResponseFrame(c)
		got := roundTrip(t, f)
		assert.Equal(t, f, got)
	}
}

func TestReadFramedRejectsOversizedLengthWithoutReadingPayload(t *testing.T) {
	var buf bytes.Buffer
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], 10*1024*1024) // declares 10 MiB
	buf.Write(header[:])
	// Deliberately do not write any payload bytes: a correct implementation
	// must reject based on the header alone, never attempt io.ReadFull for
	// the declared length.
	_, err := ReadFramed(&buf)
	require.Error(t, err)
}

func TestReadFramedCleanEOF(t *testing.T) {
	_, err := ReadFramed(bytes.NewReader(nil))
	assert.Equal(t, io.EOF, err)
}

func TestValidateRejectsMismatchedPayload(t *testing.T) {
	f := Frame{Kind: FrameRegister}
	assert.Error(t, f.Validate())
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	f := Frame{Kind: "bogus"}
	assert.Error(t, f.Validate())
}
