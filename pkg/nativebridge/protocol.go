// Package nativebridge implements the framed native-messaging line protocol
// between a browser extension and the Eurora native host (spec §4.2, §6),
// and the wire-level state variants carried by the gRPC side of the bridge.
//
// Grounded on the original Rust source's euro-native-messaging crate (frame
// struct shape, 4-byte little-endian length prefix, Register-first
// handshake) and, for the native-messaging/Unix-socket framed-read-loop
// idiom in Go, on the teacher's api/pkg/desktop/roocode_ipc.go.
package nativebridge

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/eurora-ai/eurora-core/pkg/eurora"
)

// MaxFrameSize is the protocol's hard cap on a single frame's JSON payload
// (spec §6: "4-byte little-endian unsigned length (≤ 1 MiB)").
const MaxFrameSize = 1 << 20

// FrameKind tags the Frame union.
type FrameKind string

const (
	FrameRegister      FrameKind = "register"
	FrameStateRequest  FrameKind = "state_request"
	FrameStateResponse FrameKind = "state_response"
)

// RegisterFrame is the mandatory first frame of a bridge session (spec §4.2,
// §6, GLOSSARY "Register frame").
type RegisterFrame struct {
	HostPID    uint32 `json:"host_pid"`
	BrowserPID uint32 `json:"browser_pid"`
}

// StateKind tags the BrowserState union carried by StateResponseFrame.
type StateKind string

const (
	StateYoutube StateKind = "youtube"
	StateArticle StateKind = "article"
	StatePdf     StateKind = "pdf"
	StateTwitter StateKind = "twitter"
)

// TranscriptLine is one line of a Youtube video transcript (spec §3).
type TranscriptLine struct {
	Text     string  `json:"text"`
	Start    float32 `json:"start"`
	Duration float32 `json:"duration"`
}

// YoutubeState is the wire shape of a Youtube browser state push.
type YoutubeState struct {
	URL         string           `json:"url"`
	Title       string           `json:"title"`
	Transcript  []TranscriptLine `json:"transcript"`
	CurrentTime float32          `json:"current_time"`
}

// ArticleState is the wire shape of an Article browser state push.
type ArticleState struct {
	Content      string `json:"content"`
	TextContent  string `json:"text_content"`
	SelectedText string `json:"selected_text,omitempty"`
	Highlight    string `json:"highlight,omitempty"`
	Title        string `json:"title"`
	SiteName     string `json:"site_name"`
	Language     string `json:"language"`
	Excerpt      string `json:"excerpt"`
	Length       int32  `json:"length"`
	URL          string `json:"url,omitempty"`
}

// PdfState is the wire shape of a PDF browser state push.
type PdfState struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	SelectedText string `json:"selected_text"`
}

// Tweet is one tweet in a Twitter browser state push.
type Tweet struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
	Author    string `json:"author,omitempty"`
}

// TwitterState is the wire shape of a Twitter browser state push.
type TwitterState struct {
	URL             string  `json:"url"`
	Title           string  `json:"title"`
	Tweets          []Tweet `json:"tweets"`
	Timestamp       string  `json:"timestamp"`
	InteractionType string  `json:"interaction_type,omitempty"`
	Target          *string `json:"target,omitempty"`
}

// StateResponseFrame carries at most one of the four browser state variants
// (spec §6 GetStateStreaming: "tagged variant {Youtube, Article, PDF, Twitter}").
type StateResponseFrame struct {
	Kind    StateKind     `json:"state_kind"`
	Youtube *YoutubeState `json:"youtube,omitempty"`
	Article *ArticleState `json:"article,omitempty"`
	Pdf     *PdfState     `json:"pdf,omitempty"`
	Twitter *TwitterState `json:"twitter,omitempty"`
}

// StateRequestFrame elicits at most one StateResponse (spec §6). It carries
// no fields today but is a distinct type so the wire shape can grow.
type StateRequestFrame struct{}

// Frame is the top-level tagged union exchanged over both the stdin/stdout
// line protocol and the gRPC Open stream.
type Frame struct {
	Kind          FrameKind           `json:"kind"`
	Register      *RegisterFrame      `json:"register,omitempty"`
	StateRequest  *StateRequestFrame  `json:"state_request,omitempty"`
	StateResponse *StateResponseFrame `json:"state_response,omitempty"`
}

// NewRegisterFrame builds the mandatory first frame of a session.
func NewRegisterFrame(hostPID, browserPID uint32) Frame {
	return Frame{Kind: FrameRegister, Register: &RegisterFrame{HostPID: hostPID, BrowserPID: browserPID}}
}

// NewStateRequestFrame builds an outbound state-poll frame.
func NewStateRequestFrame() Frame {
	return Frame{Kind: FrameStateRequest, StateRequest: &StateRequestFrame{}}
}

// NewStateResponseFrame wraps a decoded state value.
func NewStateResponseFrame(r StateResponseFrame) Frame {
	return Frame{Kind: FrameStateResponse, StateResponse: &r}
}

// Validate rejects structurally inconsistent frames (wrong/missing payload
// for the declared Kind) — the "malformed frame" case of spec §7's Protocol
// error kind.
func (f Frame) Validate() error {
	switch f.Kind {
	case FrameRegister:
		if f.Register == nil {
			return eurora.WithKind(eurora.KindProtocol, fmt.Errorf("register frame missing payload"))
		}
	case FrameStateRequest:
		if f.StateRequest == nil {
			return eurora.WithKind(eurora.KindProtocol, fmt.Errorf("state_request frame missing payload"))
		}
	case FrameStateResponse:
		if f.StateResponse == nil {
			return eurora.WithKind(eurora.KindProtocol, fmt.Errorf("state_response frame missing payload"))
		}
	default:
		return eurora.WithKind(eurora.KindProtocol, fmt.Errorf("unknown frame kind %q", f.Kind))
	}
	return nil
}

// WriteFramed encodes f as length-prefixed JSON and writes it to w (spec §6:
// "4-byte little-endian unsigned length ∥ UTF-8 JSON payload").
func WriteFramed(w io.Writer, f Frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return eurora.WithKind(eurora.KindProtocol, fmt.Errorf("marshal frame: %w", err))
	}
	if len(payload) > MaxFrameSize {
		return eurora.WithKind(eurora.KindProtocol, fmt.Errorf("frame payload %d bytes exceeds max %d", len(payload), MaxFrameSize))
	}
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return eurora.WithKind(eurora.KindTransport, fmt.Errorf("write frame length: %w", err))
	}
	if _, err := w.Write(payload); err != nil {
		return eurora.WithKind(eurora.KindTransport, fmt.Errorf("write frame payload: %w", err))
	}
	return nil
}

// ReadFramed reads one length-prefixed frame from r. It returns (Frame{},
// io.EOF) cleanly at stream end (no partial header read), and rejects
// an oversized declared length before allocating or reading the payload
// (spec §8 scenario 6: "reject ... without allocating the payload").
func ReadFramed(r io.Reader) (Frame, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return Frame{}, io.EOF
		}
		return Frame{}, eurora.WithKind(eurora.KindTransport, fmt.Errorf("read frame length: %w", err))
	}
	length := binary.LittleEndian.Uint32(header[:])
	if length > MaxFrameSize {
		return Frame{}, eurora.WithKind(eurora.KindProtocol, fmt.Errorf("declared frame length %d exceeds max %d", length, MaxFrameSize))
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, eurora.WithKind(eurora.KindTransport, fmt.Errorf("read frame payload: %w", err))
	}
	var f Frame
	if err := json.Unmarshal(payload, &f); err != nil {
		return Frame{}, eurora.WithKind(eurora.KindProtocol, fmt.Errorf("unmarshal frame: %w", err))
	}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}
