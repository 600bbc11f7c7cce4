package activity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eurora-ai/eurora-core/pkg/message"
)

// youtubeContextChipExtensionID is the fixed extension id the original
// browser extension manifest uses for the "video" context chip; preserved
// verbatim from the original Rust implementation's youtube.rs.
const youtubeContextChipExtensionID = "7c7b59bb-d44d-431a-9f4d-64240172e092"

// TranscriptLine is one line of a Youtube transcript.
type TranscriptLine struct {
	Text     string  `json:"text"`
	Start    float32 `json:"start"`
	Duration float32 `json:"duration"`
}

// YoutubeAsset is the Youtube variant of ActivityAsset (spec §3).
type YoutubeAsset struct {
	ID          string           `json:"id"`
	URL         string           `json:"url"`
	Title       string           `json:"title"`
	Transcript  []TranscriptLine `json:"transcript"`
	CurrentTime float32          `json:"current_time"`
}

var _ Asset = (*YoutubeAsset)(nil)

func (a *YoutubeAsset) Name() string   { return a.Title }
func (a *YoutubeAsset) Icon() *string  { s := "youtube"; return &s }

func (a *YoutubeAsset) ConstructMessage() message.Message {
	lines := make([]string, 0, len(a.Transcript))
	for _, l := range a.Transcript {
		lines = append(lines, fmt.Sprintf("%s (%gs)", l.Text, l.Start))
	}
	text := fmt.Sprintf(
		"I am watching a YouTube video titled '%s' and have a question about it. Here's the transcript of the video: \n %s",
		a.Title, strings.Join(lines, "\n"),
	)
	return message.NewTextMessage(message.RoleUser, text)
}

func (a *YoutubeAsset) ContextChip() *ContextChip {
	pos := 0
	return &ContextChip{
		ID:          a.ID,
		Name:        "video",
		ExtensionID: youtubeContextChipExtensionID,
		Attrs:       map[string]string{},
		Position:    &pos,
	}
}

func (a *YoutubeAsset) AssetType() string     { return "YoutubeAsset" }
func (a *YoutubeAsset) FileExtension() string { return "json" }
func (a *YoutubeAsset) MimeType() string      { return "application/json" }
func (a *YoutubeAsset) UniqueID() string      { return a.ID }
func (a *YoutubeAsset) DisplayName() string   { return a.Title }

func (a *YoutubeAsset) SerializeContent() ([]byte, error) {
	return json.Marshal(a)
}

// TranscriptAt returns the transcript line active at time t, if any.
func (a *YoutubeAsset) TranscriptAt(t float32) (string, bool) {
	for _, l := range a.Transcript {
		if l.Start <= t && t < l.Start+l.Duration {
			return l.Text, true
		}
	}
	return "", false
}

// FullTranscript concatenates every transcript line's text with spaces.
func (a *YoutubeAsset) FullTranscript() string {
	parts := make([]string, 0, len(a.Transcript))
	for _, l := range a.Transcript {
		parts = append(parts, l.Text)
	}
	return strings.Join(parts, " ")
}
