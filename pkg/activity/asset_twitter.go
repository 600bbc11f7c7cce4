package activity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eurora-ai/eurora-core/pkg/message"
)

// Tweet is one tweet captured as part of a Twitter asset or snapshot.
type Tweet struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
	Author    string `json:"author,omitempty"`
}

// TwitterAsset is the Twitter variant of ActivityAsset (spec §3): the
// initial capture of a timeline/thread when the strategy first observes it.
type TwitterAsset struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	Title  string  `json:"title"`
	Tweets []Tweet `json:"tweets"`
}

var _ Asset = (*TwitterAsset)(nil)

func (a *TwitterAsset) Name() string  { return a.Title }
func (a *TwitterAsset) Icon() *string { s := "twitter"; return &s }

func (a *TwitterAsset) ConstructMessage() message.Message {
	lines := make([]string, 0, len(a.Tweets))
	for _, t := range a.Tweets {
		lines = append(lines, fmt.Sprintf("@%s: %s", t.Author, t.Text))
	}
	text := fmt.Sprintf(
		"I am viewing a Twitter/X timeline titled '%s'. Here are the tweets:\n%s",
		a.Title, strings.Join(lines, "\n"),
	)
	return message.NewTextMessage(message.RoleUser, text)
}

func (a *TwitterAsset) ContextChip() *ContextChip {
	return &ContextChip{ID: a.ID, Name: "twitter", Attrs: map[string]string{}}
}

func (a *TwitterAsset) AssetType() string     { return "TwitterAsset" }
func (a *TwitterAsset) FileExtension() string { return "json" }
func (a *TwitterAsset) MimeType() string      { return "application/json" }
func (a *TwitterAsset) UniqueID() string      { return a.ID }
func (a *TwitterAsset) DisplayName() string   { return a.Title }

func (a *TwitterAsset) SerializeContent() ([]byte, error) {
	return json.Marshal(a)
}
