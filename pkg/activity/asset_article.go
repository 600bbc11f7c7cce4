package activity

import (
	"encoding/json"
	"fmt"

	"github.com/eurora-ai/eurora-core/pkg/message"
)

// ArticleAsset is the Article variant of ActivityAsset (spec §3), populated
// from a go-shiori/go-readability parse of the page the browser extension
// captured (see pkg/strategy's BrowserStrategy).
type ArticleAsset struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	SiteName    string `json:"site_name"`
	Byline      string `json:"byline"`
	Excerpt     string `json:"excerpt"`
	TextContent string `json:"text_content"`
}

var _ Asset = (*ArticleAsset)(nil)

func (a *ArticleAsset) Name() string  { return a.Title }
func (a *ArticleAsset) Icon() *string { s := "article"; return &s }

func (a *ArticleAsset) ConstructMessage() message.Message {
	text := fmt.Sprintf(
		"I am reading an article titled '%s'%s. Here's the article content: \n%s",
		a.Title, siteSuffix(a.SiteName), a.TextContent,
	)
	return message.NewTextMessage(message.RoleUser, text)
}

func siteSuffix(site string) string {
	if site == "" {
		return ""
	}
	return fmt.Sprintf(" (from %s)", site)
}

func (a *ArticleAsset) ContextChip() *ContextChip {
	return &ContextChip{ID: a.ID, Name: "article", Attrs: map[string]string{}}
}

func (a *ArticleAsset) AssetType() string     { return "ArticleAsset" }
func (a *ArticleAsset) FileExtension() string { return "json" }
func (a *ArticleAsset) MimeType() string      { return "application/json" }
func (a *ArticleAsset) UniqueID() string      { return a.ID }
func (a *ArticleAsset) DisplayName() string   { return a.Title }

func (a *ArticleAsset) SerializeContent() ([]byte, error) {
	return json.Marshal(a)
}
