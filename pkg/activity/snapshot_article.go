package activity

import (
	"fmt"
	"strings"

	"github.com/eurora-ai/eurora-core/pkg/message"
)

// ArticleSnapshot carries incremental highlight/selection state within an
// article (spec FEATURE SUPPLEMENTS, original_source's snapshots/article.rs
// — not present in the distilled spec.md, which treats Article as
// asset-only; restored here since the original snapshots highlight state
// separately from the asset's static text capture).
type ArticleSnapshot struct {
	IDField       string `json:"id"`
	CreatedAt_    int64  `json:"created_at"`
	UpdatedAt_    int64  `json:"updated_at"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	Highlight     string `json:"highlight"`
	SelectionText string `json:"selection_text"`
}

var _ Snapshot = (*ArticleSnapshot)(nil)

func (s *ArticleSnapshot) ID() string       { return s.IDField }
func (s *ArticleSnapshot) CreatedAt() int64 { return s.CreatedAt_ }
func (s *ArticleSnapshot) UpdatedAt() int64 { return s.UpdatedAt_ }

// Touch updates UpdatedAt to now.
func (s *ArticleSnapshot) Touch(now int64) { s.UpdatedAt_ = now }

// HasContent reports whether there is any highlight or selection text.
func (s *ArticleSnapshot) HasContent() bool {
	return s.Highlight != "" || s.SelectionText != ""
}

// PrimaryContent returns the highlight if present, else the selection text.
func (s *ArticleSnapshot) PrimaryContent() string {
	if s.Highlight != "" {
		return s.Highlight
	}
	return s.SelectionText
}

// ContentLength returns the rune length of PrimaryContent.
func (s *ArticleSnapshot) ContentLength() int {
	return len([]rune(s.PrimaryContent()))
}

// ContainsKeyword reports whether PrimaryContent contains keyword
// case-insensitively.
func (s *ArticleSnapshot) ContainsKeyword(keyword string) bool {
	return strings.Contains(strings.ToLower(s.PrimaryContent()), strings.ToLower(keyword))
}

func (s *ArticleSnapshot) ConstructMessages() []message.Message {
	if !s.HasContent() {
		text := fmt.Sprintf("I highlighted part of the article '%s' but no text was captured.", s.Title)
		return []message.Message{message.NewTextMessage(message.RoleUser, text)}
	}
	text := fmt.Sprintf("I highlighted the following in the article '%s': %s", s.Title, s.PrimaryContent())
	return []message.Message{message.NewTextMessage(message.RoleUser, text)}
}
