package activity

import (
	"fmt"
	"strings"

	"github.com/eurora-ai/eurora-core/pkg/message"
)

// InteractionType tags the kind of Twitter/X interaction a snapshot
// captures (spec §3).
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionLike     InteractionType = "like"
	InteractionRetweet  InteractionType = "retweet"
	InteractionReply    InteractionType = "reply"
	InteractionQuote    InteractionType = "quote"
	InteractionFollow   InteractionType = "follow"
	InteractionBookmark InteractionType = "bookmark"
)

// TwitterSnapshot is the Twitter variant of ActivitySnapshot (spec §3): a
// batch of tweets plus the interaction that produced this observation.
type TwitterSnapshot struct {
	IDField     string          `json:"id"`
	CreatedAt_  int64           `json:"created_at"`
	UpdatedAt_  int64           `json:"updated_at"`
	Tweets      []Tweet         `json:"tweets"`
	Interaction InteractionType `json:"interaction_type"`
	Target      *string         `json:"target,omitempty"`
}

var _ Snapshot = (*TwitterSnapshot)(nil)

func (s *TwitterSnapshot) ID() string       { return s.IDField }
func (s *TwitterSnapshot) CreatedAt() int64 { return s.CreatedAt_ }
func (s *TwitterSnapshot) UpdatedAt() int64 { return s.UpdatedAt_ }

// Touch updates UpdatedAt to now.
func (s *TwitterSnapshot) Touch(now int64) { s.UpdatedAt_ = now }

// TweetCount returns the number of tweets captured.
func (s *TwitterSnapshot) TweetCount() int { return len(s.Tweets) }

// HasTweets reports whether any tweets were captured.
func (s *TwitterSnapshot) HasTweets() bool { return len(s.Tweets) > 0 }

// Hashtags returns every distinct "#word" token found across tweet text, in
// first-seen order.
func (s *TwitterSnapshot) Hashtags() []string { return tokensWithPrefix(s.Tweets, "#") }

// Mentions returns every distinct "@word" token found across tweet text, in
// first-seen order.
func (s *TwitterSnapshot) Mentions() []string { return tokensWithPrefix(s.Tweets, "@") }

func tokensWithPrefix(tweets []Tweet, prefix string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tweets {
		for _, word := range strings.Fields(t.Text) {
			if strings.HasPrefix(word, prefix) && len(word) > 1 {
				tok := strings.TrimRight(word, ".,!?:;")
				if !seen[tok] {
					seen[tok] = true
					out = append(out, tok)
				}
			}
		}
	}
	return out
}

// SearchTweets returns every tweet whose text contains query,
// case-insensitively.
func (s *TwitterSnapshot) SearchTweets(query string) []Tweet {
	q := strings.ToLower(query)
	var out []Tweet
	for _, t := range s.Tweets {
		if strings.Contains(strings.ToLower(t.Text), q) {
			out = append(out, t)
		}
	}
	return out
}

// TweetsByAuthor returns every tweet whose Author equals author.
func (s *TwitterSnapshot) TweetsByAuthor(author string) []Tweet {
	var out []Tweet
	for _, t := range s.Tweets {
		if t.Author == author {
			out = append(out, t)
		}
	}
	return out
}

// IsInteraction reports whether this snapshot's interaction matches kind.
func (s *TwitterSnapshot) IsInteraction(kind InteractionType) bool { return s.Interaction == kind }

// InteractionDescription renders a short human-readable description of the
// captured interaction, including its target when present.
func (s *TwitterSnapshot) InteractionDescription() string {
	verb := string(s.Interaction)
	if verb == "" {
		verb = string(InteractionView)
	}
	if s.Target != nil && *s.Target != "" {
		return fmt.Sprintf("%s on %s", verb, *s.Target)
	}
	return verb
}

func (s *TwitterSnapshot) ConstructMessages() []message.Message {
	lines := make([]string, 0, len(s.Tweets))
	for _, t := range s.Tweets {
		lines = append(lines, fmt.Sprintf("@%s: %s", t.Author, t.Text))
	}
	text := fmt.Sprintf(
		"I %s on Twitter/X. Here are the relevant tweets:\n%s",
		s.InteractionDescription(), strings.Join(lines, "\n"),
	)
	return []message.Message{message.NewTextMessage(message.RoleUser, text)}
}
