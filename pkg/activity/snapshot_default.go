package activity

import (
	"fmt"

	"github.com/eurora-ai/eurora-core/pkg/message"
)

// DefaultSnapshot is the fallback ActivitySnapshot variant: a free-form note
// attached to an activity with no dedicated strategy snapshot shape.
type DefaultSnapshot struct {
	IDField    string `json:"id"`
	CreatedAt_ int64  `json:"created_at"`
	UpdatedAt_ int64  `json:"updated_at"`
	Note       string `json:"note"`
}

var _ Snapshot = (*DefaultSnapshot)(nil)

func (s *DefaultSnapshot) ID() string       { return s.IDField }
func (s *DefaultSnapshot) CreatedAt() int64 { return s.CreatedAt_ }
func (s *DefaultSnapshot) UpdatedAt() int64 { return s.UpdatedAt_ }

// Touch updates UpdatedAt to now.
func (s *DefaultSnapshot) Touch(now int64) { s.UpdatedAt_ = now }

func (s *DefaultSnapshot) ConstructMessages() []message.Message {
	return []message.Message{message.NewTextMessage(message.RoleUser, fmt.Sprintf("Note: %s", s.Note))}
}
