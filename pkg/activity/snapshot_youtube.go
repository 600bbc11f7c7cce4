package activity

import (
	"fmt"

	"github.com/eurora-ai/eurora-core/pkg/message"
)

// YoutubeSnapshot is the Youtube variant of ActivitySnapshot (spec §3): a
// point-in-time observation of the current playhead, optionally carrying a
// video frame for multimodal consultation.
type YoutubeSnapshot struct {
	IDField     string `json:"id"`
	CreatedAt_  int64  `json:"created_at"`
	UpdatedAt_  int64  `json:"updated_at"`
	CurrentTime float32
	Frame       []byte // PNG bytes of the current playhead frame, nil if unavailable
	FrameMime   string
}

var _ Snapshot = (*YoutubeSnapshot)(nil)

func (s *YoutubeSnapshot) ID() string      { return s.IDField }
func (s *YoutubeSnapshot) CreatedAt() int64 { return s.CreatedAt_ }
func (s *YoutubeSnapshot) UpdatedAt() int64 { return s.UpdatedAt_ }

// Touch updates UpdatedAt to now, matching the monotonic touch() invariant
// (spec §4.5).
func (s *YoutubeSnapshot) Touch(now int64) { s.UpdatedAt_ = now }

func (s *YoutubeSnapshot) ConstructMessages() []message.Message {
	text := fmt.Sprintf("The video is currently at %gs.", s.CurrentTime)
	msg := message.NewTextMessage(message.RoleUser, text)
	if len(s.Frame) > 0 {
		mime := s.FrameMime
		if mime == "" {
			mime = "image/png"
		}
		msg.Content = append(msg.Content, message.ImageContent(s.Frame, mime))
	}
	return []message.Message{msg}
}
