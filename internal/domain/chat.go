package domain

import (
	"github.com/google/uuid"
)

// ChatMessage is a direct chat message. ID never changes after insert and
// Reply is the only part mutated afterwards.
type ChatMessage struct {
	ID          uuid.UUID `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recevireId"`
	User        *User     `json:"user"`
	Text        *string   `json:"messageText"`
	Link        LinkInfo  `json:"link"`
	MediaURL    *string   `json:"mediaUrl,omitempty"`
	Call        *CallInfo `json:"call,omitempty"`
	Reply       ReplyInfo `json:"replay"`
	CreatedAt   string    `json:"time"`
}

type LinkInfo struct {
	IsLink bool   `json:"isLink"`
	Link   string `json:"link,omitempty"`
}

// CallInfo summarises a finished call; values are stored unvalidated.
type CallInfo struct {
	CallType string `json:"callType"`
	Duration string `json:"duration"`
}

type ReplyInfo struct {
	Text     *string `json:"text,omitempty"`
	Image    *string `json:"image,omitempty"`
	IsReplay bool    `json:"isReplay"`
}

// SendMessageInput is the decoded send_message socket payload.
type SendMessageInput struct {
	SenderID    string
	RecipientID string
	RawText     string
	MediaURL    string
	Call        *CallInput
	Timestamp   string
}

type CallInput struct {
	Type     string
	Duration string
}

// NewChatMessage builds the record to persist from a send request.
// Classification of the raw text happens once, here.
func NewChatMessage(in SendMessageInput, c *Classifier) *ChatMessage {
	content := c.Classify(in.RawText)
	text := content.Text

	msg := &ChatMessage{
		SenderID:    in.SenderID,
		RecipientID: in.RecipientID,
		Text:        &text,
		CreatedAt:   in.Timestamp,
	}
	if content.IsLink() {
		msg.Link = LinkInfo{IsLink: true, Link: content.Link}
	}
	if in.MediaURL != "" {
		media := in.MediaURL
		msg.MediaURL = &media
	}
	if in.Call != nil && in.Call.Type != "" && in.Call.Duration != "" {
		msg.Call = &CallInfo{CallType: in.Call.Type, Duration: in.Call.Duration}
	}
	return msg
}
