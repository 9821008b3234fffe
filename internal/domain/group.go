package domain

import (
	"time"

	"github.com/google/uuid"
)

type GroupMessage struct {
	ID          uuid.UUID     `json:"_id"`
	GroupID     string        `json:"group"`
	SenderID    string        `json:"senderId"`
	Sender      *User         `json:"sender"`
	Content     *string       `json:"content"`
	MessageType string        `json:"messageType"`
	SeenBy      []string      `json:"seenBy"`
	ReplyTo     *GroupReplyTo `json:"replyTo,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	InsertedAt  time.Time     `json:"insertedAt"`
}

type GroupReplyTo struct {
	SenderImg string `json:"senderImg"`
	MText     string `json:"mtext"`
}

const (
	GroupMessageText  = "text"
	GroupMessageImage = "image"
	GroupMessageVideo = "video"
	GroupMessageAudio = "audio"
	GroupMessageLink  = "link"
)

// HasFile reports whether the message content points at an uploaded file.
func (m *GroupMessage) HasFile() bool {
	if m.Content == nil || *m.Content == "" {
		return false
	}
	return m.MessageType != GroupMessageText && m.MessageType != GroupMessageLink
}

// IsMediaType reports whether t names an upload backed message type.
func IsMediaType(t string) bool {
	switch t {
	case GroupMessageImage, GroupMessageVideo, GroupMessageAudio:
		return true
	}
	return false
}
