package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatMessagePlain(t *testing.T) {
	msg := NewChatMessage(SendMessageInput{
		SenderID:    "u1",
		RecipientID: "u2",
		RawText:     "hello",
		Timestamp:   "2024-01-01T10:00:00Z",
	}, NewClassifier(DefaultMaxRepeat, DefaultMaxExpandedBytes))

	require.NotNil(t, msg.Text)
	assert.Equal(t, "hello", *msg.Text)
	assert.Equal(t, "u1", msg.SenderID)
	assert.Equal(t, "u2", msg.RecipientID)
	assert.Equal(t, "2024-01-01T10:00:00Z", msg.CreatedAt)
	assert.False(t, msg.Link.IsLink)
	assert.Nil(t, msg.MediaURL)
	assert.Nil(t, msg.Call)
	assert.False(t, msg.Reply.IsReplay)
}

func TestNewChatMessageLinkMediaAndCall(t *testing.T) {
	msg := NewChatMessage(SendMessageInput{
		SenderID: "u1",
		RawText:  "$2{go} https://go.dev",
		MediaURL: "/chatFile/media-1.png",
		Call:     &CallInput{Type: "video", Duration: "00:42"},
	}, NewClassifier(DefaultMaxRepeat, DefaultMaxExpandedBytes))

	assert.True(t, msg.Link.IsLink)
	assert.Equal(t, "$2{go} https://go.dev", msg.Link.Link)
	require.NotNil(t, msg.MediaURL)
	assert.Equal(t, "/chatFile/media-1.png", *msg.MediaURL)
	require.NotNil(t, msg.Call)
	assert.Equal(t, CallInfo{CallType: "video", Duration: "00:42"}, *msg.Call)
}

func TestNewChatMessageIgnoresPartialCall(t *testing.T) {
	in := SendMessageInput{RawText: "x", Call: &CallInput{Type: "audio"}}
	assert.Nil(t, NewChatMessage(in, NewClassifier(DefaultMaxRepeat, DefaultMaxExpandedBytes)).Call)

	in.Call = &CallInput{Duration: "10"}
	assert.Nil(t, NewChatMessage(in, NewClassifier(DefaultMaxRepeat, DefaultMaxExpandedBytes)).Call)
}

func TestGroupMessageHasFile(t *testing.T) {
	content := "/groupFile/image-1.png"
	assert.True(t, (&GroupMessage{MessageType: GroupMessageImage, Content: &content}).HasFile())
	assert.False(t, (&GroupMessage{MessageType: GroupMessageText, Content: &content}).HasFile())
	assert.False(t, (&GroupMessage{MessageType: GroupMessageLink, Content: &content}).HasFile())
	assert.False(t, (&GroupMessage{MessageType: GroupMessageAudio}).HasFile())
}
