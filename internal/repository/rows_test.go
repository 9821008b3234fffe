package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = f.values[i].(uuid.UUID)
		case *string:
			*p = f.values[i].(string)
		case **string:
			if f.values[i] == nil {
				*p = nil
			} else {
				*p = strPtr(f.values[i].(string))
			}
		case *bool:
			*p = f.values[i].(bool)
		case *[]string:
			*p, _ = f.values[i].([]string)
		case *time.Time:
			*p = f.values[i].(time.Time)
		}
	}
	return nil
}

func TestChatRowToDomainResolvesSender(t *testing.T) {
	id := uuid.New()
	row, err := scanChat(fakeRow{values: []any{
		id, "u1", "u2", "hi, hi.", true, "see https://x", nil,
		"video", "01:00", "ok", nil, true, "10:00",
		"u1", "Alice", "/img/a.png",
	}})
	require.NoError(t, err)

	msg := row.toDomain()
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, "hi, hi.", *msg.Text)
	assert.True(t, msg.Link.IsLink)
	assert.Equal(t, "see https://x", msg.Link.Link)
	assert.Nil(t, msg.MediaURL)
	require.NotNil(t, msg.Call)
	assert.Equal(t, "video", msg.Call.CallType)
	assert.True(t, msg.Reply.IsReplay)
	assert.Equal(t, "ok", *msg.Reply.Text)
	assert.Nil(t, msg.Reply.Image)
	require.NotNil(t, msg.User)
	assert.Equal(t, "Alice", msg.User.Name)
	assert.Equal(t, "10:00", msg.CreatedAt)
}

func TestChatRowToDomainMissingSenderAndCall(t *testing.T) {
	row, err := scanChat(fakeRow{values: []any{
		uuid.New(), "ghost", "u2", "hello", false, nil, nil,
		"audio", nil, nil, nil, false, "",
		nil, nil, nil,
	}})
	require.NoError(t, err)

	msg := row.toDomain()
	assert.Nil(t, msg.User)
	assert.Nil(t, msg.Call)
	assert.False(t, msg.Link.IsLink)
	assert.Empty(t, msg.Link.Link)
}

func TestScanChatPropagatesError(t *testing.T) {
	_, err := scanChat(fakeRow{err: errors.New("boom")})
	assert.EqualError(t, err, "boom")
}

func TestGroupRowToDomain(t *testing.T) {
	now := time.Now()
	row, err := scanGroup(fakeRow{values: []any{
		uuid.New(), "g1", "u1", "/groupFile/image-1.png", "image", nil,
		"/img/b.png", nil, "12:00", now,
		"u1", nil, nil,
	}})
	require.NoError(t, err)

	msg := row.toDomain()
	assert.Equal(t, []string{}, msg.SeenBy)
	require.NotNil(t, msg.ReplyTo)
	assert.Equal(t, "/img/b.png", msg.ReplyTo.SenderImg)
	assert.Empty(t, msg.ReplyTo.MText)
	require.NotNil(t, msg.Sender)
	assert.Empty(t, msg.Sender.Name)
	assert.Equal(t, now, msg.InsertedAt)
}
