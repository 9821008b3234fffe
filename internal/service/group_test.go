package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"social_network/internal/domain"
	apperrors "social_network/pkg/errors"
	"social_network/pkg/logger"
)

func newTestGroupService() (GroupChatService, *fakeGroupRepo, *fakeMedia) {
	repo := newFakeGroupRepo()
	media := &fakeMedia{}
	svc := NewGroupChatService(repo, media, domain.NewClassifier(domain.DefaultMaxRepeat, domain.DefaultMaxExpandedBytes), logger.NewNop())
	return svc, repo, media
}

func TestGroupCreateTextClassifiesContent(t *testing.T) {
	svc, _, _ := newTestGroupService()
	ctx := context.Background()

	plain, err := svc.CreateText(ctx, GroupTextInput{GroupID: "g1", SenderID: "u1", MessageType: "text", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, domain.GroupMessageText, plain.MessageType)
	assert.Equal(t, "hello", *plain.Content)

	link, err := svc.CreateText(ctx, GroupTextInput{GroupID: "g1", SenderID: "u1", MessageType: "text", Content: "go to https://go.dev"})
	require.NoError(t, err)
	assert.Equal(t, domain.GroupMessageLink, link.MessageType)

	expanded, err := svc.CreateText(ctx, GroupTextInput{GroupID: "g1", SenderID: "u1", Content: "$2 {yo}"})
	require.NoError(t, err)
	assert.Equal(t, domain.GroupMessageText, expanded.MessageType)
	assert.Equal(t, "yo, yo.", *expanded.Content)
}

func TestGroupCreateTextDedupesSeenBy(t *testing.T) {
	svc, _, _ := newTestGroupService()

	msg, err := svc.CreateText(context.Background(), GroupTextInput{
		GroupID: "g1", SenderID: "u1", Content: "x", SeenBy: []string{"u1", "", "u1", "u2"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, msg.SeenBy)
}

func TestGroupCreateRequiresGroupAndSender(t *testing.T) {
	svc, _, _ := newTestGroupService()

	_, err := svc.CreateText(context.Background(), GroupTextInput{SenderID: "u1", Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.CreateMedia(context.Background(), GroupMediaInput{GroupID: "g1"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestGroupCreateMediaRejectsTextType(t *testing.T) {
	svc, _, _ := newTestGroupService()

	_, err := svc.CreateMedia(context.Background(), GroupMediaInput{GroupID: "g1", SenderID: "u1", MessageType: "text"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestGroupCreateMediaCleansUpOnStoreFailure(t *testing.T) {
	svc, repo, media := newTestGroupService()
	repo.failNext = true

	_, err := svc.CreateMedia(context.Background(), GroupMediaInput{
		GroupID: "g1", SenderID: "u1", MessageType: "image", ContentPath: "/groupFile/image-1.png",
	})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, []string{"/groupFile/image-1.png"}, media.removed)
}

func TestGroupDeleteRemovesMediaFile(t *testing.T) {
	svc, repo, media := newTestGroupService()
	ctx := context.Background()

	msg, err := svc.CreateMedia(ctx, GroupMediaInput{
		GroupID: "g1", SenderID: "u1", MessageType: "video", ContentPath: "/groupFile/video-1.mp4",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, msg.ID))
	assert.Empty(t, repo.messages)
	assert.Equal(t, []string{"/groupFile/video-1.mp4"}, media.removed)
}

func TestGroupDeleteTextKeepsFiles(t *testing.T) {
	svc, _, media := newTestGroupService()
	ctx := context.Background()

	msg, err := svc.CreateText(ctx, GroupTextInput{GroupID: "g1", SenderID: "u1", Content: "https://x.y"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, msg.ID))
	assert.Empty(t, media.removed)
}

func TestGroupDeleteUnknown(t *testing.T) {
	svc, _, _ := newTestGroupService()

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrGroupMessageNotFound)
}

func TestGroupMarkSeenIsIdempotent(t *testing.T) {
	svc, _, _ := newTestGroupService()
	ctx := context.Background()

	msg, err := svc.CreateText(ctx, GroupTextInput{GroupID: "g1", SenderID: "u1", Content: "x"})
	require.NoError(t, err)

	_, err = svc.MarkSeen(ctx, msg.ID, "u2")
	require.NoError(t, err)
	seen, err := svc.MarkSeen(ctx, msg.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, seen.SeenBy)

	_, err = svc.MarkSeen(ctx, msg.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestGroupReplyAndList(t *testing.T) {
	svc, _, _ := newTestGroupService()
	ctx := context.Background()

	_, err := svc.CreateText(ctx, GroupTextInput{GroupID: "g1", SenderID: "u1", Content: "first"})
	require.NoError(t, err)
	reply, err := svc.Reply(ctx, GroupReplyInput{
		GroupID: "g1", SenderID: "u2", Text: "agreed", SenderImg: "/img/u1.png", MText: "first",
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ReplyTo)
	assert.Equal(t, "first", reply.ReplyTo.MText)
	assert.Equal(t, domain.GroupMessageText, reply.MessageType)

	_, err = svc.CreateText(ctx, GroupTextInput{GroupID: "g2", SenderID: "u1", Content: "other"})
	require.NoError(t, err)

	msgs, err := svc.List(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", *msgs[0].Content)
	assert.Equal(t, "agreed", *msgs[1].Content)
}

func TestGroupCreateMediaRejectedTypeRemovesUpload(t *testing.T) {
	svc, _, media := newTestGroupService()

	_, err := svc.CreateMedia(context.Background(), GroupMediaInput{
		GroupID: "g1", SenderID: "u1", MessageType: "text", ContentPath: "/groupFile/image-2.png",
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Equal(t, []string{"/groupFile/image-2.png"}, media.removed)
}
