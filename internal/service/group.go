package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"social_network/internal/domain"
	"social_network/internal/repository"
	apperrors "social_network/pkg/errors"
	"social_network/pkg/logger"
)

type GroupTextInput struct {
	GroupID     string
	SenderID    string
	MessageType string
	Content     string
	SeenBy      []string
	CreatedAt   string
}

type GroupMediaInput struct {
	GroupID     string
	SenderID    string
	MessageType string
	// ContentPath is the public path of the stored upload, empty when no file was sent.
	ContentPath string
	SeenBy      []string
	CreatedAt   string
}

type GroupReplyInput struct {
	GroupID     string
	SenderID    string
	MessageType string
	Text        string
	SenderImg   string
	MText       string
	CreatedAt   string
}

type GroupChatService interface {
	CreateText(ctx context.Context, in GroupTextInput) (*domain.GroupMessage, error)
	CreateMedia(ctx context.Context, in GroupMediaInput) (*domain.GroupMessage, error)
	Reply(ctx context.Context, in GroupReplyInput) (*domain.GroupMessage, error)
	List(ctx context.Context, groupID string) ([]*domain.GroupMessage, error)
	MarkSeen(ctx context.Context, messageID uuid.UUID, userID string) (*domain.GroupMessage, error)
	// Delete removes the message and, for media messages, its uploaded file.
	Delete(ctx context.Context, messageID uuid.UUID) error
}

type groupChatService struct {
	groupRepo  repository.GroupMessageRepository
	media      MediaService
	classifier *domain.Classifier
	log        logger.Logger
}

func NewGroupChatService(groupRepo repository.GroupMessageRepository, media MediaService, classifier *domain.Classifier, log logger.Logger) GroupChatService {
	return &groupChatService{
		groupRepo:  groupRepo,
		media:      media,
		classifier: classifier,
		log:        log,
	}
}

func (s *groupChatService) CreateText(ctx context.Context, in GroupTextInput) (*domain.GroupMessage, error) {
	if err := requireGroupAndSender(in.GroupID, in.SenderID); err != nil {
		return nil, err
	}

	content := s.classifier.Classify(in.Content)
	messageType := lo.Ternary(in.MessageType == "", domain.GroupMessageText, in.MessageType)
	if content.IsLink() {
		messageType = domain.GroupMessageLink
	}
	text := content.Text

	return s.groupRepo.Create(ctx, &domain.GroupMessage{
		GroupID:     in.GroupID,
		SenderID:    in.SenderID,
		Content:     &text,
		MessageType: messageType,
		SeenBy:      uniqueIDs(in.SeenBy),
		CreatedAt:   in.CreatedAt,
	})
}

func (s *groupChatService) CreateMedia(ctx context.Context, in GroupMediaInput) (*domain.GroupMessage, error) {
	var content *string
	if in.ContentPath != "" {
		content = &in.ContentPath
	}

	err := requireGroupAndSender(in.GroupID, in.SenderID)
	if err == nil && in.MessageType != "" && !domain.IsMediaType(in.MessageType) {
		err = fmt.Errorf("%w: message type %q is not a media type", apperrors.ErrBadRequest, in.MessageType)
	}
	if err != nil {
		s.discardUpload(content)
		return nil, err
	}

	saved, err := s.groupRepo.Create(ctx, &domain.GroupMessage{
		GroupID:     in.GroupID,
		SenderID:    in.SenderID,
		Content:     content,
		MessageType: in.MessageType,
		SeenBy:      uniqueIDs(in.SeenBy),
		CreatedAt:   in.CreatedAt,
	})
	if err != nil {
		// the row was never written, so nobody references the file
		s.discardUpload(content)
	}
	return saved, err
}

func (s *groupChatService) discardUpload(content *string) {
	if content == nil {
		return
	}
	if err := s.media.Remove(*content); err != nil {
		s.log.Warn("Failed to clean up orphaned upload", "error", err, "path", *content)
	}
}

func (s *groupChatService) Reply(ctx context.Context, in GroupReplyInput) (*domain.GroupMessage, error) {
	if err := requireGroupAndSender(in.GroupID, in.SenderID); err != nil {
		return nil, err
	}

	text := in.Text
	return s.groupRepo.Create(ctx, &domain.GroupMessage{
		GroupID:     in.GroupID,
		SenderID:    in.SenderID,
		Content:     &text,
		MessageType: lo.Ternary(in.MessageType == "", domain.GroupMessageText, in.MessageType),
		SeenBy:      []string{},
		ReplyTo:     &domain.GroupReplyTo{SenderImg: in.SenderImg, MText: in.MText},
		CreatedAt:   in.CreatedAt,
	})
}

func (s *groupChatService) List(ctx context.Context, groupID string) ([]*domain.GroupMessage, error) {
	if groupID == "" {
		return nil, apperrors.ErrBadRequest
	}
	return s.groupRepo.ListByGroup(ctx, groupID)
}

func (s *groupChatService) MarkSeen(ctx context.Context, messageID uuid.UUID, userID string) (*domain.GroupMessage, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", apperrors.ErrBadRequest)
	}
	return s.groupRepo.AddSeenBy(ctx, messageID, userID)
}

func (s *groupChatService) Delete(ctx context.Context, messageID uuid.UUID) error {
	message, err := s.groupRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if err := s.groupRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	if message.HasFile() {
		if err := s.media.Remove(*message.Content); err != nil {
			s.log.Warn("Group message deleted but file removal failed", "error", err, "message_id", messageID)
		}
	}
	return nil
}

func requireGroupAndSender(groupID, senderID string) error {
	if groupID == "" || senderID == "" {
		return fmt.Errorf("%w: group and sender are required", apperrors.ErrBadRequest)
	}
	return nil
}

func uniqueIDs(ids []string) []string {
	return lo.Uniq(lo.Compact(ids))
}
