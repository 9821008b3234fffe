package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"social_network/internal/domain"
	"social_network/internal/metrics"
	"social_network/internal/repository"
	apperrors "social_network/pkg/errors"
	"social_network/pkg/logger"
)

type ChatService interface {
	// SendMessage stores a chat message and returns it with the sender resolved.
	SendMessage(ctx context.Context, in domain.SendMessageInput) (*domain.ChatMessage, error)
	// AttachReply sets the reply fields of an existing message and nothing else.
	AttachReply(ctx context.Context, chatID uuid.UUID, text, image string) (*domain.ChatMessage, error)
	GetMessage(ctx context.Context, chatID uuid.UUID) (*domain.ChatMessage, error)
	ListConversation(ctx context.Context, userID, peerID string, limit, offset int) ([]*domain.ChatMessage, error)
}

type chatService struct {
	chatRepo   repository.ChatRepository
	classifier *domain.Classifier
	log        logger.Logger
}

func NewChatService(chatRepo repository.ChatRepository, classifier *domain.Classifier, log logger.Logger) ChatService {
	return &chatService{
		chatRepo:   chatRepo,
		classifier: classifier,
		log:        log,
	}
}

func (s *chatService) SendMessage(ctx context.Context, in domain.SendMessageInput) (*domain.ChatMessage, error) {
	if in.SenderID == "" {
		return nil, fmt.Errorf("%w: sender is required", apperrors.ErrInvalidPayload)
	}

	message := domain.NewChatMessage(in, s.classifier)

	saved, err := s.chatRepo.CreateMessage(ctx, message)
	if err != nil {
		metrics.ChatSaveErrors.Inc()
		s.log.Error("Chat save error", "error", err, "sender_id", in.SenderID, "recipient_id", in.RecipientID)
		return nil, err
	}

	return saved, nil
}

func (s *chatService) AttachReply(ctx context.Context, chatID uuid.UUID, text, image string) (*domain.ChatMessage, error) {
	var imagePtr *string
	if image != "" {
		imagePtr = &image
	}

	updated, err := s.chatRepo.UpdateReply(ctx, chatID, &text, imagePtr)
	if err != nil {
		s.log.Warn("Failed to attach reply", "error", err, "chat_id", chatID)
		return nil, err
	}

	return updated, nil
}

func (s *chatService) GetMessage(ctx context.Context, chatID uuid.UUID) (*domain.ChatMessage, error) {
	return s.chatRepo.GetMessageByID(ctx, chatID)
}

func (s *chatService) ListConversation(ctx context.Context, userID, peerID string, limit, offset int) ([]*domain.ChatMessage, error) {
	if userID == "" || peerID == "" {
		return nil, apperrors.ErrBadRequest
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.chatRepo.ListConversation(ctx, userID, peerID, limit, offset)
}
