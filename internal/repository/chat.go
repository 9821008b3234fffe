package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"social_network/internal/domain"
	apperrors "social_network/pkg/errors"
	"social_network/pkg/logger"
)

type ChatRepository interface {
	// CreateMessage inserts the message and returns it with the sender resolved,
	// in a single statement.
	CreateMessage(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error)
	GetMessageByID(ctx context.Context, id uuid.UUID) (*domain.ChatMessage, error)
	UpdateReply(ctx context.Context, id uuid.UUID, text, image *string) (*domain.ChatMessage, error)
	ListConversation(ctx context.Context, userID, peerID string, limit, offset int) ([]*domain.ChatMessage, error)
}

type chatRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewChatRepository(db *pgxpool.Pool, log logger.Logger) ChatRepository {
	return &chatRepository{db: db, log: log}
}

const chatColumns = `
	c.id, c.sender_id, c.recipient_id, c.message_text, c.is_link, c.link, c.media_url,
	c.call_type, c.call_duration, c.reply_text, c.reply_image, c.is_replay, c.client_time,
	u.id, u.name, u.image`

// chatRow mirrors chatColumns; every joined user column is nullable.
type chatRow struct {
	ID           uuid.UUID
	SenderID     string
	RecipientID  string
	Text         *string
	IsLink       bool
	Link         *string
	MediaURL     *string
	CallType     *string
	CallDuration *string
	ReplyText    *string
	ReplyImage   *string
	IsReplay     bool
	ClientTime   string
	UserID       *string
	UserName     *string
	UserImage    *string
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChat(row rowScanner) (*chatRow, error) {
	r := &chatRow{}
	err := row.Scan(
		&r.ID, &r.SenderID, &r.RecipientID, &r.Text, &r.IsLink, &r.Link, &r.MediaURL,
		&r.CallType, &r.CallDuration, &r.ReplyText, &r.ReplyImage, &r.IsReplay, &r.ClientTime,
		&r.UserID, &r.UserName, &r.UserImage,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *chatRow) toDomain() *domain.ChatMessage {
	msg := &domain.ChatMessage{
		ID:          r.ID,
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
		Text:        r.Text,
		MediaURL:    r.MediaURL,
		CreatedAt:   r.ClientTime,
		Reply: domain.ReplyInfo{
			Text:     r.ReplyText,
			Image:    r.ReplyImage,
			IsReplay: r.IsReplay,
		},
	}
	if r.IsLink {
		msg.Link.IsLink = true
		if r.Link != nil {
			msg.Link.Link = *r.Link
		}
	}
	if r.CallType != nil && r.CallDuration != nil {
		msg.Call = &domain.CallInfo{CallType: *r.CallType, Duration: *r.CallDuration}
	}
	if r.UserID != nil {
		msg.User = &domain.User{ID: *r.UserID, Image: r.UserImage}
		if r.UserName != nil {
			msg.User.Name = *r.UserName
		}
	}
	return msg
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}

	var link, callType, callDuration *string
	if message.Link.IsLink {
		link = &message.Link.Link
	}
	if message.Call != nil {
		callType, callDuration = &message.Call.CallType, &message.Call.Duration
	}

	query := `
		WITH c AS (
			INSERT INTO chats (id, sender_id, recipient_id, message_text, is_link, link, media_url,
				call_type, call_duration, client_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT` + chatColumns + `
		FROM c
		LEFT JOIN users u ON u.id = c.sender_id
	`

	row, err := scanChat(r.db.QueryRow(ctx, query,
		message.ID, message.SenderID, message.RecipientID, message.Text, message.Link.IsLink, link,
		message.MediaURL, callType, callDuration, message.CreatedAt,
	))
	if err != nil {
		r.log.Error("Failed to create chat message", "error", err, "sender_id", message.SenderID)
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}

	return row.toDomain(), nil
}

func (r *chatRepository) GetMessageByID(ctx context.Context, id uuid.UUID) (*domain.ChatMessage, error) {
	query := `SELECT` + chatColumns + `
		FROM chats c
		LEFT JOIN users u ON u.id = c.sender_id
		WHERE c.id = $1
	`

	row, err := scanChat(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		r.log.Error("Failed to get chat message", "error", err, "chat_id", id)
		return nil, fmt.Errorf("failed to get chat message: %w", err)
	}

	return row.toDomain(), nil
}

func (r *chatRepository) UpdateReply(ctx context.Context, id uuid.UUID, text, image *string) (*domain.ChatMessage, error) {
	query := `
		WITH c AS (
			UPDATE chats
			SET reply_text = $2, reply_image = $3, is_replay = TRUE
			WHERE id = $1
			RETURNING *
		)
		SELECT` + chatColumns + `
		FROM c
		LEFT JOIN users u ON u.id = c.sender_id
	`

	row, err := scanChat(r.db.QueryRow(ctx, query, id, text, image))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		r.log.Error("Failed to update chat reply", "error", err, "chat_id", id)
		return nil, fmt.Errorf("failed to update chat reply: %w", err)
	}

	return row.toDomain(), nil
}

func (r *chatRepository) ListConversation(ctx context.Context, userID, peerID string, limit, offset int) ([]*domain.ChatMessage, error) {
	query := `SELECT` + chatColumns + `
		FROM chats c
		LEFT JOIN users u ON u.id = c.sender_id
		WHERE (c.sender_id = $1 AND c.recipient_id = $2)
		   OR (c.sender_id = $2 AND c.recipient_id = $1)
		ORDER BY c.inserted_at ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, peerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list conversation", "error", err)
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}
	defer rows.Close()

	messages := make([]*domain.ChatMessage, 0)
	for rows.Next() {
		row, err := scanChat(rows)
		if err != nil {
			r.log.Error("Failed to scan chat message", "error", err)
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation: %w", err)
	}

	return messages, nil
}
