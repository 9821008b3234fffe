package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"social_network/internal/domain"
	apperrors "social_network/pkg/errors"
	"social_network/pkg/logger"
)

type GroupMessageRepository interface {
	Create(ctx context.Context, message *domain.GroupMessage) (*domain.GroupMessage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GroupMessage, error)
	ListByGroup(ctx context.Context, groupID string) ([]*domain.GroupMessage, error)
	AddSeenBy(ctx context.Context, id uuid.UUID, userID string) (*domain.GroupMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type groupMessageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewGroupMessageRepository(db *pgxpool.Pool, log logger.Logger) GroupMessageRepository {
	return &groupMessageRepository{db: db, log: log}
}

const groupColumns = `
	g.id, g.group_id, g.sender_id, g.content, g.message_type, g.seen_by,
	g.reply_sender_img, g.reply_mtext, g.client_time, g.inserted_at,
	u.id, u.name, u.image`

type groupRow struct {
	ID             uuid.UUID
	GroupID        string
	SenderID       string
	Content        *string
	MessageType    string
	SeenBy         []string
	ReplySenderImg *string
	ReplyMText     *string
	ClientTime     string
	InsertedAt     time.Time
	UserID         *string
	UserName       *string
	UserImage      *string
}

func scanGroup(row rowScanner) (*groupRow, error) {
	r := &groupRow{}
	err := row.Scan(
		&r.ID, &r.GroupID, &r.SenderID, &r.Content, &r.MessageType, &r.SeenBy,
		&r.ReplySenderImg, &r.ReplyMText, &r.ClientTime, &r.InsertedAt,
		&r.UserID, &r.UserName, &r.UserImage,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *groupRow) toDomain() *domain.GroupMessage {
	msg := &domain.GroupMessage{
		ID:          r.ID,
		GroupID:     r.GroupID,
		SenderID:    r.SenderID,
		Content:     r.Content,
		MessageType: r.MessageType,
		SeenBy:      r.SeenBy,
		CreatedAt:   r.ClientTime,
		InsertedAt:  r.InsertedAt,
	}
	if msg.SeenBy == nil {
		msg.SeenBy = []string{}
	}
	if r.ReplySenderImg != nil || r.ReplyMText != nil {
		msg.ReplyTo = &domain.GroupReplyTo{}
		if r.ReplySenderImg != nil {
			msg.ReplyTo.SenderImg = *r.ReplySenderImg
		}
		if r.ReplyMText != nil {
			msg.ReplyTo.MText = *r.ReplyMText
		}
	}
	if r.UserID != nil {
		msg.Sender = &domain.User{ID: *r.UserID, Image: r.UserImage}
		if r.UserName != nil {
			msg.Sender.Name = *r.UserName
		}
	}
	return msg
}

func (r *groupMessageRepository) Create(ctx context.Context, message *domain.GroupMessage) (*domain.GroupMessage, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	seenBy := message.SeenBy
	if seenBy == nil {
		seenBy = []string{}
	}

	var replyImg, replyText *string
	if message.ReplyTo != nil {
		replyImg, replyText = &message.ReplyTo.SenderImg, &message.ReplyTo.MText
	}

	query := `
		WITH g AS (
			INSERT INTO group_messages (id, group_id, sender_id, content, message_type, seen_by,
				reply_sender_img, reply_mtext, client_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING *
		)
		SELECT` + groupColumns + `
		FROM g
		LEFT JOIN users u ON u.id = g.sender_id
	`

	row, err := scanGroup(r.db.QueryRow(ctx, query,
		message.ID, message.GroupID, message.SenderID, message.Content, message.MessageType, seenBy,
		replyImg, replyText, message.CreatedAt,
	))
	if err != nil {
		r.log.Error("Failed to create group message", "error", err, "group_id", message.GroupID)
		return nil, fmt.Errorf("failed to create group message: %w", err)
	}

	return row.toDomain(), nil
}

func (r *groupMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GroupMessage, error) {
	query := `SELECT` + groupColumns + `
		FROM group_messages g
		LEFT JOIN users u ON u.id = g.sender_id
		WHERE g.id = $1
	`

	row, err := scanGroup(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupMessageNotFound
		}
		r.log.Error("Failed to get group message", "error", err, "message_id", id)
		return nil, fmt.Errorf("failed to get group message: %w", err)
	}

	return row.toDomain(), nil
}

func (r *groupMessageRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.GroupMessage, error) {
	query := `SELECT` + groupColumns + `
		FROM group_messages g
		LEFT JOIN users u ON u.id = g.sender_id
		WHERE g.group_id = $1
		ORDER BY g.inserted_at ASC
	`

	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		r.log.Error("Failed to list group messages", "error", err, "group_id", groupID)
		return nil, fmt.Errorf("failed to list group messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*domain.GroupMessage, 0)
	for rows.Next() {
		row, err := scanGroup(rows)
		if err != nil {
			r.log.Error("Failed to scan group message", "error", err)
			return nil, fmt.Errorf("failed to scan group message: %w", err)
		}
		messages = append(messages, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group messages: %w", err)
	}

	return messages, nil
}

// AddSeenBy appends userID to seen_by once; repeated calls are no-ops.
func (r *groupMessageRepository) AddSeenBy(ctx context.Context, id uuid.UUID, userID string) (*domain.GroupMessage, error) {
	query := `
		WITH g AS (
			UPDATE group_messages
			SET seen_by = CASE WHEN $2::text = ANY(seen_by) THEN seen_by ELSE array_append(seen_by, $2::text) END
			WHERE id = $1
			RETURNING *
		)
		SELECT` + groupColumns + `
		FROM g
		LEFT JOIN users u ON u.id = g.sender_id
	`

	row, err := scanGroup(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupMessageNotFound
		}
		r.log.Error("Failed to mark group message seen", "error", err, "message_id", id)
		return nil, fmt.Errorf("failed to mark group message seen: %w", err)
	}

	return row.toDomain(), nil
}

func (r *groupMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM group_messages WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete group message", "error", err, "message_id", id)
		return fmt.Errorf("failed to delete group message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrGroupMessageNotFound
	}
	return nil
}
