package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"platform-ledger-go/internal/models"
)

func (s *Service) CreateMessage(ctx context.Context, senderId, receiverId, message string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		Id:         newId(),
		SenderId:   senderId,
		ReceiverId: receiverId,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, queryInsertMessage,
		msg.Id, msg.SenderId, msg.ReceiverId, msg.Message, msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

// GetChatHistory returns every message sent or received by the identity,
// oldest first.
func (s *Service) GetChatHistory(ctx context.Context, identityId string) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, queryGetChatHistory, identityId, identityId)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer closeRows(rows)

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		err := rows.Scan(&msg.Id, &msg.SenderId, &msg.ReceiverId, &msg.Message, &msg.IsRead, &msg.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *Service) CountUnread(ctx context.Context, identityId string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, queryCountUnread, identityId).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// MarkMessagesRead flags unread messages addressed to the receiver. When a
// sender id is given only that conversation is touched. Returns the number
// of messages updated.
func (s *Service) MarkMessagesRead(ctx context.Context, receiverId, senderId string) (int64, error) {
	var err error
	var result sql.Result
	if senderId == "" {
		result, err = s.db.ExecContext(ctx, queryMarkAllRead, receiverId)
	} else {
		result, err = s.db.ExecContext(ctx, queryMarkReadFromSender, receiverId, senderId)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return result.RowsAffected()
}
