package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/chat"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type chatRepositoryImpl struct {
	db *database.DB
}

func NewChatRepository(db *database.DB) chat.MessageRepository {
	return &chatRepositoryImpl{db: db}
}

func (r *chatRepositoryImpl) Create(ctx context.Context, msg chat.Message) (chat.Message, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return chat.Message{}, err
	}

	query := `
		WITH inserted AS (
			INSERT INTO chat_messages (id, sender_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, sender_id, content, created_at
		)
		SELECT i.id, i.sender_id, i.content, i.created_at, u.role, u.first_name, u.last_name
		FROM inserted i
		INNER JOIN users u ON u.id = i.sender_id
	`

	var created chat.Message
	err = q.QueryRow(ctx, query, id, msg.SenderID, msg.Content).Scan(
		&created.ID,
		&created.SenderID,
		&created.Content,
		&created.CreatedAt,
		&created.SenderRole,
		&created.SenderFirstName,
		&created.SenderLastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.Message{}, user.ErrUserNotFound
		}
		return chat.Message{}, fmt.Errorf("failed to create chat message: %w", err)
	}
	return created, nil
}

func (r *chatRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]chat.Message, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, sender_id, content, created_at, role, first_name, last_name
		FROM (
			SELECT m.id, m.sender_id, m.content, m.created_at, u.role, u.first_name, u.last_name
			FROM chat_messages m
			INNER JOIN users u ON u.id = m.sender_id
			ORDER BY m.created_at DESC
			LIMIT $1
		) recent
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.Content, &m.CreatedAt, &m.SenderRole, &m.SenderFirstName, &m.SenderLastName); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat messages: %w", err)
	}
	return messages, nil
}
