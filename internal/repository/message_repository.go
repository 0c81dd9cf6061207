package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coursehub/internal/entity"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) (*entity.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	m.SentAt = m.SentAt.UTC()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content, sent_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, m.SenderID, m.ReceiverID, m.Content, m.SentAt).Scan(&m.ID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

const messageViewQuery = `
	SELECT m.id, m.sender_id, m.receiver_id, m.content, m.sent_at, u.name, u.username
	FROM messages m
	JOIN users u ON u.id = m.sender_id
`

func scanMessageView(row interface{ Scan(...any) error }) (*entity.MessageView, error) {
	var v entity.MessageView
	err := row.Scan(&v.ID, &v.SenderID, &v.ReceiverID, &v.Content, &v.SentAt, &v.SenderName, &v.SenderUsername)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListForReceiver returns the inbox of receiverID, newest first.
func (r *MessageRepository) ListForReceiver(ctx context.Context, receiverID int64) ([]entity.MessageView, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, messageViewQuery+`
		WHERE m.receiver_id = $1
		ORDER BY m.sent_at DESC, m.id DESC
	`, receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.MessageView
	for rows.Next() {
		v, err := scanMessageView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*entity.MessageView, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	v, err := scanMessageView(r.db.QueryRowContext(ctx, messageViewQuery+` WHERE m.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}
