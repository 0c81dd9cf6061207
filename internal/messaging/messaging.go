package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursehub/internal/entity"
	"coursehub/internal/validate"
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrNotFound          = errors.New("message not found")
)

type MessageStore interface {
	Create(ctx context.Context, m *entity.Message) (*entity.Message, error)
	ListForReceiver(ctx context.Context, receiverID int64) ([]entity.MessageView, error)
	GetByID(ctx context.Context, id int64) (*entity.MessageView, error)
}

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

// SendInput is the compose form.
type SendInput struct {
	Recipient string `form:"recipient" validate:"required"`
	Content   string `form:"content" validate:"required,max=2000"`
}

type Service struct {
	messages MessageStore
	users    UserStore
}

func NewService(messages MessageStore, users UserStore) *Service {
	return &Service{messages: messages, users: users}
}

// Send delivers a message from senderID to the user named in.Recipient.
func (s *Service) Send(ctx context.Context, senderID int64, in SendInput) (*entity.Message, error) {
	in.Recipient = strings.TrimSpace(in.Recipient)
	in.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	to, err := s.users.GetByUsername(ctx, in.Recipient)
	if err != nil {
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	if to == nil {
		return nil, ErrRecipientNotFound
	}

	m, err := s.messages.Create(ctx, &entity.Message{
		SenderID:   senderID,
		ReceiverID: to.ID,
		Content:    in.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// Inbox lists the messages addressed to userID, newest first.
func (s *Service) Inbox(ctx context.Context, userID int64) ([]entity.MessageView, error) {
	msgs, err := s.messages.ListForReceiver(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// Get returns a message only to its receiver. Anyone else gets
// ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, messageID int64) (*entity.MessageView, error) {
	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	if m == nil || m.ReceiverID != userID {
		return nil, ErrNotFound
	}
	return m, nil
}
