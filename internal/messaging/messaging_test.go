package messaging

import (
	"context"
	"errors"
	"testing"

	"coursehub/internal/entity"
	"coursehub/internal/repository"
	"coursehub/internal/testutil"
	"coursehub/internal/validate"
)

func setup(t *testing.T, name string) (*Service, map[string]*entity.User) {
	t.Helper()
	d := testutil.OpenDB(t, name)
	users := repository.NewUserRepository(d)
	created := map[string]*entity.User{}
	for _, username := range []string{"alice", "bob", "carol"} {
		u, err := users.Create(context.Background(), &entity.User{
			SchoolID: "ID-" + username,
			Name:     username,
			Username: username,
			Password: "pw",
			Role:     entity.RoleStudent,
		})
		if err != nil {
			t.Fatalf("create %s: %v", username, err)
		}
		created[username] = u
	}
	return NewService(repository.NewMessageRepository(d), users), created
}

func TestSendAndInbox(t *testing.T) {
	svc, u := setup(t, "msgsend")
	ctx := context.Background()

	if _, err := svc.Send(ctx, u["alice"].ID, SendInput{Recipient: "bob", Content: "first"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, u["carol"].ID, SendInput{Recipient: " bob ", Content: "second"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	inbox, err := svc.Inbox(ctx, u["bob"].ID)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(inbox) != 2 || inbox[0].Content != "second" || inbox[0].SenderUsername != "carol" {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}

	empty, _ := svc.Inbox(ctx, u["alice"].ID)
	if len(empty) != 0 {
		t.Fatalf("alice should have no messages: %+v", empty)
	}
}

func TestSend_Errors(t *testing.T) {
	svc, u := setup(t, "msgerrors")
	ctx := context.Background()

	var verr *validate.Error
	if _, err := svc.Send(ctx, u["alice"].ID, SendInput{Recipient: "", Content: "  "}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !verr.Has("recipient") || !verr.Has("content") {
		t.Fatalf("fields = %v", verr.Fields)
	}

	if _, err := svc.Send(ctx, u["alice"].ID, SendInput{Recipient: "nobody", Content: "hi"}); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}
}

func TestGet_ReceiverOnly(t *testing.T) {
	svc, u := setup(t, "msgget")
	ctx := context.Background()

	m, err := svc.Send(ctx, u["alice"].ID, SendInput{Recipient: "bob", Content: "secret"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	got, err := svc.Get(ctx, u["bob"].ID, m.ID)
	if err != nil || got.Content != "secret" || got.SenderName != "alice" {
		t.Fatalf("receiver get: %v %+v", err, got)
	}

	for _, who := range []string{"alice", "carol"} {
		if _, err := svc.Get(ctx, u[who].ID, m.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", who, err)
		}
	}
	if _, err := svc.Get(ctx, u["bob"].ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: expected ErrNotFound, got %v", err)
	}
}
