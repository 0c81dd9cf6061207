package handler

import (
	"errors"
	"net/http"

	"coursehub/internal/logger"
	"coursehub/internal/messaging"
	"coursehub/internal/validate"
	"coursehub/internal/view"
)

type MessageHandler struct {
	messages *messaging.Service
	view     view.Renderer
}

func NewMessageHandler(messages *messaging.Service, v view.Renderer) *MessageHandler {
	return &MessageHandler{messages: messages, view: v}
}

func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	d := currentUser(r)
	msgs, err := h.messages.Inbox(r.Context(), d.UserID)
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	data := pageData(r, "Inbox")
	data["Messages"] = msgs
	h.view.Render(w, http.StatusOK, "messages", data)
}

func (h *MessageHandler) Compose(w http.ResponseWriter, r *http.Request) {
	h.renderCompose(w, r, http.StatusOK, messaging.SendInput{Recipient: r.URL.Query().Get("to")}, "")
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	d := currentUser(r)
	in := messaging.SendInput{
		Recipient: r.FormValue("recipient"),
		Content:   r.FormValue("content"),
	}

	m, err := h.messages.Send(r.Context(), d.UserID, in)
	var verr *validate.Error
	switch {
	case err == nil:
		logger.LogInfo("message sent", "message_id", m.ID, "sender_id", d.UserID)
		redirect(w, r, "/messages?message=sent")
	case errors.As(err, &verr):
		h.renderCompose(w, r, http.StatusUnprocessableEntity, in, verr.Error())
	case errors.Is(err, messaging.ErrRecipientNotFound):
		h.renderCompose(w, r, http.StatusUnprocessableEntity, in, "No user with that username.")
	default:
		serverError(w, r, h.view, err)
	}
}

// Detail shows a single message to its receiver. Everyone else gets the
// not-found page.
func (h *MessageHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "messageID")
	if !ok {
		notFound(w, r, h.view)
		return
	}
	d := currentUser(r)

	m, err := h.messages.Get(r.Context(), d.UserID, id)
	if errors.Is(err, messaging.ErrNotFound) {
		notFound(w, r, h.view)
		return
	}
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	data := pageData(r, "Message")
	data["Msg"] = m
	h.view.Render(w, http.StatusOK, "message_detail", data)
}

func (h *MessageHandler) renderCompose(w http.ResponseWriter, r *http.Request, status int, in messaging.SendInput, msg string) {
	data := pageData(r, "New message")
	if msg != "" {
		data["Error"] = msg
	}
	data["Form"] = in
	h.view.Render(w, status, "message_send", data)
}
