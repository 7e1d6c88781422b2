package controllers

import (
	"errors"
	"net/http"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/app/services"
	"github.com/farmermarket/backend/pkg/bind"
	"github.com/farmermarket/backend/pkg/logger"
	"github.com/farmermarket/backend/pkg/response"
)

type MessageController struct {
	messages *services.MessageService
}

func NewMessageController(messages *services.MessageService) *MessageController {
	return &MessageController{messages: messages}
}

// Send handles multipart POST /api/messages/send with an optional "image".
func (c *MessageController) Send(w http.ResponseWriter, r *http.Request) {
	if err := bind.Multipart(w, r); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	m := &models.Message{
		BuyerName:  bind.Form(r, "buyerName"),
		BuyerEmail: bind.Form(r, "buyerEmail"),
		SenderRole: bind.Form(r, "senderRole"),
		Subject:    bind.Form(r, "subject"),
		Body:       bind.Form(r, "message"),
	}

	var upload *services.Upload
	file, err := bind.File(r, "image")
	switch {
	case err == nil:
		upload = &services.Upload{Filename: file.BaseName(), ContentType: file.ContentType, Data: file.Data}
	case !errors.Is(err, bind.ErrNoFile):
		response.BadRequest(w, err.Error())
		return
	}

	sent, err := c.messages.Send(r.Context(), m, upload)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			response.ValidationError(w, verr.Fields)
		case errors.Is(err, services.ErrValidation):
			response.BadRequest(w, "Only image files are allowed.")
		default:
			logger.WithCtx(r.Context()).Error("send message failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Error sending message: "+err.Error())
		}
		return
	}
	response.Success(w, sent)
}

// Buyer handles GET /api/messages/buyer/{email}.
func (c *MessageController) Buyer(w http.ResponseWriter, r *http.Request) {
	msgs, err := c.messages.BuyerMessages(r.Context(), param(r, "email"))
	if err != nil {
		fail(w, r, err, "Messages not found")
		return
	}
	response.Success(w, msgs)
}

// Admin handles GET /api/messages/admin.
func (c *MessageController) Admin(w http.ResponseWriter, r *http.Request) {
	msgs, err := c.messages.AllMessages(r.Context())
	if err != nil {
		fail(w, r, err, "Messages not found")
		return
	}
	response.Success(w, msgs)
}
