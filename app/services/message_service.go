package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/logger"
	"github.com/farmermarket/backend/pkg/metrics"
)

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	ByBuyerEmail(ctx context.Context, email string) ([]models.Message, error)
	All(ctx context.Context) ([]models.Message, error)
}

// AssetStore is where message attachments are written.
type AssetStore interface {
	Put(ctx context.Context, p string, content []byte, contentType string) error
	URL(p string) string
}

// Upload is a file attached to a message.
type Upload struct {
	Filename    string
	ContentType string // as declared by the client
	Data        []byte
}

type MessageService struct {
	messages MessageStore
	assets   AssetStore
	disk     string
}

// NewMessageService writes attachments to assets; disk names it in metrics.
func NewMessageService(messages MessageStore, assets AssetStore, disk string) *MessageService {
	return &MessageService{messages: messages, assets: assets, disk: disk}
}

// Send stores the optional image, then appends the message.
func (s *MessageService) Send(ctx context.Context, m *models.Message, img *Upload) (*models.Message, error) {
	m.ID = 0
	m.SenderRole = strings.ToLower(strings.TrimSpace(m.SenderRole))
	switch m.SenderRole {
	case "":
		m.SenderRole = models.SenderBuyer
	case models.SenderBuyer, models.SenderAdmin:
	default:
		return nil, &ValidationError{Fields: map[string]string{
			"senderRole": "The selected senderRole is invalid.",
		}}
	}

	if img != nil {
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(img.ContentType)), "image/") {
			return nil, fmt.Errorf("services: send message: only image files are allowed: %w", ErrValidation)
		}

		p := "messages/" + uuid.NewString() + "_" + uploadName(img.Filename)
		if err := s.assets.Put(ctx, p, img.Data, img.ContentType); err != nil {
			return nil, fmt.Errorf("services: store message image: %w", err)
		}
		metrics.UploadsStored.WithLabelValues(s.disk).Inc()
		m.ImagePath = s.assets.URL(p)
	}

	if err := s.messages.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("services: send message: %w", err)
	}

	logger.WithCtx(ctx).Info("message sent", "id", m.ID, "buyer_email", m.BuyerEmail, "image", m.ImagePath != "")
	return m, nil
}

// BuyerMessages returns the buyer's messages, oldest first.
func (s *MessageService) BuyerMessages(ctx context.Context, email string) ([]models.Message, error) {
	msgs, err := s.messages.ByBuyerEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("services: buyer messages: %w", err)
	}
	return msgs, nil
}

func (s *MessageService) AllMessages(ctx context.Context) ([]models.Message, error) {
	msgs, err := s.messages.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("services: all messages: %w", err)
	}
	return msgs, nil
}

// uploadName drops any directories from a client filename. A name that ends
// in a separator has no file part and becomes "upload".
func uploadName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	if name == "" || strings.HasSuffix(name, "/") {
		return "upload"
	}
	name = path.Base(name)
	if name == "." || name == ".." {
		return "upload"
	}
	return name
}
