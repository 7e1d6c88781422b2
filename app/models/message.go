package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SenderBuyer = "buyer"
	SenderAdmin = "admin"

	MessageUnread = "unread"
)

// Message is an append-only note between a buyer and the admin.
type Message struct {
	ID         uint      `gorm:"primaryKey"         json:"id"`
	BuyerName  string    `gorm:"size:255"           json:"buyerName"`
	BuyerEmail string    `gorm:"size:255;index"     json:"buyerEmail"`
	SenderRole string    `gorm:"size:20"            json:"senderRole"`
	Subject    string    `gorm:"size:255"           json:"subject"`
	Body       string    `gorm:"column:message;type:text" json:"message"`
	ImagePath  string    `gorm:"size:500"           json:"imagePath,omitempty"`
	Status     string    `gorm:"size:20"            json:"status"`
	CreatedAt  time.Time `gorm:"index"              json:"createdAt"`
}

// BeforeCreate stamps createdAt and the default status on first persist.
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.Status == "" {
		m.Status = MessageUnread
	}
	return nil
}
