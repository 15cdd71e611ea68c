package models

import (
	"gorm.io/gorm"
)

// Message senders.
const (
	SenderUser = "user"
	SenderAva  = "ava"
)

// Conversation groups assistant messages for one user, optionally about a product.
type Conversation struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `json:"title"`
	ProductID *uint     `json:"product_id,omitempty"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Messages  []Message `gorm:"foreignKey:ConversationID" json:"messages"`
}

type Message struct {
	gorm.Model
	ConversationID uint   `gorm:"not null;index" json:"conversation_id"`
	Content        string `gorm:"type:text;not null" json:"content"`
	Sender         string `gorm:"type:varchar(8);not null" json:"sender"`
}
