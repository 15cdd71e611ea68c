package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"ava/models"
)

// Conversations stores assistant chat history.
type Conversations struct {
	db *gorm.DB
}

// NewConversations returns a Conversations store backed by db.
func NewConversations(db *gorm.DB) *Conversations {
	return &Conversations{db: db}
}

// Exchange is a user question and the assistant's answer to it.
type Exchange struct {
	Question string
	Answer   string
}

// Create starts a conversation for userID. A blank title becomes
// "New Conversation". When first is non-nil it is stored with the
// conversation, and nothing is kept if either write fails.
func (c *Conversations) Create(ctx context.Context, userID uint, title string, productID *uint, first *Exchange) (models.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New Conversation"
	}
	conversation := models.Conversation{
		UserID:    userID,
		Title:     title,
		ProductID: productID,
		Messages:  []models.Message{},
	}
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Product", "Messages").Create(&conversation).Error; err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}
		if first == nil {
			return nil
		}
		messages, err := appendExchange(tx, conversation.ID, *first)
		if err != nil {
			return err
		}
		conversation.Messages = messages
		conversation.UpdatedAt = messages[len(messages)-1].CreatedAt
		return nil
	})
	if err != nil {
		return models.Conversation{}, err
	}
	return conversation, nil
}

// List returns userID's conversations, most recently updated first, without
// their messages.
func (c *Conversations) List(ctx context.Context, userID uint) ([]models.Conversation, error) {
	conversations := make([]models.Conversation, 0)
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc, id desc").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

// Get returns a conversation with its messages in order. Conversations owned
// by another user are reported as ErrNotFound.
func (c *Conversations) Get(ctx context.Context, userID, id uint) (models.Conversation, error) {
	var conversation models.Conversation
	err := c.db.WithContext(ctx).
		Preload("Messages", orderByID).
		Where("user_id = ?", userID).
		First(&conversation, id).Error
	if err != nil {
		return models.Conversation{}, notFound(err)
	}
	return conversation, nil
}

// AddExchange appends both sides of an exchange and bumps the
// conversation's update time. Either both messages are stored or neither is.
func (c *Conversations) AddExchange(ctx context.Context, conversationID uint, exchange Exchange) ([]models.Message, error) {
	var messages []models.Message
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		messages, err = appendExchange(tx, conversationID, exchange)
		return err
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func appendExchange(tx *gorm.DB, conversationID uint, exchange Exchange) ([]models.Message, error) {
	messages := []models.Message{
		{ConversationID: conversationID, Sender: models.SenderUser, Content: exchange.Question},
		{ConversationID: conversationID, Sender: models.SenderAva, Content: exchange.Answer},
	}
	for i := range messages {
		if err := tx.Create(&messages[i]).Error; err != nil {
			return nil, fmt.Errorf("create message: %w", err)
		}
	}
	last := messages[len(messages)-1].CreatedAt
	if err := tx.Model(&models.Conversation{}).Where("id = ?", conversationID).Update("updated_at", last).Error; err != nil {
		return nil, fmt.Errorf("touch conversation: %w", err)
	}
	return messages, nil
}
