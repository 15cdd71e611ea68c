package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"ava/internal/assistant"
	"ava/internal/ingredient"
	applog "ava/internal/log"
	"ava/internal/store"
	"ava/models"
)

// titleRunes caps titles derived from a first message.
const titleRunes = 50

type chatRequest struct {
	Message        string `json:"message"`
	ProductID      *uint  `json:"productId"`
	ConversationID *uint  `json:"conversationId"`
}

type chatResponse struct {
	Response       string `json:"response"`
	ConversationID uint   `json:"conversationId"`
}

type createConversationRequest struct {
	Title          string `json:"title"`
	ProductID      *uint  `json:"productId"`
	InitialMessage string `json:"initialMessage"`
}

type messageResponse struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
}

type conversationResponse struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	ProductID *uint             `json:"productId,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Messages  []messageResponse `json:"messages,omitempty"`
}

// Chat answers a question about the caller's profile and, optionally, a
// saved product. Both sides of the exchange are stored in a conversation,
// which is created when none is given.
func Chat(w http.ResponseWriter, r *http.Request) {
	if deps.Conversations == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "chat not available")
		return
	}

	var body chatRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	message := strings.TrimSpace(body.Message)
	if message == "" {
		writeJSONError(w, http.StatusBadRequest, "Message is required")
		return
	}

	userID, profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	var conversation models.Conversation
	var err error
	if body.ConversationID != nil {
		conversation, err = deps.Conversations.Get(r.Context(), userID, *body.ConversationID)
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		if err != nil {
			applog.Error(r.Context(), "failed to load conversation", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to process message")
			return
		}
	}

	productID := body.ProductID
	if productID == nil {
		productID = conversation.ProductID
	}
	product, ok := productContext(w, r, productID, profile)
	if !ok {
		return
	}

	exchange := store.Exchange{
		Question: message,
		Answer:   answer(r.Context(), profile, product, message),
	}
	if conversation.ID == 0 {
		conversation, err = deps.Conversations.Create(r.Context(), userID, titleFrom(message), productID, &exchange)
	} else {
		_, err = deps.Conversations.AddExchange(r.Context(), conversation.ID, exchange)
	}
	if err != nil {
		applog.Error(r.Context(), "failed to store chat messages", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	writeJSON(w, r, http.StatusOK, chatResponse{Response: exchange.Answer, ConversationID: conversation.ID})
}

// CreateConversation starts a conversation and answers its initial message
// when one is given.
func CreateConversation(w http.ResponseWriter, r *http.Request) {
	if deps.Conversations == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "chat not available")
		return
	}

	var body createConversationRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	userID, profile, ok := currentProfile(w, r)
	if !ok {
		return
	}
	product, ok := productContext(w, r, body.ProductID, profile)
	if !ok {
		return
	}

	var first *store.Exchange
	if initial := strings.TrimSpace(body.InitialMessage); initial != "" {
		first = &store.Exchange{Question: initial, Answer: answer(r.Context(), profile, product, initial)}
	}

	conversation, err := deps.Conversations.Create(r.Context(), userID, body.Title, body.ProductID, first)
	if err != nil {
		applog.Error(r.Context(), "failed to create conversation", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}

	conversation, err = deps.Conversations.Get(r.Context(), userID, conversation.ID)
	if err != nil {
		applog.Error(r.Context(), "failed to reload conversation", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}
	writeJSON(w, r, http.StatusCreated, toConversationResponse(conversation))
}

// ListConversations returns the caller's conversations, newest activity first.
func ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if deps.Conversations == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "chat not available")
		return
	}

	conversations, err := deps.Conversations.List(r.Context(), userID)
	if err != nil {
		applog.Error(r.Context(), "failed to list conversations", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load conversations")
		return
	}
	resp := make([]conversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		resp = append(resp, toConversationResponse(conversation))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// GetConversation returns one of the caller's conversations with its messages.
func GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid conversation id")
		return
	}
	if deps.Conversations == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "chat not available")
		return
	}

	conversation, err := deps.Conversations.Get(r.Context(), userID, id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		applog.Error(r.Context(), "failed to load conversation", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load conversation")
		return
	}
	writeJSON(w, r, http.StatusOK, toConversationResponse(conversation))
}

// productContext loads the product a question refers to and annotates its
// ingredients for profile. A nil id yields a nil context.
func productContext(w http.ResponseWriter, r *http.Request, id *uint, profile ingredient.Profile) (*assistant.ProductContext, bool) {
	if id == nil {
		return nil, true
	}
	if deps.Products == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "products not available")
		return nil, false
	}
	detail, err := deps.Products.Get(r.Context(), *id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Product not found")
		return nil, false
	}
	if err != nil {
		applog.Error(r.Context(), "failed to load product", "error", err, "product_id", *id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load product")
		return nil, false
	}
	return &assistant.ProductContext{
		Name:        detail.Name,
		Category:    detail.Category,
		Ingredients: riskPolicy().Annotate(detail.Ingredients, profile),
	}, true
}

// answer asks the assistant about message with the caller's profile and
// product as context.
func answer(ctx context.Context, profile ingredient.Profile, product *assistant.ProductContext, message string) string {
	prompt := assistant.Prompt(assistant.BuildContext(profile, product), message)
	return assistant.Reply(ctx, deps.Assistant, prompt)
}

func titleFrom(message string) string {
	if utf8.RuneCountInString(message) <= titleRunes {
		return message
	}
	runes := []rune(message)
	return strings.TrimSpace(string(runes[:titleRunes])) + "..."
}

func toConversationResponse(conversation models.Conversation) conversationResponse {
	resp := conversationResponse{
		ID:        conversation.ID,
		Title:     conversation.Title,
		ProductID: conversation.ProductID,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
	for _, message := range conversation.Messages {
		resp.Messages = append(resp.Messages, messageResponse{
			ID:        message.ID,
			Content:   message.Content,
			Sender:    message.Sender,
			CreatedAt: message.CreatedAt,
		})
	}
	return resp
}
