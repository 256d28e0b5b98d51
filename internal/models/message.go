package models

import "time"

// DirectMessage is append-only chat between two mutually-following users.
type DirectMessage struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// PinnedConversation marks a peer's thread as pinned for one user.
type PinnedConversation struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_pinned_conversation" json:"user_id"`
	ConversationWithID uint      `gorm:"not null;uniqueIndex:idx_pinned_conversation" json:"conversation_with_id"`
	CreatedAt          time.Time `json:"pinned_at"`
}

/** -------------------- DTOs -------------------- */
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type DirectMessageResponse struct {
	ID          uint      `json:"id"`
	SenderID    uint      `json:"sender_id"`
	RecipientID uint      `json:"recipient_id"`
	Content     string    `json:"content"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConversationResponse is one row of the conversation list: a user the actor
// follows, plus whether the actor pinned the thread.
type ConversationResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Pinned   bool   `json:"pinned"`
	Unread   int64  `json:"unread"`
}
