package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// Community is a topic room keyed by (university, program); the pair is
// unique across the table.
type Community struct {
	gorm.Model
	Name        string `gorm:"size:200;not null" json:"name"`
	University  string `gorm:"size:100;not null;uniqueIndex:idx_community_uni_program" json:"university"`
	Program     string `gorm:"size:100;not null;uniqueIndex:idx_community_uni_program" json:"program"`
	Description string `gorm:"type:text" json:"description"`
	CreatedByID uint   `gorm:"not null" json:"created_by_id"`
}

type CommunityMember struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_community_member" json:"user_id"`
	CommunityID uint      `gorm:"not null;uniqueIndex:idx_community_member;index" json:"community_id"`
	CreatedAt   time.Time `json:"joined_at"`
}

type CommunityMessage struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	CommunityID uint      `gorm:"not null;index" json:"community_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	Author User `gorm:"foreignKey:UserID" json:"-"`
}

type PinnedCommunity struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_pinned_community" json:"user_id"`
	CommunityID uint      `gorm:"not null;uniqueIndex:idx_pinned_community" json:"community_id"`
	CreatedAt   time.Time `json:"pinned_at"`
}

/** -------------------- DTOs -------------------- */
type CreateCommunityRequest struct {
	University  string `json:"university" binding:"required,max=100"`
	Program     string `json:"program" binding:"required,max=100"`
	Description string `json:"description"`
}

type CommunityResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	University  string    `json:"university"`
	Program     string    `json:"program"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Members     int64     `json:"members"`
	IsMember    bool      `json:"is_member"`
}

type CommunityMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommunityMessageResponse struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  uint      `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Pin toggle outcomes, shared by communities and conversations.
const (
	PinStatusPinned        = "pinned"
	PinStatusAlreadyPinned = "already_pinned"
	PinStatusUnpinned      = "unpinned"
	PinStatusNotPinned     = "not_pinned"
)

type PinResponse struct {
	Status string `json:"status"`
}
