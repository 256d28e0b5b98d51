package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a node in a poll's discussion tree. Root comments have a nil
// ParentID. Deleting a comment removes its whole reply subtree.
type Comment struct {
	gorm.Model
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	PollID   uint   `gorm:"not null;index" json:"poll_id"`
	ParentID *uint  `gorm:"index" json:"parent_id"`

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

/** -------------------- DTOs -------------------- */
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  uint      `json:"author_id"`
	PollID    uint      `json:"poll_id"`
	ParentID  *uint     `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	Replies   int64     `json:"replies"`
}
