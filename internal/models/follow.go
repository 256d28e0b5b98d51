package models

import "time"

// Follow is a directed edge: follower sees followed's private content.
// Rows are hard-deleted on unfollow so the unique pair can be re-created.
type Follow struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
}

// FollowRequest exists only while pending; accepting or rejecting consumes it.
type FollowRequest struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	RequesterID uint      `gorm:"not null;uniqueIndex:idx_follow_request_pair" json:"requester_id"`
	RequestedID uint      `gorm:"not null;uniqueIndex:idx_follow_request_pair" json:"requested_id"`
	CreatedAt   time.Time `json:"created_at"`

	Requester User `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"-"`
	Requested User `gorm:"foreignKey:RequestedID;constraint:OnDelete:CASCADE" json:"-"`
}

// FollowState is the explicit relationship state for an ordered user pair.
type FollowState string

const (
	FollowStateNone      FollowState = "none"
	FollowStatePending   FollowState = "pending"
	FollowStateFollowing FollowState = "following"
)

/** -------------------- DTOs -------------------- */
type FollowActionResponse struct {
	State FollowState `json:"state"`
}

type FollowRequestResponse struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type FollowUserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
