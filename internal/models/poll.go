package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ViewingOnlyOption is appended to every poll after the caller's options so
// "no preference" voters are still countable.
const ViewingOnlyOption = "Just viewing results 🍿"

// Poll types
const (
	PollTypeGeneral    = "general"
	PollTypeUniversity = "university"
)

// End date bounds, measured from creation time.
const (
	PollDefaultDuration = 72 * time.Hour
	PollMinDuration     = 5 * time.Minute
	PollMaxDuration     = 240 * time.Hour
)

/** --------------------ENTITIES-------------------- */
// Poll is a time-bounded question. UserID is nil for anonymous polls created
// through the API.
type Poll struct {
	gorm.Model
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	PollType    string     `gorm:"size:50;not null" json:"poll_type"`
	Course      string     `gorm:"size:200" json:"course,omitempty"`
	EndDate     *time.Time `gorm:"index" json:"end_date"`
	UserID      *uint      `gorm:"index" json:"user_id"`

	Options []PollOption `gorm:"constraint:OnDelete:CASCADE" json:"options"`
}

// IsActive reports whether the poll still accepts votes at t.
// Expiry is computed lazily from EndDate; nothing sweeps polls.
func (p *Poll) IsActive(t time.Time) bool {
	return p.EndDate == nil || p.EndDate.After(t)
}

type PollOption struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PollID    uint      `gorm:"not null;index" json:"poll_id"`
	Text      string    `gorm:"size:200;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Vote selects one option of one poll. PollID is denormalized so the
// one-vote-per-user-per-poll rule is a table constraint, not an application
// check; NULL user_id rows (anonymous votes) are exempt.
type Vote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    *uint     `gorm:"uniqueIndex:idx_vote_user_poll" json:"user_id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_poll" json:"poll_id"`
	OptionID  uint      `gorm:"not null;index" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PollUpvote is the like-style signal on a poll, distinct from a Vote.
// One row per (user, poll); toggling removes it.
type PollUpvote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_upvote_user_poll" json:"user_id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_upvote_user_poll;index" json:"poll_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

/** -------------------- DTOs -------------------- */
// CreatePollRequest mirrors the programmatic poll creation contract.
// Options are strings for general polls and objects with a name for
// university polls.
type CreatePollRequest struct {
	Title       string            `json:"title" binding:"required,max=200"`
	Description string            `json:"description"`
	PollType    string            `json:"poll_type" binding:"required,oneof=general university"`
	Course      string            `json:"course"`
	EndDate     string            `json:"end_date"` // optional, ISO-8601
	Options     []PollOptionInput `json:"options" binding:"required"`
}

type PollOptionInput struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts either a bare string or {"name": ...}.
func (o *PollOptionInput) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &o.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	o.Name = obj.Name
	return nil
}

type CreatePollResponse struct {
	ID             uint      `json:"id"`
	EndDate        time.Time `json:"end_date"`
	DefaultEndDate time.Time `json:"default_end_date"`
	MinEndDate     time.Time `json:"min_end_date"`
	MaxEndDate     time.Time `json:"max_end_date"`
}

type OptionCount struct {
	ID    uint   `json:"id"`
	Text  string `json:"text,omitempty"`
	Votes int64  `json:"votes"`

	// University carries the directory record for the option's university,
	// attached on university polls when the lookup succeeds.
	University *UniversityDetail `json:"university,omitempty"`
}

type PollResponse struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	PollType    string        `json:"poll_type"`
	Course      string        `json:"course,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	EndDate     *time.Time    `json:"end_date"`
	IsActive    bool          `json:"is_active"`
	Options     []OptionCount `json:"options"`
	TotalVotes  int64         `json:"total_votes"`
	Upvotes     int64         `json:"upvotes"`
	UserVoted   bool          `json:"user_voted"`
}

type PollListItem struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	PollType  string     `json:"poll_type"`
	CreatedAt time.Time  `json:"created_at"`
	EndDate   *time.Time `json:"end_date"`
	Upvotes   int64      `json:"upvotes"`
}

type VoteRequest struct {
	OptionID uint `json:"option_id" binding:"required"`
}

type VoteResponse struct {
	Options    []OptionCount `json:"options"`
	TotalVotes int64         `json:"total_votes"`
}

// Upvote toggle outcomes
const (
	UpvoteAdded   = "added"
	UpvoteRemoved = "removed"
)

type UpvoteResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Poll list sort orders
const (
	SortNew      = "new"
	SortTop      = "top"
	SortTrending = "trending"
)
