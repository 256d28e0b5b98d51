package postgres

import (
	"fmt"
	"time"

	"gradpolls/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db: db}
}

// CreateWithOptions inserts the poll and its option rows in one transaction,
// preserving the given option order.
func (r *PollRepository) CreateWithOptions(poll *models.Poll, optionTexts []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(poll).Error; err != nil {
			return fmt.Errorf("failed to create poll: %w", err)
		}
		for _, text := range optionTexts {
			option := models.PollOption{PollID: poll.ID, Text: text}
			if err := tx.Create(&option).Error; err != nil {
				return fmt.Errorf("failed to create poll option: %w", err)
			}
			poll.Options = append(poll.Options, option)
		}
		return nil
	})
}

func (r *PollRepository) FindByID(id uint) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("poll_options.id")
		}).
		First(&poll, id).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

// ListActive returns polls whose end date is unset or in the future.
// top orders by all-time upvote count, trending by upvotes within the last
// seven days; both break ties by recency. Zero-upvote polls still appear.
func (r *PollRepository) ListActive(sort string, now time.Time, page, perPage int) ([]models.PollListItem, error) {
	q := r.db.Model(&models.Poll{}).
		Select("polls.id, polls.title, polls.poll_type, polls.created_at, polls.end_date, COUNT(poll_upvotes.id) AS upvotes").
		Where("polls.end_date IS NULL OR polls.end_date > ?", now).
		Group("polls.id")

	switch sort {
	case models.SortTop:
		q = q.
			Joins("LEFT JOIN poll_upvotes ON poll_upvotes.poll_id = polls.id").
			Order("upvotes DESC, polls.created_at DESC")
	case models.SortTrending:
		weekAgo := now.Add(-7 * 24 * time.Hour)
		q = q.
			Joins("LEFT JOIN poll_upvotes ON poll_upvotes.poll_id = polls.id AND poll_upvotes.created_at > ?", weekAgo).
			Order("upvotes DESC, polls.created_at DESC")
	default: // models.SortNew
		q = q.
			Joins("LEFT JOIN poll_upvotes ON poll_upvotes.poll_id = polls.id").
			Order("polls.created_at DESC")
	}

	var items []models.PollListItem
	err := q.Offset((page - 1) * perPage).Limit(perPage).Scan(&items).Error
	return items, err
}

// ListArchived returns ended polls, newest first.
func (r *PollRepository) ListArchived(now time.Time, page, perPage int) ([]models.PollListItem, error) {
	var items []models.PollListItem
	err := r.db.Model(&models.Poll{}).
		Select("polls.id, polls.title, polls.poll_type, polls.created_at, polls.end_date, COUNT(poll_upvotes.id) AS upvotes").
		Joins("LEFT JOIN poll_upvotes ON poll_upvotes.poll_id = polls.id").
		Where("polls.end_date IS NOT NULL AND polls.end_date <= ?", now).
		Group("polls.id").
		Order("polls.created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Scan(&items).Error
	return items, err
}

// CreateVote inserts the vote. The unique (user_id, poll_id) index makes the
// poll-wide one-vote rule an atomic insert-or-reject; a check-then-insert
// alone would race between two concurrent requests.
func (r *PollRepository) CreateVote(vote *models.Vote) error {
	if err := r.db.Create(vote).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create vote: %w", err)
	}
	return nil
}

func (r *PollRepository) HasUserVoted(pollID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		Count(&count).Error
	return count > 0, err
}

// VoteCounts returns per-option vote counts for the poll. Counts are always
// recomputed from the ledger; nothing caches them.
func (r *PollRepository) VoteCounts(pollID uint) (map[uint]int64, error) {
	var rows []struct {
		OptionID uint
		Count    int64
	}
	err := r.db.Model(&models.Vote{}).
		Select("option_id, COUNT(*) AS count").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.OptionID] = row.Count
	}
	return counts, nil
}

// ToggleUpvote removes the actor's upvote if present, otherwise inserts it.
// Runs in one transaction; a concurrent duplicate insert is absorbed by the
// unique pair index rather than surfacing as a second row.
func (r *PollRepository) ToggleUpvote(userID, pollID uint) (string, error) {
	status := models.UpvoteRemoved
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("user_id = ? AND poll_id = ?", userID, pollID).
			Delete(&models.PollUpvote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		status = models.UpvoteAdded
		upvote := models.PollUpvote{UserID: userID, PollID: pollID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&upvote).Error
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

func (r *PollRepository) UpvoteCount(pollID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PollUpvote{}).Where("poll_id = ?", pollID).Count(&count).Error
	return count, err
}
